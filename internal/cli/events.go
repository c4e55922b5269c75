package cli

import (
	"context"
	"errors"
	"fmt"

	"portfolio-be/internal/config"
	"portfolio-be/pkg/events"
	pktNats "portfolio-be/pkg/nats"

	"github.com/spf13/cobra"
)

var (
	eventType string
	replayAll bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail owner notifications from the NATS event stream",
		Args:  cobra.NoArgs,
		RunE:  runEvents,
	}
	cmd.Flags().StringVarP(&eventType, "type", "t", "", "Only show one event type, e.g. BLOG_PUBLISHED")
	cmd.Flags().BoolVarP(&replayAll, "all", "a", false, "Replay the retained history before tailing")

	RootCmd.AddCommand(cmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		return errors.New("NATS_URL is not set")
	}

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		return err
	}
	defer sub.Close()

	return sub.Tail(cmd.Context(), eventType, replayAll, func(_ context.Context, e events.Event) error {
		fmt.Printf("%s  %-22s  ", e.Timestamp().Format("2006-01-02 15:04:05"), e.EventType())
		printJSON(e.Payload())
		return nil
	})
}
