package cli

import (
	"fmt"

	"portfolio-be/internal/service"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:       "sync [portfolio|projects|blogs|all]",
		Short:     "Rebuild vector collections from their sources",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{service.SyncTargetPortfolio, service.SyncTargetProjects, service.SyncTargetBlogs, service.SyncTargetAll},
		RunE:      runSync,
	}

	RootCmd.AddCommand(cmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	target := service.SyncTargetAll
	if len(args) == 1 {
		target = args[0]
	}

	core, err := openCore(cmd)
	if err != nil {
		return err
	}
	defer core.Close()

	reports, err := service.RunSync(cmd.Context(), core.Syncer, target)
	if err != nil {
		return fmt.Errorf("sync %s: %w", target, err)
	}
	printJSON(reports)
	return nil
}
