package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete blogs older than the retention window",
		Args:  cobra.NoArgs,
		RunE:  runCleanup,
	}
	generate := &cobra.Command{
		Use:   "generate [category or topic]",
		Short: "Research, write, review and publish one blog now",
		Long:  "Without an argument the next category in the rotation is used. A topic that names no category becomes the focus of the next category.",
		RunE:  runGenerate,
	}

	RootCmd.AddCommand(cleanup, generate)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	core, err := openCore(cmd)
	if err != nil {
		return err
	}
	defer core.Close()

	deleted, err := core.Blogger.RunCleanup(cmd.Context())
	if err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}
	printJSON(map[string]interface{}{"deleted": deleted, "count": len(deleted)})
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	core, err := openCore(cmd)
	if err != nil {
		return err
	}
	defer core.Close()

	blog, err := core.Blogger.GenerateNow(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	printJSON(blog)
	return nil
}
