// Package cli implements the portfolioctl maintenance commands.
package cli

import (
	"encoding/json"
	"fmt"

	"portfolio-be/internal/bootstrap"
	"portfolio-be/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var envFile string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:          "portfolioctl",
	Short:        "Maintenance commands for the portfolio backend",
	Long:         "Runs vector syncs, blog jobs and diagnostics against the same configuration as the API server.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			return godotenv.Load(envFile)
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", "", "Extra .env file loaded before the default one")
}

// openCore builds the shared components. Callers must Close the result.
func openCore(cmd *cobra.Command) (*bootstrap.Core, error) {
	core, err := bootstrap.NewCore(cmd.Context(), config.Load())
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	return core, nil
}

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
