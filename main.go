package main

import (
	"fmt"
	"os"

	"github.com/pingcap-inc/sfadapter/cmd"
	"github.com/pingcap-inc/sfadapter/version"
	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

func init() {
	var printVersion bool

	rootCmd = &cobra.Command{
		Use:          "sfadapter",
		Short:        "Snowflake adapter operations for a dbt-style orchestrator",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.NewSFAdapterVersion().String())
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.Flags().BoolVarP(&printVersion, "version", "v", false, "Print the version of sfadapter")

	rootCmd.AddCommand(
		cmd.NewColumnsCmd(),
		cmd.NewSchemaDiffCmd(),
		cmd.NewExecCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
