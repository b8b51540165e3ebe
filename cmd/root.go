package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adaptest",
	Short: "Adaptive assessment engine",
	Long: "adaptest selects challenges adaptively, simulates assessments, and scores\n" +
		"finished assessments against a calibrated challenge catalog.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides ADAPTEST_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ADAPTEST_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(placeCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(rescoreCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
