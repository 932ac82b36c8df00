package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitpulse/gitpulse/pkg/config"
	"github.com/gitpulse/gitpulse/pkg/logger"
)

// Version information (set by build flags)
var Version = "dev"

var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gitpulse",
	Short: "Contributor activity analysis with author identity resolution",
	Long: `gitpulse ingests an extracted commit log (and optionally a GitHub
event archive) for a single project, resolves author aliases into
canonical identities, and reports contributor activity trends.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger.Init()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
}
