package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gitpulse/gitpulse/internal/export"
	"github.com/gitpulse/gitpulse/internal/identity"
	"github.com/gitpulse/gitpulse/internal/services"
	"github.com/gitpulse/gitpulse/pkg/config"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one analysis pass over a commit log",
	Long: `Run a single batch analysis pass: parse the commit log, resolve
author identities, and print the activity summary.

Examples:
  # Analyze a commit log with the default ruleset
  gitpulse analyze --log commits.log

  # Apply a manual override ruleset and fold in an event archive
  gitpulse analyze --log commits.log --rules rules.yaml --events 2017-01.ndjson

  # Export the result tables as a workbook
  gitpulse analyze --log commits.log --xlsx report.xlsx`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("log", "", "path to the pipe-delimited commit log (required)")
	analyzeCmd.Flags().String("events", "", "path to a GitHub event archive (NDJSON)")
	analyzeCmd.Flags().String("rules", "", "path to the override ruleset (YAML)")
	analyzeCmd.Flags().String("xlsx", "", "export result tables to this xlsx file")
	analyzeCmd.MarkFlagRequired("log")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logPath, _ := cmd.Flags().GetString("log")
	eventsPath, _ := cmd.Flags().GetString("events")
	rulesPath, _ := cmd.Flags().GetString("rules")
	xlsxPath, _ := cmd.Flags().GetString("xlsx")

	snapshot, err := runAnalysis(logPath, eventsPath, rulesPath)
	if err != nil {
		return err
	}

	printSummary(snapshot)

	if xlsxPath != "" {
		if err := export.WriteSnapshot(snapshot, xlsxPath); err != nil {
			return err
		}
		fmt.Printf("\nWorkbook written to %s\n", xlsxPath)
	}

	return nil
}

// runAnalysis loads the ruleset and runs one pass. Shared with serve.
func runAnalysis(logPath, eventsPath, rulesPath string) (*services.Snapshot, error) {
	if rulesPath == "" {
		rulesPath = config.AppConfig.Analysis.RulesPath
	}

	rules := identity.DefaultRuleset()
	if rulesPath != "" {
		loaded, err := identity.LoadRuleset(rulesPath)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}

	service := services.NewAnalysisService(rules, config.AppConfig.Analysis.TopActorCount)
	return service.Analyze(logPath, eventsPath)
}

func printSummary(snapshot *services.Snapshot) {
	summary := snapshot.Summary

	color.New(color.Bold).Println("Analysis summary")
	fmt.Printf("  Rows:        %d total, %s resolved, %s dropped\n",
		summary.TotalRows,
		color.GreenString("%d", summary.ResolvedRows),
		color.YellowString("%d", summary.DroppedRows))
	fmt.Printf("  Identities:  %s canonical (%d drive-by)\n",
		color.CyanString("%d", summary.Identities), summary.DriveByAuthors)
	fmt.Printf("  Hosts:       %d organizational\n", summary.OrgHosts)
	if summary.FirstCommitMonth != "" {
		fmt.Printf("  Range:       %s to %s\n", summary.FirstCommitMonth, summary.LastCommitMonth)
	}

	if len(snapshot.Hosts) > 0 {
		fmt.Println("\n  Top hosts:")
		limit := len(snapshot.Hosts)
		if limit > 5 {
			limit = 5
		}
		for _, host := range snapshot.Hosts[:limit] {
			fmt.Printf("    %-30s %4d commits, %3d authors\n", host.Host, host.Commits, host.Authors)
		}
	}

	if snapshot.Events != nil {
		fmt.Printf("\n  Events:      %d total, %d dropped lines, %d actors matched\n",
			snapshot.Events.TotalEvents, snapshot.Events.DroppedLines, snapshot.Events.MatchedActors)
	}
}
