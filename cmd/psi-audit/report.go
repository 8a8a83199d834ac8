// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NaomiVK/page-speed-accessibility/internal/batch"
	"github.com/NaomiVK/page-speed-accessibility/internal/report"
	"github.com/NaomiVK/page-speed-accessibility/internal/session"
	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the summary table or per-page detail for the latest run",
	Long: `Report renders the most recent audit run. By default it prints the per-URL
summary table; with --url-index it prints the grouped audit detail for one
page: pass-rate statistics, failed and manual audits with descriptions,
example snippets, and manual-testing guidance.

Use --file to read a saved YAML report instead of the session database.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().Int("url-index", -1, "drill into one URL by its summary-table index")
	reportCmd.Flags().String("strategy", "desktop", "strategy for the drill-down: desktop or mobile")
	reportCmd.Flags().String("file", "", "read a saved YAML report file instead of the session database")

	rootCmd.AddCommand(reportCmd)
}

// loadRun returns the result store and strategy list of the run the report
// and export commands operate on: a YAML report file when path is set, the
// most recent persisted run otherwise.
func loadRun(path string) (*batch.Store, []types.Strategy, error) {
	if path != "" {
		rf, err := report.ReadReportFile(path)
		if err != nil {
			return nil, nil, err
		}
		store, err := rf.Store()
		if err != nil {
			return nil, nil, err
		}
		strategies, err := rf.Strategies()
		if err != nil {
			return nil, nil, err
		}
		return store, strategies, nil
	}

	sess, err := openSession()
	if err != nil {
		return nil, nil, err
	}
	defer sess.Close()

	run, err := sess.LatestRun(context.Background())
	if err != nil {
		return nil, nil, err
	}
	store, err := sess.Results(context.Background(), run.ID)
	if err != nil {
		return nil, nil, err
	}
	return store, run.Strategies, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	store, strategies, err := loadRun(file)
	if err != nil {
		return err
	}

	urlIndex, _ := cmd.Flags().GetInt("url-index")
	if urlIndex < 0 {
		report.Summary(store, strategies, os.Stdout)
		return nil
	}

	if urlIndex >= store.NumURLs() {
		return fmt.Errorf("url index %d out of range: the run has %d URLs", urlIndex, store.NumURLs())
	}

	strategyFlag, _ := cmd.Flags().GetString("strategy")
	strategy, err := types.ParseStrategy(strategyFlag)
	if err != nil {
		return err
	}

	result, ok := store.Get(urlIndex, strategy)
	if !ok {
		return fmt.Errorf("no %s result recorded for URL %d", strategy, urlIndex)
	}

	report.Detail(store.URL(urlIndex), strategy, result, os.Stdout)
	return nil
}

// latestRunWithSession opens the session store and loads the most recent
// run with its results. Analyze and export need the run ID for the analyses
// table too; the caller owns closing the returned store.
func latestRunWithSession() (*session.Store, *session.Run, *batch.Store, error) {
	sess, err := openSession()
	if err != nil {
		return nil, nil, nil, err
	}

	run, err := sess.LatestRun(context.Background())
	if err != nil {
		sess.Close()
		return nil, nil, nil, err
	}
	store, err := sess.Results(context.Background(), run.ID)
	if err != nil {
		sess.Close()
		return nil, nil, nil, err
	}
	return sess, run, store, nil
}
