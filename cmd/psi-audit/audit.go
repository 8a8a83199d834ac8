// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/NaomiVK/page-speed-accessibility/internal/batch"
	"github.com/NaomiVK/page-speed-accessibility/internal/psi"
	"github.com/NaomiVK/page-speed-accessibility/internal/report"
	"github.com/NaomiVK/page-speed-accessibility/internal/secrets"
	"github.com/NaomiVK/page-speed-accessibility/internal/urlfile"
	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

const (
	defaultScoringTimeout = 120 * time.Second
	defaultCallDelay      = 800 * time.Millisecond
	defaultUserAgent      = "psi-audit/0.1"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Score every URL in a CSV file for accessibility",
	Long: `Audit reads URLs from a CSV file (column 'urls'), scores each one against
the PageSpeed Insights accessibility category for every selected strategy,
prints the summary table, and persists the run in the session database for
the report, analyze, and export commands.

Scoring failures are recorded against the URL they concern and never abort
the batch; the command exits non-zero after the run when any page failed.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().String("file", "", "CSV file containing a 'urls' column (required)")
	auditCmd.Flags().String("strategy", "desktop", "scoring strategy: desktop, mobile, or both")
	auditCmd.Flags().String("api-key", "", "PageSpeed Insights API key (default: config or .secrets/psi-api-key)")
	auditCmd.Flags().Duration("timeout", 0, "scoring request timeout (default 2m)")
	auditCmd.Flags().Duration("delay", 0, "pause after every scoring call (default 800ms)")
	auditCmd.Flags().String("out", "", "also write the full run to a YAML report file")
	_ = auditCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	strategyFlag, _ := cmd.Flags().GetString("strategy")
	strategies, err := types.ParseStrategies(strategyFlag)
	if err != nil {
		return err
	}

	urls, err := urlfile.Read(file)
	if err != nil {
		return err
	}

	keyFlag, _ := cmd.Flags().GetString("api-key")
	apiKey := resolveScoringKey(keyFlag)
	if apiKey != "" {
		fmt.Fprintf(os.Stderr, "Using scoring API key %s\n", secrets.Mask(apiKey))
	} else {
		fmt.Fprintln(os.Stderr, "No scoring API key configured; requests run unauthenticated and may be rate limited")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = configDuration("scoring.timeout", defaultScoringTimeout)
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = configDuration("scoring.call_delay", defaultCallDelay)
	}

	cfg := types.ScoringConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: configString("scoring.user_agent", defaultUserAgent),
		},
		APIKey:    apiKey,
		CallDelay: delay,
	}

	runner := batch.Runner{Scorer: psi.NewClient(cfg), Delay: cfg.CallDelay}

	store, summary, runErr := runner.Run(cmd.Context(), urls, strategies, os.Stdout)
	if store == nil {
		return runErr
	}

	fmt.Println()
	report.Summary(store, strategies, os.Stdout)

	// Persist whatever completed, interrupted runs included. The save uses
	// a fresh context so an interrupt that stopped the batch does not also
	// discard its results.
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	runID, err := sess.SaveRun(context.Background(), store, strategies)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved run %s\n", runID)

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := report.WriteReportFile(out, runID, store, strategies); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", out)
	}

	if runErr != nil {
		return runErr
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d page(s) failed scoring", summary.Failed)
	}
	return nil
}
