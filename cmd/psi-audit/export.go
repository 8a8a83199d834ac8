// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NaomiVK/page-speed-accessibility/internal/batch"
	"github.com/NaomiVK/page-speed-accessibility/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the latest run as a CSV summary",
	Long: `Export writes the batch output table to a CSV file: the urls column exactly
as ingested plus one score column per strategy, rows in input order. Score
cells carry either the accessibility score or the recorded failure message.

With --with-advice, cached analyze responses are appended as one advice
column per strategy; pages never analyzed export as empty cells. No API
calls are made.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("out", "", "destination CSV file (required)")
	exportCmd.Flags().Bool("with-advice", false, "append cached analysis columns")
	_ = exportCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	sess, run, store, err := latestRunWithSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	var advice map[batch.Key]string
	if withAdvice, _ := cmd.Flags().GetBool("with-advice"); withAdvice {
		advice, err = sess.Analyses(context.Background(), run.ID)
		if err != nil {
			return err
		}
	}

	out, _ := cmd.Flags().GetString("out")
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()

	if err := report.ExportCSV(store, run.Strategies, advice, f); err != nil {
		return err
	}

	fmt.Printf("Exported %d URLs to %s\n", store.NumURLs(), out)
	return nil
}
