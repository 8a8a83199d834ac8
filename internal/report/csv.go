// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/NaomiVK/page-speed-accessibility/internal/batch"
	"github.com/NaomiVK/page-speed-accessibility/internal/urlfile"
	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

// ExportCSV writes the batch output table: the urls column exactly as
// ingested, one score column per strategy, and, when advice is non-nil, one
// advice column per strategy. Row order follows input order. A pair the
// batch never reached exports as "-"; a pair with no cached advice exports
// as an empty cell.
func ExportCSV(store *batch.Store, strategies []types.Strategy, advice map[batch.Key]string, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{urlfile.Column}
	for _, strategy := range strategies {
		header = append(header, ScoreColumn(strategy))
	}
	if advice != nil {
		for _, strategy := range strategies {
			header = append(header, AdviceColumn(strategy))
		}
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i, u := range store.URLs() {
		row := []string{u}
		for _, strategy := range strategies {
			cell := "-"
			if result, ok := store.Get(i, strategy); ok {
				cell = result.Display()
			}
			row = append(row, cell)
		}
		if advice != nil {
			for _, strategy := range strategies {
				row = append(row, advice[batch.Key{URLIndex: i, Strategy: strategy}])
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
