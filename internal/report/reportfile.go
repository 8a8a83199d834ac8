// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/NaomiVK/page-speed-accessibility/internal/batch"
	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

// ReportFile is the on-disk representation of a batch run and its results.
// An auditor can save a run to a file and reload it later without
// re-scoring any pages.
// Implements: prd006-reporting R4; prd004-session R3.
type ReportFile struct {
	Run     RunInfo      `yaml:"run"`
	Pages   []PageResult `yaml:"pages"`
	Summary RunSummary   `yaml:"summary"`
}

// RunInfo stores the run identity and inputs in a serializable form.
// URLs keeps the ingested order; page entries refer back to it by index.
type RunInfo struct {
	ID         string   `yaml:"id,omitempty"`
	Strategies []string `yaml:"strategies"`
	URLs       []string `yaml:"urls"`
}

// PageResult stores one URL-and-strategy outcome. URL duplicates the
// entry in RunInfo.URLs so the file reads standalone.
type PageResult struct {
	Index    int                 `yaml:"index"`
	URL      string              `yaml:"url"`
	Strategy string              `yaml:"strategy"`
	Result   types.ScoringResult `yaml:"result"`
}

// RunSummary stores run statistics and a timestamp.
type RunSummary struct {
	URLs      int       `yaml:"urls"`
	Scored    int       `yaml:"scored"`
	Failed    int       `yaml:"failed"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteReportFile saves a run and its results to a YAML file.
func WriteReportFile(path, runID string, store *batch.Store, strategies []types.Strategy) error {
	rf := ReportFile{
		Run: RunInfo{
			ID:   runID,
			URLs: store.URLs(),
		},
	}
	for _, strategy := range strategies {
		rf.Run.Strategies = append(rf.Run.Strategies, string(strategy))
	}

	for i, u := range store.URLs() {
		for _, strategy := range strategies {
			result, ok := store.Get(i, strategy)
			if !ok {
				continue
			}
			rf.Pages = append(rf.Pages, PageResult{
				Index:    i,
				URL:      u,
				Strategy: string(strategy),
				Result:   result,
			})
			if result.Failed() {
				rf.Summary.Failed++
			} else {
				rf.Summary.Scored++
			}
		}
	}
	rf.Summary.URLs = store.NumURLs()
	rf.Summary.Timestamp = time.Now()

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling report file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReportFile loads a previously saved report file from disk.
func ReadReportFile(path string) (*ReportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}
	var rf ReportFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing report file: %w", err)
	}
	return &rf, nil
}

// Strategies converts the stored strategy names back into typed strategies.
func (f *ReportFile) Strategies() ([]types.Strategy, error) {
	out := make([]types.Strategy, 0, len(f.Run.Strategies))
	for _, s := range f.Run.Strategies {
		strategy, err := types.ParseStrategy(s)
		if err != nil {
			return nil, fmt.Errorf("report file: %w", err)
		}
		out = append(out, strategy)
	}
	return out, nil
}

// Store rebuilds the result store from the stored pages.
func (f *ReportFile) Store() (*batch.Store, error) {
	store := batch.NewStore(f.Run.URLs)
	for _, page := range f.Pages {
		if page.Index < 0 || page.Index >= store.NumURLs() {
			return nil, fmt.Errorf("report file: page index %d out of range", page.Index)
		}
		strategy, err := types.ParseStrategy(page.Strategy)
		if err != nil {
			return nil, fmt.Errorf("report file page %d: %w", page.Index, err)
		}
		store.Put(page.Index, strategy, page.Result)
	}
	return store, nil
}
