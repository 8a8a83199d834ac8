// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

// Key addresses one result within a run: the URL's position in the input
// file plus the strategy it was scored under. Indices are 0-based and
// stable for the life of the run (R4.2).
type Key struct {
	URLIndex int
	Strategy types.Strategy
}

// Store holds every result of one run, addressable by key. The runner
// populates it serially and readers only see it afterwards, so it carries
// no lock.
type Store struct {
	urls    []string
	results map[Key]types.ScoringResult
}

// NewStore creates an empty store over the run's URL list. The list is
// copied; later mutation of the caller's slice does not leak in.
func NewStore(urls []string) *Store {
	return &Store{
		urls:    append([]string(nil), urls...),
		results: make(map[Key]types.ScoringResult),
	}
}

// Put records the result for one URL and strategy, replacing any earlier
// result under the same key.
func (s *Store) Put(urlIndex int, strategy types.Strategy, result types.ScoringResult) {
	s.results[Key{URLIndex: urlIndex, Strategy: strategy}] = result
}

// Get returns the result recorded for the URL and strategy, if any.
func (s *Store) Get(urlIndex int, strategy types.Strategy) (types.ScoringResult, bool) {
	result, ok := s.results[Key{URLIndex: urlIndex, Strategy: strategy}]
	return result, ok
}

// URL returns the raw URL at the given index, or "" when out of range.
func (s *Store) URL(i int) string {
	if i < 0 || i >= len(s.urls) {
		return ""
	}
	return s.urls[i]
}

// URLs returns the run's URLs in input order.
func (s *Store) URLs() []string {
	return append([]string(nil), s.urls...)
}

// NumURLs returns how many URLs the run covers, recorded results or not.
func (s *Store) NumURLs() int {
	return len(s.urls)
}

// Len returns the number of recorded results.
func (s *Store) Len() int {
	return len(s.results)
}
