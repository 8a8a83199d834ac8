// Package advise turns failed audit records into plain-language remediation
// advice through an LLM backend, caching one advisory per page and strategy.
// Implements: prd005-advice (R1-R4);
//
//	docs/ARCHITECTURE § Advice.
package advise

import (
	"context"
	"errors"

	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

// NoFailedAuditsMessage is returned, without any network call, when a page
// has nothing in the failed category.
const NoFailedAuditsMessage = "No failed audits to analyze for this page."

// Backend abstracts the LLM API so tests can supply a mock. One call takes
// the rendered prompt and returns the advisory text.
type Backend interface {
	Advise(ctx context.Context, prompt string) (string, error)
}

// cacheKey addresses one advisory: the page's raw URL plus the strategy it
// was scored under.
type cacheKey struct {
	URL      string
	Strategy types.Strategy
}

// Adviser requests advice and caches it per (URL, strategy): the backend is
// called at most once per key until the key is forgotten or the adviser is
// reset for a new batch (R3.1, R3.2).
type Adviser struct {
	backend Backend
	cache   map[cacheKey]string
}

// NewAdviser wraps the backend. A nil backend is valid and makes every
// request report the missing credential instead of calling out (R1.3).
func NewAdviser(backend Backend) *Adviser {
	return &Adviser{
		backend: backend,
		cache:   make(map[cacheKey]string),
	}
}

// Advise returns remediation advice for one page's failed audits. Zero
// failed audits short-circuits with a fixed message and no network call
// (R1.2). Failures come back typed and displayable, never as a panic or a
// silent drop.
func (a *Adviser) Advise(ctx context.Context, url string, strategy types.Strategy, failed []types.AuditRecord) (string, *types.Failure) {
	if len(failed) == 0 {
		return NoFailedAuditsMessage, nil
	}

	key := cacheKey{URL: url, Strategy: strategy}
	if text, ok := a.cache[key]; ok {
		return text, nil
	}

	if a.backend == nil {
		return "", types.MissingCredentialFailure("OpenAI API key")
	}

	prompt, err := BuildPrompt(failed, Label(url, strategy))
	if err != nil {
		return "", types.UnknownFailure(err)
	}

	text, err := a.backend.Advise(ctx, prompt)
	if err != nil {
		var failure *types.Failure
		if errors.As(err, &failure) {
			return "", failure
		}
		return "", types.UnknownFailure(err)
	}

	a.cache[key] = text
	return text, nil
}

// Cached returns the advisory stored for the key, if any. It never
// triggers a backend call.
func (a *Adviser) Cached(url string, strategy types.Strategy) (string, bool) {
	text, ok := a.cache[cacheKey{URL: url, Strategy: strategy}]
	return text, ok
}

// Prime seeds the cache with an advisory obtained elsewhere, typically one
// reloaded from the session store.
func (a *Adviser) Prime(url string, strategy types.Strategy, text string) {
	a.cache[cacheKey{URL: url, Strategy: strategy}] = text
}

// Forget drops the cached advisory for one key so the next request
// recomputes it (R3.3).
func (a *Adviser) Forget(url string, strategy types.Strategy) {
	delete(a.cache, cacheKey{URL: url, Strategy: strategy})
}

// Reset clears the whole cache. Called when a new batch replaces the
// results the cached advice was derived from (R3.2).
func (a *Adviser) Reset() {
	a.cache = make(map[cacheKey]string)
}
