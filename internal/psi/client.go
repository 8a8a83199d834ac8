// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package psi is the PageSpeed Insights API client for the scoring stage.
// One call scores one page for one strategy; every failure comes back as a
// typed result rather than an error so batches keep moving.
// Implements: prd002-scoring (R1, R4);
//
//	docs/ARCHITECTURE § Scoring.
package psi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/NaomiVK/page-speed-accessibility/internal/audit"
	"github.com/NaomiVK/page-speed-accessibility/internal/httputil"
	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

// psiAPIBase is the PageSpeed Insights runPagespeed endpoint. Declared as a
// var so tests can substitute an httptest server.
var psiAPIBase = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// errorBodyPreview bounds how much of a non-JSON error body is surfaced.
const errorBodyPreview = 200

// Client calls the scoring API. The zero value works for keyless calls with
// the default HTTP client; production callers set APIKey and a client whose
// Timeout matches the scoring budget.
type Client struct {
	HTTP      *http.Client
	APIKey    string
	UserAgent string
}

// NewClient builds a scoring client from the stage configuration (R5.1-R5.3).
func NewClient(cfg types.ScoringConfig) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: cfg.Timeout},
		APIKey:    cfg.APIKey,
		UserAgent: cfg.UserAgent,
	}
}

// NormalizeURL trims the raw URL and prefixes https:// when no scheme is
// present. The second return is false for empty input, which is rejected
// before any network call (R1.2). The raw form stays what the user sees;
// only the API call uses the normalized form.
func NormalizeURL(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}
	return trimmed, true
}

// Score runs one accessibility audit for rawURL under the given strategy.
// All failure modes (bad input, timeout, transport, API error, malformed
// body) land in the result's Failure field; Score itself never aborts the
// caller (R4.7).
func (c *Client) Score(ctx context.Context, rawURL string, strategy types.Strategy) types.ScoringResult {
	target, ok := NormalizeURL(rawURL)
	if !ok {
		return types.ScoringResult{Failure: types.InvalidInputFailure()}
	}

	params := url.Values{
		"url":      {target},
		"category": {"ACCESSIBILITY"},
		"strategy": {string(strategy)},
	}
	if c.APIKey != "" {
		params.Set("key", c.APIKey)
	}

	reqURL := psiAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		// A URL Go cannot even build a request for behaves like any
		// other unreachable target.
		return types.ScoringResult{Failure: types.NetworkFailure(err)}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if httputil.IsTimeout(err) {
			return types.ScoringResult{Failure: types.TimeoutFailure()}
		}
		return types.ScoringResult{Failure: types.NetworkFailure(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.ScoringResult{Failure: types.NetworkFailure(fmt.Errorf("reading response: %w", err))}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.ScoringResult{Failure: apiFailure(resp.StatusCode, body)}
	}

	page, failure := audit.Normalize(body)
	if failure != nil {
		return types.ScoringResult{Failure: failure}
	}
	return types.ScoringResult{Score: page.Score, Audits: page.Audits}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// apiFailure maps a non-2xx response to a failure. Bodies that decode as a
// JSON error envelope produce an API error with the upstream code and
// message (R4.4); anything else produces an HTTP error carrying a short
// preview of the raw body (R4.5).
func apiFailure(status int, body []byte) *types.Failure {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return types.HTTPFailure(status, httputil.BodyPreview(body, errorBodyPreview))
	}

	code := env.Error.Code
	if code == 0 {
		code = status
	}
	message := env.Error.Message
	if message == "" {
		message = "No details provided"
	}
	return types.APIFailure(code, message)
}

// Scoring API error JSON structures.
type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
