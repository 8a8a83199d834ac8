// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// FailureKind classifies a recoverable per-call failure.
// Per prd002-scoring R4.1-R4.6.
type FailureKind string

const (
	FailInvalidInput FailureKind = "invalid_input"
	FailTimeout      FailureKind = "timeout"
	FailNetwork      FailureKind = "network"
	FailAPI          FailureKind = "api"
	FailMalformed    FailureKind = "malformed"
	FailUnknown      FailureKind = "unknown"
	FailNoCredential FailureKind = "missing_credential"
)

// Failure is a typed, recoverable error recorded as data. It is attached to
// the specific URL and strategy it concerns and never aborts a batch.
type Failure struct {
	Kind FailureKind `json:"kind" yaml:"kind"`

	// Code is the upstream HTTP or API error code, when one exists.
	Code int `json:"code,omitempty" yaml:"code,omitempty"`

	// Message is the full human-readable failure text shown to the user.
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface so failures flow through normal
// error returns on the advisory path.
func (f *Failure) Error() string {
	return f.Message
}

// InvalidInputFailure reports a URL rejected before any network call.
func InvalidInputFailure() *Failure {
	return &Failure{Kind: FailInvalidInput, Message: "Invalid URL provided"}
}

// TimeoutFailure reports a request that exceeded its timeout budget.
func TimeoutFailure() *Failure {
	return &Failure{Kind: FailTimeout, Message: "Error: Timeout"}
}

// NetworkFailure reports a transport-level failure (DNS, refused connection,
// reset) that produced no HTTP response.
func NetworkFailure(err error) *Failure {
	return &Failure{Kind: FailNetwork, Message: fmt.Sprintf("Error: Network Issue (%v)", err)}
}

// APIFailure reports a non-2xx response whose body carried a structured
// error envelope.
func APIFailure(code int, message string) *Failure {
	return &Failure{
		Kind:    FailAPI,
		Code:    code,
		Message: fmt.Sprintf("API Error %d: %s", code, message),
	}
}

// HTTPFailure reports a non-2xx response whose body was not structured;
// body is a truncated preview of the raw response text.
func HTTPFailure(status int, body string) *Failure {
	return &Failure{
		Kind:    FailAPI,
		Code:    status,
		Message: fmt.Sprintf("HTTP Error %d: %s", status, body),
	}
}

// MalformedFailure reports a success response missing the structure the
// normalizer requires. The message carries the upstream detail verbatim.
func MalformedFailure(message string) *Failure {
	return &Failure{Kind: FailMalformed, Message: message}
}

// UnknownFailure wraps any unexpected condition so it surfaces as data
// instead of a crash.
func UnknownFailure(err error) *Failure {
	return &Failure{Kind: FailUnknown, Message: fmt.Sprintf("Error: Unexpected (%v)", err)}
}

// MissingCredentialFailure reports an advisory request skipped because no
// credential is configured. No network call is attempted.
func MissingCredentialFailure(what string) *Failure {
	return &Failure{
		Kind:    FailNoCredential,
		Message: fmt.Sprintf("Analysis unavailable: %s not configured", what),
	}
}

// ScoringResult is the outcome of one scoring call: either a score with its
// audit records, or a failure. Exactly one variant is populated.
// Per prd002-scoring R2.1.
type ScoringResult struct {
	// Score is the overall accessibility score as an integer percentage
	// string (e.g. "87%"), or "N/A" when the upstream score is absent.
	Score string `json:"score,omitempty" yaml:"score,omitempty"`

	// Audits lists the canonical audit records in upstream reference order.
	Audits []AuditRecord `json:"audits,omitempty" yaml:"audits,omitempty"`

	// Failure is set instead of Score/Audits when the call failed.
	Failure *Failure `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// Failed reports whether the result is the failure variant.
func (r ScoringResult) Failed() bool {
	return r.Failure != nil
}

// Display returns the text shown in a score cell: the score on success, the
// failure message otherwise.
func (r ScoringResult) Display() string {
	if r.Failure != nil {
		return r.Failure.Message
	}
	return r.Score
}
