// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the API clients.
package httputil

import (
	"context"
	"errors"
	"net"
	"strings"
)

// IsTimeout reports whether err represents a request timeout: a net.Error
// that timed out, or a wrapped context.DeadlineExceeded. http.Client.Timeout
// produces the former, a context deadline the latter.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// BodyPreview returns at most max bytes of a response body, trimmed, for
// inclusion in error messages.
func BodyPreview(body []byte, max int) string {
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max]
	}
	return s
}
