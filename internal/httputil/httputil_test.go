// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTimeout_ClientTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := &http.Client{Timeout: 20 * time.Millisecond}
	_, err := client.Get(ts.URL)
	require.Error(t, err)

	assert.True(t, IsTimeout(err))
}

func TestIsTimeout_ContextDeadline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = ts.Client().Do(req)
	require.Error(t, err)

	assert.True(t, IsTimeout(err))
}

func TestIsTimeout_OtherErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"nil", nil},
		{"plain error", errors.New("boom")},
		{"wrapped non-timeout", fmt.Errorf("request: %w", errors.New("connection refused"))},
		{"cancelled context", context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, IsTimeout(tt.err))
		})
	}
}

func TestIsTimeout_ConnectionRefused(t *testing.T) {
	// A server that is already closed refuses connections: a network
	// failure, not a timeout.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := http.Get(url)
	require.Error(t, err)

	assert.False(t, IsTimeout(err))
}

func TestBodyPreview(t *testing.T) {
	tests := []struct {
		name string
		body string
		max  int
		want string
	}{
		{"short body unchanged", "not found", 200, "not found"},
		{"whitespace trimmed", "  oops \n", 200, "oops"},
		{"long body truncated", "aaaaaaaaaa", 4, "aaaa"},
		{"empty body", "", 200, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BodyPreview([]byte(tt.body), tt.max))
		})
	}
}
