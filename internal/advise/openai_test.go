// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package advise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

const adviceResponse = `{"choices": [{"message": {"role": "assistant", "content": "Add alt text to every informative image."}}]}`

func TestOpenAIAdviseRequest(t *testing.T) {
	var capturedAuth, capturedType string
	var capturedBody chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedAuth = r.Header.Get("Authorization")
		capturedType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&capturedBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		fmt.Fprint(w, adviceResponse)
	}))
	defer ts.Close()

	old := openaiAPIBase
	openaiAPIBase = ts.URL
	defer func() { openaiAPIBase = old }()

	b := NewOpenAIBackend(types.AdviceConfig{
		AIConfig: types.AIConfig{
			APIKey:      "test-key-123",
			Model:       "gpt-4o",
			MaxTokens:   512,
			Temperature: 0.7,
		},
		Timeout: 5 * time.Second,
	})
	text, err := b.Advise(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}

	if text != "Add alt text to every informative image." {
		t.Errorf("text = %q", text)
	}
	if capturedAuth != "Bearer test-key-123" {
		t.Errorf("Authorization = %q, want bearer token", capturedAuth)
	}
	if capturedType != "application/json" {
		t.Errorf("Content-Type = %q", capturedType)
	}
	if capturedBody.Model != "gpt-4o" {
		t.Errorf("model = %q, want %q", capturedBody.Model, "gpt-4o")
	}
	if capturedBody.MaxTokens != 512 {
		t.Errorf("max_tokens = %d, want 512", capturedBody.MaxTokens)
	}
	if capturedBody.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", capturedBody.Temperature)
	}
	if len(capturedBody.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(capturedBody.Messages))
	}
	if capturedBody.Messages[0].Role != "user" || capturedBody.Messages[0].Content != "the prompt" {
		t.Errorf("messages[0] = %+v, want user message with the prompt", capturedBody.Messages[0])
	}
}

func TestOpenAIAdviseDefaults(t *testing.T) {
	var capturedBody chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&capturedBody)
		fmt.Fprint(w, adviceResponse)
	}))
	defer ts.Close()

	old := openaiAPIBase
	openaiAPIBase = ts.URL
	defer func() { openaiAPIBase = old }()

	b := &OpenAIBackend{APIKey: "k", Client: ts.Client()}
	if _, err := b.Advise(context.Background(), "p"); err != nil {
		t.Fatalf("Advise: %v", err)
	}

	if capturedBody.Model != DefaultModel {
		t.Errorf("model = %q, want default %q", capturedBody.Model, DefaultModel)
	}
	if capturedBody.MaxTokens != DefaultMaxTokens {
		t.Errorf("max_tokens = %d, want default %d", capturedBody.MaxTokens, DefaultMaxTokens)
	}
}

func TestOpenAIAdviseAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`)
	}))
	defer ts.Close()

	old := openaiAPIBase
	openaiAPIBase = ts.URL
	defer func() { openaiAPIBase = old }()

	b := &OpenAIBackend{APIKey: "bad", Client: ts.Client()}
	_, err := b.Advise(context.Background(), "p")
	if err == nil {
		t.Fatal("expected an error")
	}

	var failure *types.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error is %T, want *types.Failure", err)
	}
	if failure.Kind != types.FailAPI {
		t.Errorf("Kind = %q, want %q", failure.Kind, types.FailAPI)
	}
	if failure.Message != "API Error 401: Incorrect API key provided" {
		t.Errorf("Message = %q", failure.Message)
	}
}

func TestOpenAIAdviseNonJSONError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream connect error")
	}))
	defer ts.Close()

	old := openaiAPIBase
	openaiAPIBase = ts.URL
	defer func() { openaiAPIBase = old }()

	b := &OpenAIBackend{APIKey: "k", Client: ts.Client()}
	_, err := b.Advise(context.Background(), "p")
	if err == nil {
		t.Fatal("expected an error")
	}

	var failure *types.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error is %T, want *types.Failure", err)
	}
	if failure.Message != "HTTP Error 502: upstream connect error" {
		t.Errorf("Message = %q", failure.Message)
	}
}

func TestOpenAIAdviseEmptyChoices(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no choices", `{"choices": []}`},
		{"blank content", `{"choices": [{"message": {"role": "assistant", "content": "  "}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			old := openaiAPIBase
			openaiAPIBase = ts.URL
			defer func() { openaiAPIBase = old }()

			b := &OpenAIBackend{APIKey: "k", Client: ts.Client()}
			_, err := b.Advise(context.Background(), "p")
			if err == nil {
				t.Fatal("expected an error")
			}

			var failure *types.Failure
			if !errors.As(err, &failure) {
				t.Fatalf("error is %T, want *types.Failure", err)
			}
			if failure.Kind != types.FailMalformed {
				t.Errorf("Kind = %q, want %q", failure.Kind, types.FailMalformed)
			}
			if failure.Message != "API Error: No advice in API response." {
				t.Errorf("Message = %q", failure.Message)
			}
		})
	}
}

func TestOpenAIAdviseMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{not json`)
	}))
	defer ts.Close()

	old := openaiAPIBase
	openaiAPIBase = ts.URL
	defer func() { openaiAPIBase = old }()

	b := &OpenAIBackend{APIKey: "k", Client: ts.Client()}
	_, err := b.Advise(context.Background(), "p")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "Unexpected API Response Structure") {
		t.Errorf("error = %q, want structure-error text", err.Error())
	}
}

func TestOpenAIAdviseTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, adviceResponse)
	}))
	defer ts.Close()

	old := openaiAPIBase
	openaiAPIBase = ts.URL
	defer func() { openaiAPIBase = old }()

	b := &OpenAIBackend{APIKey: "k", Client: &http.Client{Timeout: 20 * time.Millisecond}}
	_, err := b.Advise(context.Background(), "p")
	if err == nil {
		t.Fatal("expected an error")
	}

	var failure *types.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error is %T, want *types.Failure", err)
	}
	if failure.Kind != types.FailTimeout {
		t.Errorf("Kind = %q, want %q", failure.Kind, types.FailTimeout)
	}
}

func TestOpenAIAdviseNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	ts.Close()

	old := openaiAPIBase
	openaiAPIBase = ts.URL
	defer func() { openaiAPIBase = old }()

	b := &OpenAIBackend{APIKey: "k"}
	_, err := b.Advise(context.Background(), "p")
	if err == nil {
		t.Fatal("expected an error")
	}

	var failure *types.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("error is %T, want *types.Failure", err)
	}
	if failure.Kind != types.FailNetwork {
		t.Errorf("Kind = %q, want %q", failure.Kind, types.FailNetwork)
	}
}
