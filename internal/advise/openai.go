// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package advise

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/NaomiVK/page-speed-accessibility/internal/httputil"
	"github.com/NaomiVK/page-speed-accessibility/pkg/types"
)

// openaiAPIBase is the OpenAI chat completions endpoint. Declared as a var
// so tests can substitute an httptest server.
var openaiAPIBase = "https://api.openai.com/v1/chat/completions"

// Defaults applied when the backend is constructed with zero values.
const (
	DefaultModel     = "gpt-4o-mini"
	DefaultMaxTokens = 1024
)

// openaiBodyPreview bounds how much of a non-JSON error body is surfaced.
const openaiBodyPreview = 200

// OpenAIBackend requests advice from the OpenAI chat completions API.
// Errors it returns are *types.Failure values, so callers get the same
// failure taxonomy the scoring client uses (R4.1).
type OpenAIBackend struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Client      *http.Client
}

// NewOpenAIBackend builds a backend from the stage configuration. A zero
// Model or MaxTokens falls back to the defaults at call time (R4.3).
func NewOpenAIBackend(cfg types.AdviceConfig) *OpenAIBackend {
	return &OpenAIBackend{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Client:      &http.Client{Timeout: cfg.Timeout},
	}
}

// Advise sends the prompt as a single user message and returns the first
// choice's content (R4.2).
func (b *OpenAIBackend) Advise(ctx context.Context, prompt string) (string, error) {
	model := b.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := b.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	reqBody := chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: b.Temperature,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiAPIBase, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", types.NetworkFailure(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if httputil.IsTimeout(err) {
			return "", types.TimeoutFailure()
		}
		return "", types.NetworkFailure(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.NetworkFailure(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", openaiFailure(resp.StatusCode, body)
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", types.MalformedFailure(fmt.Sprintf("Error: Unexpected API Response Structure (%v)", err))
	}

	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return "", types.MalformedFailure("API Error: No advice in API response.")
	}
	return cr.Choices[0].Message.Content, nil
}

// openaiFailure maps a non-2xx response to a typed failure: a decodable
// error envelope keeps the upstream message, anything else surfaces a
// short preview of the body.
func openaiFailure(status int, body []byte) *types.Failure {
	var env openaiErrorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return types.HTTPFailure(status, httputil.BodyPreview(body, openaiBodyPreview))
	}

	message := env.Error.Message
	if message == "" {
		message = "No details provided"
	}
	return types.APIFailure(status, message)
}

// OpenAI chat completions JSON structures.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type openaiErrorEnvelope struct {
	Error openaiErrorDetail `json:"error"`
}

type openaiErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
