package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mark3labs/stylewiz/internal/logger"
)

// HTTP posts the prompt to a JSON endpoint and reads the analysis back.
//
// Request:  {"model": "...", "prompt": "...", "temperature": 0.2, "max_tokens": 2048}
// Response: {"result": "..."}
type HTTP struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

type httpRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type httpResponse struct {
	Result string `json:"result"`
}

// Generate implements Generator.
func (h *HTTP) Generate(ctx context.Context, prompt string, model ModelConfig) (Result, error) {
	buf, err := json.Marshal(httpRequest{
		Model:       model.ID,
		Prompt:      prompt,
		Temperature: model.Temperature,
		MaxTokens:   model.MaxTokens,
	})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(buf))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.APIKey)
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	logger.Debug("Posting %d byte prompt to %s (model %s)", len(prompt), h.Endpoint, model.ID)
	resp, err := client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("generator API error: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}

	var parsed httpResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("failed to parse generator response: %w", err)
	}
	text := strings.TrimSpace(parsed.Result)
	if text == "" {
		return Result{}, fmt.Errorf("generator returned an empty result")
	}
	return Result{Text: text}, nil
}
