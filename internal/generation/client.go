// internal/generation/client.go
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"program-pipeline/internal/common/config"
	"program-pipeline/internal/common/errors"
	"program-pipeline/internal/common/logger"
)

// Generator produces a raw, untrusted program document for a prompt. The
// document is whatever the model returned after JSON decoding; the
// normalizer owns making sense of it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (map[string]interface{}, error)
}

// Client calls the model service over HTTP. One Generate call makes a single
// request; attempt-level retry policy belongs to the orchestrator.
type Client struct {
	config config.GeneratorConfig
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg config.GeneratorConfig, log logger.Logger) *Client {
	return &Client{
		config: cfg,
		// No client timeout, the per-call context carries the deadline.
		client: &http.Client{},
		logger: log.WithFields(map[string]interface{}{
			"component": "generation-client",
		}),
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.config.Timeout)*time.Millisecond)
	defer cancel()

	requestBody := map[string]interface{}{
		"prompt":      prompt,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
	}
	body, _ := json.Marshal(requestBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/ai/generate", bytes.NewBuffer(body))
	if err != nil {
		return nil, errors.NewGenerationCallFailedError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewGenerationTimeoutError()
		}
		return nil, errors.NewGenerationCallFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewGenerationCallFailedError(fmt.Errorf("status %d", resp.StatusCode))
	}

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, errors.NewResponseParseFailedError(err)
	}

	document, err := decodeProgramDocument(apiResponse.Text)
	if err != nil {
		return nil, errors.NewResponseParseFailedError(err)
	}

	c.logger.Debug("generation call completed", map[string]interface{}{
		"responseBytes": len(apiResponse.Text),
	})

	return document, nil
}

// decodeProgramDocument parses the model's text into a JSON object. Models
// routinely wrap output in markdown fences, so those are stripped first.
func decodeProgramDocument(text string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("empty response body")
	}

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var document map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &document); err != nil {
		return nil, fmt.Errorf("decode program document: %w", err)
	}
	return document, nil
}
