// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package factcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/citecheck/pkg/types"
)

// generatePath is the Ollama completion endpoint path.
const generatePath = "/api/generate"

// OllamaBackend calls an Ollama server's generate API with JSON-constrained
// output.
type OllamaBackend struct {
	Endpoint string
	Model    string
	Client   *http.Client
}

// NewOllamaBackend builds an Ollama backend from the fact-check config.
func NewOllamaBackend(cfg types.FactCheckConfig) *OllamaBackend {
	return &OllamaBackend{
		Endpoint: cfg.Endpoint,
		Model:    cfg.Model,
		Client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// ollamaRequest is the request body for the Ollama generate API.
type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Format string `json:"format"`
	Stream bool   `json:"stream"`
}

// ollamaResponse is the response body from the Ollama generate API.
type ollamaResponse struct {
	Response string `json:"response"`
}

// Check renders the fact-check prompt and sends it to the generate API.
// The format field constrains the model to JSON output; the reply is still
// validated and a bad reply surfaces as ErrMalformedReply.
func (b *OllamaBackend) Check(ctx context.Context, cit types.Citation, referenceText string) (types.Verdict, error) {
	prompt, err := renderPrompt(cit, referenceText)
	if err != nil {
		return types.Verdict{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := ollamaRequest{
		Model:  b.Model,
		Prompt: prompt,
		Format: "json",
		Stream: false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return types.Verdict{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(b.Endpoint, "/") + generatePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return types.Verdict{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return types.Verdict{}, fmt.Errorf("calling Ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return types.Verdict{}, fmt.Errorf("Ollama API returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return types.Verdict{}, fmt.Errorf("decoding Ollama response: %w", err)
	}

	return parseVerdict(oResp.Response)
}
