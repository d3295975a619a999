package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Subasree2717/agropredictor/config"
)

// ErrLLMNotConfigured is returned when no Google API key is set
var ErrLLMNotConfigured = errors.New("GOOGLE_API_KEY must be set")

// GeminiClient calls the Gemini generateContent REST endpoint
type GeminiClient struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewGeminiClient creates a new GeminiClient from configuration
func NewGeminiClient(cfg *config.Config) *GeminiClient {
	return &GeminiClient{
		apiKey: cfg.GoogleAPIKey,
		apiURL: strings.TrimRight(cfg.GeminiURL, "/"),
		model:  cfg.GeminiModel,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Part is one piece of message content
type Part struct {
	Text string `json:"text"`
}

// Content is a message in the conversation
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Request represents a request to the generateContent endpoint
type Request struct {
	Contents []Content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content Content `json:"content"`
	} `json:"candidates"`
}

// Generate sends prompt as a single user turn and returns the trimmed text
// of the first candidate
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", ErrLLMNotConfigured
	}

	reqBody := Request{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: prompt}}}},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.apiURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[LLM] Gemini request failed with status %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var text strings.Builder
	if len(result.Candidates) > 0 {
		for _, p := range result.Candidates[0].Content.Parts {
			text.WriteString(p.Text)
		}
	}
	answer := strings.TrimSpace(text.String())
	if answer == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return answer, nil
}
