// Package ai drafts quiz questions with the Gemini generative language API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/aliskhannn/japan-trivia/internal/domain/entities"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/"
	DefaultModel   = "gemini-2.5-flash"
	apiVersion     = "v1beta"
)

var (
	ErrMissingAPIKey = errors.New("gemini api key is not configured")
	ErrEmptyResponse = errors.New("gemini returned no content")
	ErrNotAnArray    = errors.New("gemini response is not a JSON array")
)

// Config configures the Gemini client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// GeminiClient asks a Gemini model for quiz drafts.
type GeminiClient struct {
	client *genai.Client // nil without an api key
	model  string
}

// NewGeminiClient creates a client, filling unset fields with defaults.
// Without an api key the client is created but every Generate call fails.
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	c := &GeminiClient{model: cfg.Model}
	if cfg.APIKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.client = client
	return c, nil
}

// Generate asks the model for req.Count quizzes and decodes its answer.
func (c *GeminiClient) Generate(ctx context.Context, req entities.GenerationRequest) ([]entities.QuizInput, error) {
	if c.client == nil {
		return nil, ErrMissingAPIKey
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(buildPrompt(req)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("call gemini: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return parseQuizzes(text)
}

// parseQuizzes strips a markdown code fence around text and decodes the JSON array inside.
func parseQuizzes(text string) ([]entities.QuizInput, error) {
	text = stripCodeFence(text)

	var raw json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("decode quizzes: %w", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, ErrNotAnArray
	}

	var quizzes []entities.QuizInput
	if err := json.Unmarshal(raw, &quizzes); err != nil {
		return nil, fmt.Errorf("decode quizzes: %w", err)
	}
	return quizzes, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
