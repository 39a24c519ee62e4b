package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GrzegKrol/10x-cards/internal/models"
)

const openRouterProvider = "OpenRouter"

type OpenRouterClient struct {
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

func NewOpenRouterClient(apiKey, baseURL, model string, timeout time.Duration, logger *zap.Logger) (*OpenRouterClient, error) {
	if apiKey == "" {
		return nil, errors.New("OpenRouter API key is required")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenRouterClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger.Named("openrouter"),
	}, nil
}

func (c *OpenRouterClient) Name() string { return openRouterProvider }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type       string                 `json:"type"`
	JSONSchema map[string]interface{} `json:"json_schema"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func flashcardResponseFormat() responseFormat {
	side := map[string]interface{}{"type": "string", "maxLength": models.MaxCardTextLength}
	return responseFormat{
		Type: "json_schema",
		JSONSchema: map[string]interface{}{
			"name":   "flashcards",
			"strict": true,
			"schema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"flashcards": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":                 "object",
							"properties":           map[string]interface{}{"front": side, "back": side},
							"required":             []string{"front", "back"},
							"additionalProperties": false,
						},
					},
				},
				"required":             []string{"flashcards"},
				"additionalProperties": false,
			},
		},
	}
}

// Generate issues exactly one chat completion request bounded by the client
// timeout.
func (c *OpenRouterClient) Generate(ctx context.Context, prompt string, count int) ([]models.FlashcardProposal, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: flashcardSystemInstruction(count)},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: flashcardResponseFormat(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Title", "10x Cards Flashcard Generator")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyCallError(ctx, openRouterProvider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyCallError(ctx, openRouterProvider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			Provider:   openRouterProvider,
			Kind:       UpstreamStatus,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, &UpstreamError{Provider: openRouterProvider, Kind: UpstreamMalformed, Err: err}
	}
	if len(completion.Choices) == 0 {
		return nil, &UpstreamError{Provider: openRouterProvider, Kind: UpstreamMalformed, Err: errors.New("no choices in response")}
	}

	content := completion.Choices[0].Message.Content
	c.logger.Debug("completion received", zap.Int("content_bytes", len(content)))

	cards, err := parseFlashcardPayload(content)
	if err != nil {
		return nil, &UpstreamError{Provider: openRouterProvider, Kind: UpstreamMalformed, Err: err}
	}
	return cards, nil
}
