package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/GrzegKrol/10x-cards/internal/models"
)

const geminiProvider = "Gemini"

type GeminiClient struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
	logger    *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string, timeout time.Duration, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiClient{
		client:    client,
		modelName: modelName,
		timeout:   timeout,
		logger:    logger.Named("gemini"),
	}, nil
}

func (c *GeminiClient) Name() string { return geminiProvider }

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string, count int) ([]models.FlashcardProposal, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// A fresh model handle per call keeps the per-request instruction local.
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(0.3)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(flashcardSystemInstruction(count))},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, geminiCallError(ctx, err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			c.logger.Warn("candidate did not finish cleanly",
				zap.Int("candidate", i),
				zap.String("finish_reason", cand.FinishReason.String()))
		}
	}

	return geminiProposals(resp)
}

// geminiCallError maps an SDK error to an UpstreamError. API errors keep the
// HTTP status; everything else is a timeout or a transport failure.
func geminiCallError(ctx context.Context, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &UpstreamError{
			Provider:   geminiProvider,
			Kind:       UpstreamStatus,
			StatusCode: apiErr.Code,
			Body:       apiErr.Message,
			Err:        err,
		}
	}
	return classifyCallError(ctx, geminiProvider, err)
}

func geminiProposals(resp *genai.GenerateContentResponse) ([]models.FlashcardProposal, error) {
	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return nil, &UpstreamError{Provider: geminiProvider, Kind: UpstreamMalformed, Err: errors.New("empty response text")}
	}

	cards, err := parseFlashcardPayload(text)
	if err != nil {
		return nil, &UpstreamError{Provider: geminiProvider, Kind: UpstreamMalformed, Err: err}
	}
	return cards, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
