package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"github.com/GrzegKrol/10x-cards/internal/models"
)

func geminiResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Role: "model", Parts: parts},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func TestExtractText(t *testing.T) {
	resp := geminiResponse(genai.Text(`{"flashcards":`), genai.Blob{MIMEType: "image/png"}, genai.Text(`[]}`))
	resp.Candidates = append(resp.Candidates, &genai.Candidate{Content: nil})
	assert.Equal(t, `{"flashcards":[]}`, extractText(resp))
	assert.Empty(t, extractText(&genai.GenerateContentResponse{}))
}

func TestGeminiProposals(t *testing.T) {
	cards, err := geminiProposals(geminiResponse(genai.Text(`{"flashcards":[{"front":"Mitosis","back":"Cell division"}]}`)))
	require.NoError(t, err)
	assert.Equal(t, []models.FlashcardProposal{{Front: "Mitosis", Back: "Cell division"}}, cards)

	for name, resp := range map[string]*genai.GenerateContentResponse{
		"no candidates": {},
		"blank text":    geminiResponse(genai.Text("  \n ")),
		"not json":      geminiResponse(genai.Text("Here are your flashcards")),
		"wrong shape":   geminiResponse(genai.Text(`{"flashcards":"none"}`)),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := geminiProposals(resp)
			var upErr *UpstreamError
			require.ErrorAs(t, err, &upErr)
			assert.Equal(t, UpstreamMalformed, upErr.Kind)
			assert.Equal(t, geminiProvider, upErr.Provider)
		})
	}
}

func TestGeminiCallError(t *testing.T) {
	apiErr := &googleapi.Error{Code: 429, Message: "quota exceeded"}
	err := geminiCallError(context.Background(), fmt.Errorf("generate: %w", apiErr))
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, UpstreamStatus, upErr.Kind)
	assert.Equal(t, 429, upErr.StatusCode)
	assert.Equal(t, "quota exceeded", upErr.Body)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	err = geminiCallError(ctx, errors.New("rpc error: deadline"))
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, UpstreamTimeout, upErr.Kind)

	err = geminiCallError(context.Background(), errors.New("connection reset"))
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, UpstreamTransport, upErr.Kind)
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "gemini-2.0-flash", time.Second, zap.NewNop())
	assert.Error(t, err)
}
