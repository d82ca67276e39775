// Package gemini adapts the Google Gemini API to the orchestrator's
// endpoint contract.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/sentinelmail/sentinel/internal/orchestrator"
	"github.com/sentinelmail/sentinel/internal/textutil"
)

// Endpoint is an orchestrator.Endpoint backed by Google Gemini.
type Endpoint struct {
	client      *genai.Client
	maxTokens   int32
	temperature float32
	topP        float32
	maxBodySize int
	logger      *zap.Logger
	text        *textutil.Processor
}

type invocationResponse struct {
	Content    string            `json:"content"`
	Confidence float64           `json:"confidence"`
	Metadata   map[string]string `json:"metadata"`
}

// NewEndpoint creates a Gemini endpoint.
func NewEndpoint(
	ctx context.Context,
	apiKey string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	text *textutil.Processor,
) (*Endpoint, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Endpoint{
		client:      client,
		maxTokens:   int32(maxTokens),
		temperature: temperature,
		topP:        topP,
		maxBodySize: maxBodySize,
		logger:      logger,
		text:        text,
	}, nil
}

// Invoke sends the request prompt to the Gemini model named by the
// descriptor.
func (e *Endpoint) Invoke(ctx context.Context, model orchestrator.ModelInfo, req orchestrator.Request) (*orchestrator.Invocation, error) {
	generative := e.client.GenerativeModel(model.ID)
	generative.SetTemperature(e.temperature)
	generative.SetTopP(e.topP)
	generative.SetMaxOutputTokens(e.maxTokens)

	prompt := e.text.Process(req.Prompt, e.maxBodySize)

	resp, err := generative.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}
	responseText := builder.String()

	var response invocationResponse
	if err := json.Unmarshal([]byte(responseText), &response); err != nil {
		start := strings.IndexByte(responseText, '{')
		end := strings.LastIndexByte(responseText, '}')
		if start < 0 || end <= start {
			return nil, fmt.Errorf("failed to extract JSON from model response: %w", err)
		}
		if err := json.Unmarshal([]byte(responseText[start:end+1]), &response); err != nil {
			return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
		}
	}

	return &orchestrator.Invocation{
		Content:    response.Content,
		Confidence: response.Confidence,
		Metadata:   response.Metadata,
	}, nil
}

// Close releases the underlying API client.
func (e *Endpoint) Close() error {
	return e.client.Close()
}
