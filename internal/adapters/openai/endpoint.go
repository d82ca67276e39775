// Package openai adapts the OpenAI chat completion API to the
// orchestrator's endpoint contract.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/orchestrator"
	"github.com/sentinelmail/sentinel/internal/textutil"
)

// Endpoint is an orchestrator.Endpoint backed by OpenAI.
type Endpoint struct {
	client      *openai.Client
	maxTokens   int
	temperature float32
	topP        float32
	maxBodySize int
	logger      *zap.Logger
	text        *textutil.Processor
}

// invocationResponse is the structured JSON the model is asked to return.
type invocationResponse struct {
	Content    string            `json:"content"`
	Confidence float64           `json:"confidence"`
	Metadata   map[string]string `json:"metadata"`
}

// NewEndpoint creates an OpenAI endpoint.
func NewEndpoint(
	apiKey string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	text *textutil.Processor,
) *Endpoint {
	return &Endpoint{
		client:      openai.NewClient(apiKey),
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		maxBodySize: maxBodySize,
		logger:      logger,
		text:        text,
	}
}

// Invoke sends the request prompt to the model named by the descriptor.
func (e *Endpoint) Invoke(ctx context.Context, model orchestrator.ModelInfo, req orchestrator.Request) (*orchestrator.Invocation, error) {
	prompt := e.text.Process(req.Prompt, e.maxBodySize)

	chatReq := openai.ChatCompletionRequest{
		Model: model.ID,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an email security analysis system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
		TopP:        e.topP,
	}
	chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: "json"}

	resp, err := e.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	parsed, err := parseInvocation(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if parsed.Metadata == nil {
		parsed.Metadata = map[string]string{}
	}
	parsed.Metadata["processing_id"] = resp.ID

	return parsed, nil
}

// parseInvocation parses the model's JSON reply, tolerating prose
// wrapped around the JSON object.
func parseInvocation(text string) (*orchestrator.Invocation, error) {
	var response invocationResponse
	if err := json.Unmarshal([]byte(text), &response); err != nil {
		start, end := jsonBounds(text)
		if start >= end {
			return nil, fmt.Errorf("failed to extract JSON from model response: %w", err)
		}
		if err := json.Unmarshal([]byte(text[start:end]), &response); err != nil {
			return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
		}
	}
	return &orchestrator.Invocation{
		Content:    response.Content,
		Confidence: response.Confidence,
		Metadata:   response.Metadata,
	}, nil
}

func jsonBounds(text string) (int, int) {
	start, end := 0, 0
	for i := 0; i < len(text); i++ {
		if text[i] == '{' {
			start = i
			break
		}
	}
	for i := len(text) - 1; i >= 0; i-- {
		if text[i] == '}' {
			end = i + 1
			break
		}
	}
	return start, end
}
