// Package bedrock adapts Amazon Bedrock model invocation to the
// orchestrator's endpoint contract.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/orchestrator"
	"github.com/sentinelmail/sentinel/internal/textutil"
)

// Endpoint is an orchestrator.Endpoint backed by Amazon Bedrock.
type Endpoint struct {
	client      *bedrockruntime.Client
	maxTokens   int
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

// NewEndpoint creates a Bedrock endpoint using an already-configured
// runtime client.
func NewEndpoint(
	client *bedrockruntime.Client,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	text *textutil.Processor,
) *Endpoint {
	return &Endpoint{
		client:      client,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		maxBodySize: maxBodySize,
		logger:      logger,
		text:        text,
	}
}

func isAnthropicModel(modelID string) bool {
	return strings.Contains(modelID, "anthropic")
}

func isTitanModel(modelID string) bool {
	return strings.Contains(modelID, "titan")
}

// Invoke sends the request prompt to the Bedrock model named by the
// descriptor.
func (e *Endpoint) Invoke(ctx context.Context, model orchestrator.ModelInfo, req orchestrator.Request) (*orchestrator.Invocation, error) {
	prompt := e.text.Process(req.Prompt, e.maxBodySize)

	var payload []byte
	var err error
	switch {
	case isAnthropicModel(model.ID):
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": e.maxTokens,
			"temperature":          e.temperature,
			"top_p":                e.topP,
		})
	case isTitanModel(model.ID):
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": e.maxTokens,
				"temperature":   e.temperature,
				"topP":          e.topP,
			},
		})
	default:
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  e.maxTokens,
			"temperature": e.temperature,
			"top_p":       e.topP,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	output, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(model.ID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	return parseModelOutput(model.ID, output.Body)
}

// parseModelOutput extracts the completion text from the model-family
// specific envelope, then parses the structured JSON inside it.
func parseModelOutput(modelID string, body []byte) (*orchestrator.Invocation, error) {
	var completion string
	switch {
	case isAnthropicModel(modelID):
		var envelope struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("failed to parse Anthropic response: %w", err)
		}
		completion = envelope.Completion
	case isTitanModel(modelID):
		var envelope struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("failed to parse Titan response: %w", err)
		}
		if len(envelope.Results) == 0 {
			return nil, fmt.Errorf("empty response from Titan model")
		}
		completion = envelope.Results[0].OutputText
	default:
		completion = string(body)
	}

	var response invocationResponse
	if err := json.Unmarshal([]byte(completion), &response); err != nil {
		start := strings.IndexByte(completion, '{')
		end := strings.LastIndexByte(completion, '}')
		if start < 0 || end <= start {
			return nil, fmt.Errorf("failed to extract JSON from model response: %w", err)
		}
		if err := json.Unmarshal([]byte(completion[start:end+1]), &response); err != nil {
			return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
		}
	}

	return &orchestrator.Invocation{
		Content:    response.Content,
		Confidence: response.Confidence,
		Metadata:   response.Metadata,
	}, nil
}
