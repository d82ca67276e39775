package orchestrator

import (
	"context"
	"time"
)

// Capability is one entry in the closed set of model capabilities.
type Capability string

const (
	CapTextGeneration      Capability = "text_generation"
	CapTextAnalysis        Capability = "text_analysis"
	CapSentimentAnalysis   Capability = "sentiment_analysis"
	CapLanguageDetection   Capability = "language_detection"
	CapTranslation         Capability = "translation"
	CapSummarization       Capability = "summarization"
	CapIntentRecognition   Capability = "intent_recognition"
	CapSpamDetection       Capability = "spam_detection"
	CapSecurityAnalysis    Capability = "security_analysis"
	CapEmailClassification Capability = "email_classification"
	CapResponseGeneration  Capability = "response_generation"
)

// ModelInfo describes a registered AI model.
type ModelInfo struct {
	ID           string
	Name         string
	Provider     string
	Version      string
	Capabilities []Capability
	Local        bool
	Endpoint     string
}

// HasCapability reports whether the model declares the capability.
func (m ModelInfo) HasCapability(c Capability) bool {
	for _, cap := range m.Capabilities {
		if cap == c {
			return true
		}
	}
	return false
}

// Request is a classification request routed to one model.
type Request struct {
	RequestID  string
	ModelID    string
	Prompt     string
	Context    map[string]string
	Parameters map[string]string
}

// Response is the outcome of processing one request.
type Response struct {
	RequestID  string
	ModelID    string
	Content    string
	Confidence float64
	Metadata   map[string]string
	Success    bool
	Error      string
	Elapsed    time.Duration
}

// Stats holds the running usage counters for one model. The average
// response time is a two-sample decaying blend, deliberately biased
// toward recent samples.
type Stats struct {
	ModelID             string
	TotalRequests       int64
	SuccessfulRequests  int64
	AverageResponseTime time.Duration
	LastUsed            time.Time
}

// Invocation is the raw outcome of calling a model endpoint.
type Invocation struct {
	Content    string
	Confidence float64
	Metadata   map[string]string
}

// Endpoint is the transport adapter for one model provider. The
// orchestrator only consumes this request/response contract; connection
// setup and payload framing belong to the adapter.
type Endpoint interface {
	Invoke(ctx context.Context, model ModelInfo, req Request) (*Invocation, error)
}
