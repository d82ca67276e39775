// Package orchestrator manages registered AI model descriptors, routes
// classification requests to the best-matching model by capability, and
// tracks per-model usage statistics.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalProvider is the endpoint key used for models flagged as local.
const LocalProvider = "local"

// DefaultRequestTimeout bounds synchronous endpoint invocations when no
// explicit timeout is configured.
const DefaultRequestTimeout = 30 * time.Second

type modelEntry struct {
	info ModelInfo

	// statsMu serializes statistics updates for this model only;
	// concurrent requests to different models never contend here.
	statsMu sync.Mutex
	stats   Stats
}

// Orchestrator is the model registry and request router.
type Orchestrator struct {
	mu        sync.RWMutex
	models    map[string]*modelEntry
	order     []string
	endpoints map[string]Endpoint
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates an empty orchestrator.
func New(logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		models:    make(map[string]*modelEntry),
		endpoints: make(map[string]Endpoint),
		timeout:   DefaultRequestTimeout,
		logger:    logger,
	}
}

// SetRequestTimeout bounds every synchronous endpoint invocation. A
// non-positive duration disables the bound.
func (o *Orchestrator) SetRequestTimeout(d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.timeout = d
}

// RegisterEndpoint installs the transport adapter for a provider.
func (o *Orchestrator) RegisterEndpoint(provider string, ep Endpoint) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.endpoints[strings.ToLower(provider)] = ep
}

// RegisterModel adds a model descriptor. Re-registering an existing id
// updates the descriptor in place and keeps its statistics.
func (o *Orchestrator) RegisterModel(info ModelInfo) error {
	if info.ID == "" {
		return fmt.Errorf("model id must not be empty")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if entry, ok := o.models[info.ID]; ok {
		o.logger.Warn("Model already registered, updating descriptor",
			zap.String("model_id", info.ID))
		entry.info = info
		return nil
	}

	o.models[info.ID] = &modelEntry{
		info:  info,
		stats: Stats{ModelID: info.ID, LastUsed: time.Now()},
	}
	o.order = append(o.order, info.ID)

	o.logger.Info("Registered model",
		zap.String("model_id", info.ID),
		zap.String("provider", info.Provider),
		zap.Bool("local", info.Local))
	return nil
}

// UnregisterModel removes a model descriptor and its statistics.
func (o *Orchestrator) UnregisterModel(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.models[id]; !ok {
		return false
	}
	delete(o.models, id)
	for i, existing := range o.order {
		if existing == id {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return true
}

// Models returns the registered descriptors in registration order.
func (o *Orchestrator) Models() []ModelInfo {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]ModelInfo, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.models[id].info)
	}
	return out
}

// Model returns the descriptor for the given id.
func (o *Orchestrator) Model(id string) (ModelInfo, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	entry, ok := o.models[id]
	if !ok {
		return ModelInfo{}, false
	}
	return entry.info, true
}

// IsModelAvailable reports whether a model id is registered.
func (o *Orchestrator) IsModelAvailable(id string) bool {
	_, ok := o.Model(id)
	return ok
}

// Stats returns a snapshot of the model's running counters.
func (o *Orchestrator) Stats(id string) (Stats, bool) {
	o.mu.RLock()
	entry, ok := o.models[id]
	o.mu.RUnlock()
	if !ok {
		return Stats{}, false
	}

	entry.statsMu.Lock()
	defer entry.statsMu.Unlock()
	return entry.stats, true
}

// ResetStats zeroes the model's counters. This is an explicit operator
// action; statistics are never reset implicitly.
func (o *Orchestrator) ResetStats(id string) bool {
	o.mu.RLock()
	entry, ok := o.models[id]
	o.mu.RUnlock()
	if !ok {
		return false
	}

	entry.statsMu.Lock()
	defer entry.statsMu.Unlock()
	entry.stats = Stats{ModelID: id, LastUsed: time.Now()}
	return true
}

// BestModelFor returns the first registered model declaring the
// capability, falling back to the first registered model of any kind.
// Selection is deterministic for a fixed registration order. The second
// return is false when no models are registered at all.
func (o *Orchestrator) BestModelFor(c Capability) (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	for _, id := range o.order {
		if o.models[id].info.HasCapability(c) {
			return id, true
		}
	}
	if len(o.order) > 0 {
		return o.order[0], true
	}
	return "", false
}

// Process routes a request to its model synchronously. A request naming
// an unknown model fails fast and does not touch any statistics.
func (o *Orchestrator) Process(ctx context.Context, req Request) Response {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	resp := Response{RequestID: req.RequestID, ModelID: req.ModelID}

	o.mu.RLock()
	entry, ok := o.models[req.ModelID]
	var info ModelInfo
	var ep Endpoint
	timeout := o.timeout
	if ok {
		// Copy the descriptor under the lock; re-registration may
		// rewrite entry.info while this request is in flight.
		info = entry.info
		key := LocalProvider
		if !info.Local {
			key = strings.ToLower(info.Provider)
		}
		ep = o.endpoints[key]
	}
	o.mu.RUnlock()

	if !ok {
		resp.Error = fmt.Sprintf("model not found: %s", req.ModelID)
		return resp
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	if ep == nil {
		resp.Error = fmt.Sprintf("no endpoint registered for provider: %s", info.Provider)
		o.updateStats(entry, false, time.Since(start))
		return resp
	}

	inv, err := ep.Invoke(ctx, info, req)
	resp.Elapsed = time.Since(start)

	if err != nil {
		resp.Error = err.Error()
		o.updateStats(entry, false, resp.Elapsed)
		o.logger.Error("Model request failed",
			zap.String("model_id", req.ModelID),
			zap.String("request_id", req.RequestID),
			zap.Error(err))
		return resp
	}

	resp.Content = inv.Content
	resp.Confidence = inv.Confidence
	resp.Metadata = inv.Metadata
	resp.Success = true
	o.updateStats(entry, true, resp.Elapsed)
	return resp
}

// ProcessAsync routes a request without blocking the caller. The result
// is delivered to the callback from a separate goroutine.
func (o *Orchestrator) ProcessAsync(ctx context.Context, req Request, callback func(Response)) {
	go func() {
		callback(o.Process(ctx, req))
	}()
}

func (o *Orchestrator) updateStats(entry *modelEntry, success bool, elapsed time.Duration) {
	entry.statsMu.Lock()
	defer entry.statsMu.Unlock()

	entry.stats.TotalRequests++
	if success {
		entry.stats.SuccessfulRequests++
	}
	// Decaying two-sample blend rather than a true mean; kept for
	// compatibility with existing dashboards.
	entry.stats.AverageResponseTime = (entry.stats.AverageResponseTime + elapsed) / 2
	entry.stats.LastUsed = time.Now()
}

// AnalyzeEmail runs a text-analysis request against the best model for
// that capability.
func (o *Orchestrator) AnalyzeEmail(ctx context.Context, content, emailContext string) Response {
	return o.processForCapability(ctx, CapTextAnalysis, buildAnalysisPrompt(content, emailContext))
}

// ClassifyEmail runs an email-classification request against the best
// model for that capability.
func (o *Orchestrator) ClassifyEmail(ctx context.Context, content string) Response {
	return o.processForCapability(ctx, CapEmailClassification, buildClassificationPrompt(content))
}

// DetectSpam runs a spam-detection request against the best model for
// that capability.
func (o *Orchestrator) DetectSpam(ctx context.Context, content string) Response {
	return o.processForCapability(ctx, CapSpamDetection, buildSpamPrompt(content))
}

func (o *Orchestrator) processForCapability(ctx context.Context, c Capability, prompt string) Response {
	modelID, ok := o.BestModelFor(c)
	if !ok {
		return Response{
			RequestID: uuid.NewString(),
			Error:     fmt.Sprintf("no models registered for capability: %s", c),
		}
	}
	return o.Process(ctx, Request{ModelID: modelID, Prompt: prompt})
}
