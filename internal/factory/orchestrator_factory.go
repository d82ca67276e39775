package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/adapters/bedrock"
	"github.com/sentinelmail/sentinel/internal/adapters/gemini"
	"github.com/sentinelmail/sentinel/internal/adapters/local"
	"github.com/sentinelmail/sentinel/internal/adapters/openai"
	"github.com/sentinelmail/sentinel/internal/config"
	"github.com/sentinelmail/sentinel/internal/orchestrator"
	"github.com/sentinelmail/sentinel/internal/textutil"
)

// LocalModelID is the identifier of the built-in heuristic classifier.
// It is always registered first, so capability routing falls back to it
// when no remote provider is configured.
const LocalModelID = "sentinel-heuristic-v1"

// OrchestratorFactory assembles the model orchestrator from configuration.
type OrchestratorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	text   *textutil.Processor
}

// NewOrchestratorFactory creates a new orchestrator factory
func NewOrchestratorFactory(cfg *config.Config, logger *zap.Logger, text *textutil.Processor) *OrchestratorFactory {
	return &OrchestratorFactory{cfg: cfg, logger: logger, text: text}
}

// CreateOrchestrator builds an orchestrator with one endpoint and one
// default model descriptor per configured provider.
func (f *OrchestratorFactory) CreateOrchestrator(ctx context.Context) (*orchestrator.Orchestrator, error) {
	orch := orchestrator.New(f.logger)
	if timeout, err := f.cfg.GetDuration("orchestrator.request_timeout"); err == nil {
		orch.SetRequestTimeout(timeout)
	} else {
		f.logger.Warn("Invalid orchestrator request timeout, using default",
			zap.Duration("default", orchestrator.DefaultRequestTimeout),
			zap.Error(err))
	}

	orch.RegisterEndpoint(orchestrator.LocalProvider, local.NewEndpoint(f.logger))
	if err := orch.RegisterModel(orchestrator.ModelInfo{
		ID:       LocalModelID,
		Name:     "Sentinel Heuristic Classifier",
		Provider: orchestrator.LocalProvider,
		Version:  "1.0",
		Capabilities: []orchestrator.Capability{
			orchestrator.CapSpamDetection,
			orchestrator.CapEmailClassification,
			orchestrator.CapSecurityAnalysis,
		},
		Local: true,
	}); err != nil {
		return nil, err
	}

	for _, provider := range f.cfg.GetStringSlice("orchestrator.providers") {
		switch provider {
		case orchestrator.LocalProvider:
			// Always registered above.
		case "openai":
			if err := f.registerOpenAI(orch); err != nil {
				return nil, err
			}
		case "bedrock":
			if err := f.registerBedrock(ctx, orch); err != nil {
				return nil, err
			}
		case "gemini":
			if err := f.registerGemini(ctx, orch); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported orchestrator provider: %s", provider)
		}
	}

	return orch, nil
}

func (f *OrchestratorFactory) registerOpenAI(orch *orchestrator.Orchestrator) error {
	oc := f.cfg.GetOpenAI()
	if oc.APIKey == "" {
		return fmt.Errorf("openai provider enabled but openai.api_key is empty")
	}

	orch.RegisterEndpoint("openai", openai.NewEndpoint(
		oc.APIKey, oc.MaxTokens, oc.Temperature, oc.TopP, oc.MaxBodySize, f.logger, f.text))
	return orch.RegisterModel(orchestrator.ModelInfo{
		ID:       oc.ModelName,
		Name:     oc.ModelName,
		Provider: "openai",
		Capabilities: []orchestrator.Capability{
			orchestrator.CapTextGeneration,
			orchestrator.CapTextAnalysis,
			orchestrator.CapSummarization,
			orchestrator.CapEmailClassification,
			orchestrator.CapSpamDetection,
			orchestrator.CapSecurityAnalysis,
		},
	})
}

func (f *OrchestratorFactory) registerBedrock(ctx context.Context, orch *orchestrator.Orchestrator) error {
	bc := f.cfg.GetBedrock()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(bc.Region))
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := bedrockruntime.NewFromConfig(awsCfg)

	orch.RegisterEndpoint("bedrock", bedrock.NewEndpoint(
		client, bc.MaxTokens, bc.Temperature, bc.TopP, bc.MaxBodySize, f.logger, f.text))
	return orch.RegisterModel(orchestrator.ModelInfo{
		ID:       bc.ModelID,
		Name:     bc.ModelID,
		Provider: "bedrock",
		Capabilities: []orchestrator.Capability{
			orchestrator.CapTextGeneration,
			orchestrator.CapTextAnalysis,
			orchestrator.CapEmailClassification,
			orchestrator.CapSpamDetection,
			orchestrator.CapSecurityAnalysis,
		},
	})
}

func (f *OrchestratorFactory) registerGemini(ctx context.Context, orch *orchestrator.Orchestrator) error {
	gc := f.cfg.GetGemini()
	if gc.APIKey == "" {
		return fmt.Errorf("gemini provider enabled but gemini.api_key is empty")
	}

	ep, err := gemini.NewEndpoint(ctx, gc.APIKey, gc.MaxTokens, gc.Temperature, gc.TopP, gc.MaxBodySize, f.logger, f.text)
	if err != nil {
		return err
	}

	orch.RegisterEndpoint("gemini", ep)
	return orch.RegisterModel(orchestrator.ModelInfo{
		ID:       gc.ModelName,
		Name:     gc.ModelName,
		Provider: "gemini",
		Capabilities: []orchestrator.Capability{
			orchestrator.CapTextGeneration,
			orchestrator.CapTextAnalysis,
			orchestrator.CapEmailClassification,
			orchestrator.CapSpamDetection,
			orchestrator.CapSecurityAnalysis,
		},
	})
}
