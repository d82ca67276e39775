package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sentinelmail/sentinel/internal/audit"
	"github.com/sentinelmail/sentinel/internal/config"
	"github.com/sentinelmail/sentinel/internal/core"
	"github.com/sentinelmail/sentinel/internal/factory"
	"github.com/sentinelmail/sentinel/internal/logging"
	"github.com/sentinelmail/sentinel/internal/reputation"
	"github.com/sentinelmail/sentinel/internal/textutil"
)

var (
	// Analysis flags
	aiEnabled        = flag.Bool("ai", false, "Enable the AI classification signal")
	maxAttachments   = flag.Int("max-attachments", 20, "Maximum attachment count before policy violation")
	whitelistDomains = flag.String("whitelist", "", "Comma-separated list of whitelisted sender domains")

	// Provider flags (used when -ai is set)
	providers   = flag.String("providers", "local", "Comma-separated model providers (local, openai, bedrock, gemini)")
	openaiKey   = flag.String("openai-api-key", "", "API key for OpenAI")
	geminiKey   = flag.String("gemini-api-key", "", "API key for Google Gemini")
	bedrockRgn  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockID   = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")
	openaiModel = flag.String("openai-model", "gpt-4", "OpenAI model name")
	geminiModel = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// Input flags
	inputFile  = flag.String("file", "", "Input email file (use stdin if not specified)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	repStore := reputation.NewMemoryStore(logger)
	defer repStore.Close()
	auditLog := audit.NewLog(cfg.GetInt("audit.capacity"), logger)

	analyzer, err := factory.NewAnalyzerFactory(cfg, logger).CreateAnalyzer(repStore, auditLog)
	if err != nil {
		logger.Fatal("Failed to create analyzer", zap.Error(err))
	}

	// Attach the AI signal when requested
	if cfg.GetSecurity().AIEnabled {
		text := textutil.NewProcessor(logger)
		orchFactory := factory.NewOrchestratorFactory(cfg, logger, text)
		orch, err := orchFactory.CreateOrchestrator(context.Background())
		if err != nil {
			logger.Fatal("Failed to create orchestrator", zap.Error(err))
		}
		analyzer.SetClassifier(factory.NewClassifier(orch, logger))
	}

	// Read email from file or stdin
	var emailReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", *inputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	// Parse email
	parsed, err := mail.ReadMessage(bufio.NewReader(emailReader))
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	from := parsed.Header.Get("From")
	to := parsed.Header.Get("To")
	subject := parsed.Header.Get("Subject")

	bodyBytes, err := io.ReadAll(parsed.Body)
	if err != nil {
		logger.Fatal("Failed to read email body", zap.Error(err))
	}

	msg := &core.Message{
		From:    from,
		To:      strings.Split(to, ","),
		Subject: subject,
		Body:    string(bodyBytes),
		Headers: make(map[string][]string),
	}
	for k, v := range parsed.Header {
		msg.Headers[k] = v
	}

	// Print email summary
	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", from)
	fmt.Printf("To: %s\n", to)
	fmt.Printf("Subject: %s\n", subject)
	fmt.Printf("Body length: %d bytes\n", len(msg.Body))
	fmt.Printf("\n")

	// Analyze email
	startTime := time.Now()
	result := analyzer.Evaluate(context.Background(), msg)
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("=== Results ===\n")
	fmt.Printf("Secure: %t\n", result.IsSecure)
	fmt.Printf("Threat type: %s\n", result.ThreatType)
	fmt.Printf("Threat level: %s\n", result.Level)
	fmt.Printf("Confidence: %.4f\n", result.Confidence)
	fmt.Printf("Reason: %s\n", result.Reason)
	for _, rec := range result.Recommendations {
		fmt.Printf("Recommendation: %s\n", rec)
	}
	fmt.Printf("Processing time: %v\n", duration)
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("security.ai_enabled", *aiEnabled)
	v.Set("security.max_attachments", *maxAttachments)
	if *whitelistDomains != "" {
		domains := strings.Split(*whitelistDomains, ",")
		for i, domain := range domains {
			domains[i] = strings.TrimSpace(domain)
		}
		v.Set("security.whitelisted_domains", domains)
	}

	v.Set("orchestrator.providers", strings.Split(*providers, ","))
	v.Set("openai.api_key", *openaiKey)
	v.Set("openai.model_name", *openaiModel)
	v.Set("gemini.api_key", *geminiKey)
	v.Set("gemini.model_name", *geminiModel)
	v.Set("bedrock.region", *bedrockRgn)
	v.Set("bedrock.model_id", *bedrockID)

	return config.NewFromViper(v)
}
