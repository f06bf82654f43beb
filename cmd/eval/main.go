package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/agusespa/javatutor/internal/agent"
	"github.com/agusespa/javatutor/internal/diagnose"
	"github.com/agusespa/javatutor/internal/evaluation"
	"github.com/agusespa/javatutor/internal/knowledge"
	"github.com/agusespa/javatutor/internal/llm"
	"github.com/agusespa/javatutor/internal/logging"
	"github.com/agusespa/javatutor/internal/prompts"
	"github.com/agusespa/javatutor/internal/types"
	"github.com/agusespa/javatutor/pkg/config"
)

const defaultPromptLabel = "default"

func main() {
	var (
		suiteFile   = flag.String("suite", "evaluation/test_suite.json", "Path to evaluation test suite")
		resultsDir  = flag.String("results", "evaluation/results", "Directory to store results")
		configFile  = flag.String("config", "evaluation/eval_configs.json", "Path to evaluation config file")
		key         = flag.String("key", "", "Key of the configuration to run, all when empty")
		runs        = flag.Int("runs", 0, "Runs per model and prompt, overrides the config")
		parallel    = flag.Int("parallel", evaluation.DefaultParallel, "Test cases checked concurrently")
		compare     = flag.Bool("compare", false, "Compare existing results instead of running new evaluation")
		listPrompts = flag.Bool("list-prompts", false, "List available prompt variants")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	fmt.Println("")
	fmt.Println("============================")
	fmt.Println(" javatutor Evaluation Tool ")
	fmt.Println("============================")
	fmt.Println("")

	if *listPrompts {
		printPromptVariants()
		return
	}

	if *compare {
		if err := evaluation.CompareResults(os.Stdout, *resultsDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error comparing results: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger, err := logging.New(*verbose, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := runOptions{
		suiteFile:  *suiteFile,
		resultsDir: *resultsDir,
		configFile: *configFile,
		key:        *key,
		runs:       *runs,
		parallel:   *parallel,
	}
	if err := runEvaluation(ctx, logger, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error running evaluation: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type runOptions struct {
	suiteFile  string
	resultsDir string
	configFile string
	key        string
	runs       int
	parallel   int
}

func runEvaluation(ctx context.Context, logger *zap.Logger, opts runOptions) error {
	configs, err := evaluation.LoadConfigs(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load evaluation configs: %w", err)
	}
	if err := evaluation.ValidateConfigs(configs); err != nil {
		return fmt.Errorf("invalid evaluation configs: %w", err)
	}

	selected := evaluation.FilterByKey(configs, opts.key)
	if len(selected) == 0 {
		return fmt.Errorf("configuration with key '%s' not found", opts.key)
	}

	evaluator, err := evaluation.NewEvaluator(opts.suiteFile, opts.resultsDir,
		evaluation.WithParallel(opts.parallel),
		evaluation.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create evaluator: %w", err)
	}

	for _, cfg := range selected {
		fmt.Printf("--- Running Configuration: %s ---\n", cfg.Key)

		runs := evaluation.GetDefaultRuns(cfg)
		if opts.runs > 0 {
			runs = opts.runs
		}

		promptNames := cfg.Prompts
		if len(promptNames) == 0 {
			promptNames = []string{""}
		}

		for _, model := range cfg.Models {
			for _, prompt := range promptNames {
				if err := runSingleEvaluation(ctx, evaluator, logger, cfg, model, prompt, runs); err != nil {
					if ctx.Err() != nil {
						return err
					}
					fmt.Printf("Error running evaluation for %s/%s: %v\n", model, promptLabel(prompt), err)
				}
			}
		}
	}

	fmt.Println("All evaluations complete.")
	fmt.Println("To compare results, run: go run ./cmd/eval --compare")

	return nil
}

func runSingleEvaluation(ctx context.Context, evaluator *evaluation.Evaluator, logger *zap.Logger, cfg types.EvaluationConfig, model, prompt string, runs int) error {
	var custom *types.PromptVariant
	if prompt != "" {
		p, err := prompts.GetPromptVariant(prompt)
		if err != nil {
			fmt.Printf("Warning: skipping unknown prompt variant '%s'\n", prompt)
			return nil
		}
		custom = &p
	}

	providerConfig, err := providerConfigFor(cfg, model)
	if err != nil {
		return err
	}
	provider, err := llm.NewProvider(providerConfig)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	// A prompt only replaces the default of its own variant.
	factory := func(v types.Variant) (evaluation.Checker, error) {
		clientOpts := []diagnose.Option{diagnose.WithLogger(logger)}
		if custom != nil && custom.Variant == v {
			clientOpts = append(clientOpts, diagnose.WithPrompt(*custom))
		}
		client := diagnose.NewClient(provider, v, clientOpts...)

		registry, err := knowledge.Load(v)
		if err != nil {
			return nil, err
		}
		return agent.NewCheckAgent(client, registry, logger)
	}

	fmt.Printf("=== Running evaluation: %s with %s prompt ===\n", model, promptLabel(prompt))

	info := evaluation.RunInfo{Model: model, Provider: cfg.Provider, PromptVariant: promptLabel(prompt)}
	result, err := evaluator.RunEvaluation(ctx, factory, info, runs)
	if err != nil {
		return err
	}

	if runs == 1 {
		evaluation.PrintSummary(os.Stdout, &result.IndividualRuns[0])
		evaluation.PrintCategoryStats(os.Stdout, result)
	} else {
		evaluation.PrintEvaluationSummary(os.Stdout, result)
	}

	path, err := evaluator.SaveEvaluationResults(result)
	if err != nil {
		fmt.Printf("Warning: failed to save results: %v\n", err)
	} else {
		fmt.Printf("Results saved to: %s\n", path)
	}
	fmt.Println()
	return nil
}

// providerConfigFor resolves the credential of cfg the same way javatutor
// does, through the environment and the .env file.
func providerConfigFor(cfg types.EvaluationConfig, model string) (llm.ProviderConfig, error) {
	c := config.Defaults()
	c.LLM.Provider = cfg.Provider
	c.LLM.Model = model
	c.LLM.BaseURL = cfg.BaseURL
	if cfg.APIKeyEnv != "" {
		c.LLM.APIKeyEnv = cfg.APIKeyEnv
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = config.DefaultOpenAIBaseURL
		if cfg.Provider == string(llm.ProviderOllama) {
			c.LLM.BaseURL = config.DefaultOllamaBaseURL
		}
	}

	apiKey, err := c.ResolveAPIKey()
	if err != nil {
		return llm.ProviderConfig{}, err
	}
	return c.ProviderConfig(apiKey), nil
}

func promptLabel(prompt string) string {
	if prompt == "" {
		return defaultPromptLabel
	}
	return prompt
}

func printPromptVariants() {
	fmt.Println("Available prompt variants:")
	for _, name := range prompts.ListPromptVariants("") {
		variant, _ := prompts.GetPromptVariant(name)
		fmt.Printf("  %s (%s): %s\n", name, variant.Variant, variant.Description)
	}
}
