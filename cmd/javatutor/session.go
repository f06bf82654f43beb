package main

import (
	"fmt"

	"github.com/agusespa/javatutor/internal/agent"
	"github.com/agusespa/javatutor/internal/diagnose"
	"github.com/agusespa/javatutor/internal/knowledge"
	"github.com/agusespa/javatutor/internal/llm"
	"github.com/agusespa/javatutor/internal/prompts"
	"github.com/agusespa/javatutor/internal/tools"
	"github.com/agusespa/javatutor/internal/types"
	"github.com/agusespa/javatutor/internal/utils"
)

const autoVariant = "auto"

// readSubmission reads path, or stdin for "-".
func readSubmission(registry *tools.Registry, path string) (string, error) {
	out, err := registry.Get(tools.ToolNameReadFile).Execute(map[string]any{"filename": path})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// resolveVariant picks the flag value, falling back to the configured one.
// "auto" inspects the submission.
func resolveVariant(flag, path, source string) (types.Variant, error) {
	name := flag
	if name == "" {
		name = cfg.Check.Variant
	}
	if name == autoVariant {
		return utils.DetectVariant(path, source), nil
	}
	return types.ParseVariant(name)
}

func submissionPath(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

// displayName is the file name used in the rewrite diff.
func displayName(path string) string {
	if path == "-" {
		return ""
	}
	return path
}

func newCheckAgent(variant types.Variant, apiKey string, onRetry func(diagnose.RetryNotice)) (*agent.CheckAgent, *diagnose.Client, error) {
	if err := utils.ValidateModel(cfg.LLM.Model); err != nil {
		return nil, nil, err
	}

	provider, err := llm.NewProvider(cfg.ProviderConfig(apiKey))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	opts := []diagnose.Option{
		diagnose.WithMaxAttempts(cfg.Check.MaxAttempts),
		diagnose.WithLogger(logger),
		diagnose.WithOnRetry(onRetry),
	}
	if cfg.Check.Prompt != "" {
		p, err := prompts.GetPromptVariant(cfg.Check.Prompt)
		if err != nil {
			return nil, nil, err
		}
		if p.Variant != variant {
			return nil, nil, fmt.Errorf("prompt %q is for variant %s, not %s", p.Name, p.Variant, variant)
		}
		opts = append(opts, diagnose.WithPrompt(p))
	}
	client := diagnose.NewClient(provider, variant, opts...)

	registry, err := knowledge.Load(variant)
	if err != nil {
		return nil, nil, err
	}
	a, err := agent.NewCheckAgent(client, registry, logger)
	if err != nil {
		return nil, nil, err
	}
	return a, client, nil
}
