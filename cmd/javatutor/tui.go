package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/agusespa/javatutor/internal/agent"
	"github.com/agusespa/javatutor/internal/diagnose"
	"github.com/agusespa/javatutor/internal/knowledge"
	"github.com/agusespa/javatutor/internal/tools"
	"github.com/agusespa/javatutor/internal/tui"
	"github.com/agusespa/javatutor/pkg/config"
)

var tuiVariant string

var tuiCmd = &cobra.Command{
	Use:   "tui [file]",
	Short: "Open the interactive editor",
	Long: `Opens an editor preloaded with the given file, or with a sample exercise
of the variant. Press ctrl+s to check the code.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiVariant, "variant", "", "exercise variant (java|javaweb|auto), defaults to the configured one")
}

func runTUI(cmd *cobra.Command, args []string) error {
	registry := tools.NewFileRegistry(cmd.InOrStdin())

	path, source := "", ""
	if len(args) == 1 {
		path = args[0]
		var err error
		if source, err = readSubmission(registry, path); err != nil {
			return err
		}
	}

	variant, err := resolveVariant(tuiVariant, path, source)
	if err != nil {
		return err
	}
	if path == "" {
		source = knowledge.Sample(variant)
	}

	knowledgeRegistry, err := knowledge.Load(variant)
	if err != nil {
		return err
	}
	opts := tui.Options{
		Context:   cmd.Context(),
		Presenter: agent.NewPresenter(knowledgeRegistry),
		Name:      displayName(path),
		Source:    source,
		Variant:   variant,
	}

	var client *diagnose.Client
	apiKey, err := cfg.ResolveAPIKey()
	switch {
	case errors.Is(err, config.ErrMissingCredential):
		opts.Disabled = fmt.Sprintf("未配置 API 密钥（%s），检查功能不可用", cfg.LLM.APIKeyEnv)
	case err != nil:
		return err
	default:
		var checker *agent.CheckAgent
		checker, client, err = newCheckAgent(variant, apiKey, nil)
		if err != nil {
			return err
		}
		opts.Checker = checker
	}

	p := tea.NewProgram(tui.New(opts), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if client != nil {
		client.SetOnRetry(func(n diagnose.RetryNotice) {
			p.Send(tui.RetryMsg(n))
		})
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
