package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agusespa/javatutor/internal/agent"
	"github.com/agusespa/javatutor/internal/diagnose"
	"github.com/agusespa/javatutor/internal/render"
	"github.com/agusespa/javatutor/internal/tools"
	"github.com/agusespa/javatutor/internal/utils"
	"github.com/agusespa/javatutor/pkg/spinner"
)

var (
	checkVariant string
	checkOutput  string
	checkPlain   bool
)

var checkCmd = &cobra.Command{
	Use:   "check [file|-]",
	Short: "Check a submission and print the report",
	Long: `Reads a Java submission from a file, or from stdin when the argument is
"-" or missing, and prints the diagnosis with the explanation of every
matched error category.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkVariant, "variant", "", "exercise variant (java|javaweb|auto), defaults to the configured one")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "also save the markdown report to this file")
	checkCmd.Flags().BoolVar(&checkPlain, "plain", false, "print raw markdown instead of rendering it")
}

func runCheck(cmd *cobra.Command, args []string) error {
	status := render.NewStatus(cmd.ErrOrStderr())
	registry := tools.NewFileRegistry(cmd.InOrStdin())

	path := submissionPath(args)
	source, err := readSubmission(registry, path)
	if err != nil {
		return err
	}

	variant, err := resolveVariant(checkVariant, path, source)
	if err != nil {
		return err
	}

	apiKey, err := cfg.ResolveAPIKey()
	if err != nil {
		return err
	}
	if warning := utils.UntestedModelWarning(cfg.LLM.Model); warning != "" {
		status.Warn("%s", warning)
	}

	sp := spinner.New(cmd.ErrOrStderr(), "正在检查代码...")
	checker, _, err := newCheckAgent(variant, apiKey, retryNotifier(sp, status))
	if err != nil {
		return err
	}

	if render.IsTerminal(os.Stderr) {
		sp.Start()
	}
	res, err := checker.CheckNamed(cmd.Context(), displayName(path), source)
	sp.Stop()
	if err != nil {
		return err
	}

	presenter := agent.NewPresenter(checker.Registry())
	markdown, err := presenter.Markdown(res)
	if err != nil {
		return err
	}

	if checkOutput != "" {
		if err := agent.WriteReport(registry.Get(tools.ToolNameWriteFile), checkOutput, markdown); err != nil {
			return err
		}
	}

	r, err := render.NewMarkdown(render.Options{
		Plain: checkPlain,
		TTY:   render.IsTerminal(os.Stdout),
		Width: render.Width(os.Stdout, render.DefaultWidth),
	})
	if err != nil {
		return err
	}
	out, err := r.Render(markdown)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if res.Clean() {
		status.Success("%s", presenter.Summary(res))
	} else {
		status.Info("%s", presenter.Summary(res))
	}
	if checkOutput != "" {
		status.Success("报告已保存到 %s", checkOutput)
	}
	return nil
}

// retryNotifier prints each retry above a running spinner, or as a status
// line when the spinner is not shown.
func retryNotifier(sp *spinner.Spinner, status *render.Status) func(diagnose.RetryNotice) {
	return func(n diagnose.RetryNotice) {
		if !sp.Active() {
			status.Warn("%s", n.Message())
			return
		}
		sp.Println("⚠️ " + n.Message())
		sp.Update(fmt.Sprintf("正在检查代码（第 %d/%d 次尝试）...", n.Attempt+1, n.MaxAttempts))
	}
}
