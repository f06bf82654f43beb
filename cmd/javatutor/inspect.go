package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agusespa/javatutor/internal/annotate"
	"github.com/agusespa/javatutor/internal/classify"
	"github.com/agusespa/javatutor/internal/knowledge"
	"github.com/agusespa/javatutor/internal/render"
	"github.com/agusespa/javatutor/internal/tools"
	"github.com/agusespa/javatutor/internal/types"
)

var inspectVariant string

var annotateCmd = &cobra.Command{
	Use:   "annotate [file|-]",
	Short: "Print the submission with the line numbers sent to the model",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSubmission(tools.NewFileRegistry(cmd.InOrStdin()), submissionPath(args))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), annotate.Annotate(source))
		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify TEXT...",
	Short: "Show which error categories a diagnostic text triggers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := inspectRegistry()
		if err != nil {
			return err
		}

		matches := classify.New(registry).Matches(args...)
		if len(matches) == 0 {
			render.NewStatus(cmd.ErrOrStderr()).Info("no category matched")
			return nil
		}

		idColor := color.New(color.FgCyan)
		for _, m := range matches {
			entry := registry.Lookup(m.Category)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", idColor.Sprint(m.Category), entry.Name, strings.Join(m.Keywords, ", "))
		}
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the error categories of a variant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := inspectRegistry()
		if err != nil {
			return err
		}

		idColor := color.New(color.FgCyan)
		for _, e := range registry.Entries() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d keywords\n", idColor.Sprint(e.ID), e.Name, len(e.Keywords))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{classifyCmd, categoriesCmd} {
		c.Flags().StringVar(&inspectVariant, "variant", "", "exercise variant (java|javaweb), defaults to the configured one")
	}
}

func inspectRegistry() (*knowledge.Registry, error) {
	name := inspectVariant
	if name == "" || name == autoVariant {
		name = cfg.Check.Variant
	}
	if name == autoVariant {
		name = string(types.VariantJava)
	}
	v, err := types.ParseVariant(name)
	if err != nil {
		return nil, err
	}
	return knowledge.Load(v)
}
