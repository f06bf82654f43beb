package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/go-diff/diff"
	"go.uber.org/zap"

	"github.com/agusespa/javatutor/internal/annotate"
	"github.com/agusespa/javatutor/internal/classify"
	"github.com/agusespa/javatutor/internal/diagnose"
	"github.com/agusespa/javatutor/internal/knowledge"
	"github.com/agusespa/javatutor/internal/types"
	"github.com/agusespa/javatutor/internal/utils"
)

// Diagnoser returns the model's raw reply for an annotated submission.
type Diagnoser interface {
	Diagnose(ctx context.Context, annotated string) (string, error)
	Variant() types.Variant
	Model() string
}

// CheckResult is everything one check produced. It is rendered once and
// then dropped.
type CheckResult struct {
	RequestID  string
	Variant    types.Variant
	Model      string
	Name       string
	Source     string
	Annotated  string
	Raw        string
	Report     *types.DiagnosticReport
	Categories classify.Result
	// Degenerate is set when the submission was empty and no request was made.
	Degenerate bool
	Duration   time.Duration
}

// Clean reports whether the model found nothing in the classified fields.
func (r *CheckResult) Clean() bool {
	return r.Report.Clean(types.SchemaFor(r.Variant))
}

// FixedCode is the rewritten code ready for display.
func (r *CheckResult) FixedCode() string {
	return utils.UnescapeCode(r.Report.RewrittenCode)
}

// Diff compares the submission with the rewritten code.
func (r *CheckResult) Diff() *diff.FileDiff {
	if r.Degenerate {
		return utils.RewriteDiff(r.Name, r.Source, r.Source)
	}
	return utils.RewriteDiff(r.Name, r.Source, r.FixedCode())
}

type CheckAgent struct {
	diagnoser  Diagnoser
	registry   *knowledge.Registry
	classifier *classify.Classifier
	schema     types.Schema
	logger     *zap.Logger
}

func NewCheckAgent(d Diagnoser, registry *knowledge.Registry, logger *zap.Logger) (*CheckAgent, error) {
	if d.Variant() != registry.Variant() {
		return nil, fmt.Errorf("diagnoser variant %s does not match knowledge registry %s", d.Variant(), registry.Variant())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckAgent{
		diagnoser:  d,
		registry:   registry,
		classifier: classify.New(registry),
		schema:     types.SchemaFor(registry.Variant()),
		logger:     logger,
	}, nil
}

func (a *CheckAgent) Variant() types.Variant {
	return a.registry.Variant()
}

func (a *CheckAgent) Registry() *knowledge.Registry {
	return a.registry
}

func (a *CheckAgent) Check(ctx context.Context, source string) (*CheckResult, error) {
	return a.CheckNamed(ctx, "", source)
}

// CheckNamed runs the full pipeline on source. name is the file name shown in
// the rewrite diff; "" picks a default for the variant.
func (a *CheckAgent) CheckNamed(ctx context.Context, name, source string) (*CheckResult, error) {
	start := time.Now()
	res := &CheckResult{
		RequestID: uuid.NewString(),
		Variant:   a.Variant(),
		Model:     a.diagnoser.Model(),
		Name:      utils.SubmissionName(name, a.Variant()),
		Source:    source,
		Annotated: annotate.Annotate(source),
	}

	logger := a.logger.With(
		zap.String("request_id", res.RequestID),
		zap.String("variant", string(res.Variant)),
	)

	if strings.TrimSpace(source) == "" {
		return a.degenerate(res, start, logger), nil
	}

	raw, err := a.diagnoser.Diagnose(ctx, res.Annotated)
	if errors.Is(err, diagnose.ErrEmptySource) {
		return a.degenerate(res, start, logger), nil
	}
	if err != nil {
		return nil, err
	}
	res.Raw = raw

	report, err := utils.ParseReport(raw, a.schema, source)
	if err != nil {
		logger.Warn("unparseable model response", zap.Error(err))
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}
	res.Report = report
	res.Categories = a.classifier.Classify(report.DiagnosticTexts(a.schema)...)
	res.Duration = time.Since(start)

	logger.Info("check completed",
		zap.Strings("categories", res.Categories.Strings()),
		zap.Bool("clean", res.Clean()),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

func (a *CheckAgent) degenerate(res *CheckResult, start time.Time, logger *zap.Logger) *CheckResult {
	res.Report = types.NewDiagnosticReport(a.schema, res.Source)
	res.Categories = classify.Result{}
	res.Degenerate = true
	res.Duration = time.Since(start)
	logger.Debug("empty submission, skipping model request")
	return res
}
