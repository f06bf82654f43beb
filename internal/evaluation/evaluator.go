// Package evaluation measures how well a model and prompt combination finds
// and classifies the errors of a suite of known submissions.
package evaluation

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agusespa/javatutor/internal/agent"
	"github.com/agusespa/javatutor/internal/types"
)

const DefaultParallel = 4

// Checker runs one check. *agent.CheckAgent satisfies it.
type Checker interface {
	CheckNamed(ctx context.Context, name, source string) (*agent.CheckResult, error)
}

// CheckerFactory builds the checker used for every test case of a variant.
type CheckerFactory func(v types.Variant) (Checker, error)

// RunInfo labels the results of one evaluation.
type RunInfo struct {
	Model         string
	Provider      string
	PromptVariant string
}

type Evaluator struct {
	suite      *types.EvaluationSuite
	resultsDir string
	loader     *SubmissionLoader
	scorer     Scorer
	parallel   int
	logger     *zap.Logger

	outMu sync.Mutex
	out   io.Writer
}

type Option func(*Evaluator)

func WithParallel(n int) Option {
	return func(e *Evaluator) { e.parallel = n }
}

func WithScorer(s Scorer) Option {
	return func(e *Evaluator) { e.scorer = s }
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Evaluator) { e.logger = logger }
}

func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) { e.out = w }
}

func NewEvaluator(suitePath string, resultsDir string, opts ...Option) (*Evaluator, error) {
	suite, err := LoadSuite(suitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluation suite: %w", err)
	}
	return newEvaluator(suite, resultsDir, opts...), nil
}

func newEvaluator(suite *types.EvaluationSuite, resultsDir string, opts ...Option) *Evaluator {
	e := &Evaluator{
		suite:      suite,
		resultsDir: resultsDir,
		loader:     NewSubmissionLoader(suite.BaseDir),
		scorer:     NewSimpleScorer(),
		parallel:   DefaultParallel,
		logger:     zap.NewNop(),
		out:        os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.parallel < 1 {
		e.parallel = 1
	}
	return e
}

func (e *Evaluator) Suite() *types.EvaluationSuite {
	return e.suite
}

// RunEvaluation checks every test case runs times and aggregates the scores.
// A failed check scores zero; only a canceled context or an unloadable suite
// aborts the evaluation.
func (e *Evaluator) RunEvaluation(ctx context.Context, factory CheckerFactory, info RunInfo, runs int) (*types.EvaluationResult, error) {
	if runs < 1 {
		runs = 1
	}

	submissions := make([]*Submission, len(e.suite.TestCases))
	checkers := make(map[types.Variant]Checker)
	for i, tc := range e.suite.TestCases {
		sub, err := e.loader.Load(tc)
		if err != nil {
			return nil, err
		}
		submissions[i] = sub

		if _, ok := checkers[sub.Variant]; !ok {
			checker, err := factory(sub.Variant)
			if err != nil {
				return nil, fmt.Errorf("failed to create checker for %s: %w", sub.Variant, err)
			}
			checkers[sub.Variant] = checker
		}
	}

	result := &types.EvaluationResult{
		Model:          info.Model,
		Provider:       info.Provider,
		PromptVariant:  info.PromptVariant,
		TotalRuns:      runs,
		StartTime:      time.Now(),
		IndividualRuns: make([]types.EvaluationRun, 0, runs),
	}

	PrintRunHeader(e.out, info.Model, info.PromptVariant, runs)
	for n := 1; n <= runs; n++ {
		if runs > 1 {
			PrintMultiRunProgress(e.out, n, runs)
		}
		run, err := e.runOnce(ctx, checkers, submissions, info, n)
		if err != nil {
			return nil, err
		}
		result.IndividualRuns = append(result.IndividualRuns, *run)
	}

	result.EndTime = time.Now()
	result.TotalDuration = result.EndTime.Sub(result.StartTime)
	summarizeEvaluation(result)

	return result, nil
}

func (e *Evaluator) runOnce(ctx context.Context, checkers map[types.Variant]Checker, submissions []*Submission, info RunInfo, runNumber int) (*types.EvaluationRun, error) {
	run := &types.EvaluationRun{
		Model:         info.Model,
		Provider:      info.Provider,
		PromptVariant: info.PromptVariant,
		StartTime:     time.Now(),
		RunNumber:     runNumber,
		Results:       make([]types.TestCaseResult, len(e.suite.TestCases)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallel)
	for i, tc := range e.suite.TestCases {
		sub := submissions[i]
		checker := checkers[sub.Variant]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("evaluation interrupted: %w", err)
			}
			res := e.runSingleTest(gctx, checker, tc, sub, info.Model)
			run.Results[i] = res
			e.printResult(i+1, len(e.suite.TestCases), &res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation interrupted: %w", err)
	}

	run.EndTime = time.Now()
	run.TotalDuration = run.EndTime.Sub(run.StartTime)
	summarizeRun(run)

	return run, nil
}

func (e *Evaluator) runSingleTest(ctx context.Context, checker Checker, tc types.TestCase, sub *Submission, model string) types.TestCaseResult {
	start := time.Now()
	result := types.TestCaseResult{
		TestCase: tc,
		Model:    model,
	}

	res, err := checker.CheckNamed(ctx, sub.Name, sub.Source)
	result.ExecutionTime = time.Since(start)
	result.Timestamp = time.Now()
	if err != nil {
		e.logger.Warn("test case failed", zap.String("test_case", tc.Name), zap.Error(err))
		result.Errors = []string{err.Error()}
		return result
	}

	result.RequestID = res.RequestID
	result.FoundIssues = !res.Clean()
	result.Categories = res.Categories.Strings()
	result.Success = true
	result.Score = e.scorer.Score(tc.Expected, Outcome{
		FoundIssues: result.FoundIssues,
		Categories:  result.Categories,
	})

	e.logger.Debug("test case scored",
		zap.String("test_case", tc.Name),
		zap.String("request_id", res.RequestID),
		zap.Strings("categories", result.Categories),
		zap.Float64("score", result.Score),
	)
	return result
}

func (e *Evaluator) printResult(i, total int, res *types.TestCaseResult) {
	e.outMu.Lock()
	defer e.outMu.Unlock()
	PrintTestResult(e.out, i, total, res)
}

// SaveEvaluationResults writes result under the results directory.
func (e *Evaluator) SaveEvaluationResults(result *types.EvaluationResult) (string, error) {
	return NewResultsManager(e.resultsDir).SaveEvaluationResults(result)
}
