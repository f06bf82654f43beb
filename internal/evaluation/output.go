package evaluation

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/agusespa/javatutor/internal/types"
)

func PrintSummary(w io.Writer, r *types.EvaluationRun) {
	fmt.Fprintf(w, "\n--- Summary for %s (%s) ---\n", r.Model, r.PromptVariant)
	fmt.Fprintf(w, "  Average Score: %.2f\n", r.AverageScore)
	fmt.Fprintf(w, "  Success Rate:  %.2f%%\n", r.SuccessRate)
	fmt.Fprintf(w, "  Total Duration:  %.2fs\n", r.TotalDuration.Seconds())
	fmt.Fprintln(w)
}

func PrintEvaluationSummary(w io.Writer, r *types.EvaluationResult) {
	fmt.Fprintf(w, "\n--- Evaluation Summary for %s (%s) ---\n", r.Model, r.PromptVariant)
	fmt.Fprintf(w, "  Runs: %d\n", r.TotalRuns)
	fmt.Fprintf(w, "  Average Score: %.2f (±%.3f)\n", r.AggregatedStats.AverageScore, r.AggregatedStats.ScoreStdDev)
	fmt.Fprintf(w, "  Score Range: %.2f - %.2f\n", r.AggregatedStats.MinScore, r.AggregatedStats.MaxScore)
	fmt.Fprintf(w, "  Success Rate: %.2f%% (±%.3f%%)\n", r.AggregatedStats.AverageSuccessRate, r.AggregatedStats.SuccessRateStdDev)
	fmt.Fprintf(w, "  Average Duration: %.2fs (±%.3fs)\n", r.AggregatedStats.AverageDuration, r.AggregatedStats.DurationStdDev)
	fmt.Fprintf(w, "  Total Duration: %.2fs\n", r.TotalDuration.Seconds())

	if r.TotalRuns > 1 && len(r.TestCaseStats) > 0 {
		fmt.Fprintf(w, "\n  Test Case Performance:\n")
		names := make([]string, 0, len(r.TestCaseStats))
		for name := range r.TestCaseStats {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			stats := r.TestCaseStats[name]
			var indicator string
			switch {
			case stats.AverageScore >= 0.8:
				indicator = "🟢 GOOD"
			case stats.AverageScore >= 0.5:
				indicator = "🟡 MIXED"
			case stats.ConsistencyScore > 0.8:
				indicator = "🔴 CONSISTENTLY BAD"
			default:
				indicator = "🔴 POOR"
			}
			fmt.Fprintf(w, "    %s: %.2f avg (±%.3f) - %.1f%% consistent %s\n",
				stats.TestCaseName, stats.AverageScore, stats.ScoreStdDev, stats.ConsistencyScore*100, indicator)
		}
	}
	PrintCategoryStats(w, r)
}

// PrintCategoryStats prints the per category recall of r and the false
// positive rate on the clean controls.
func PrintCategoryStats(w io.Writer, r *types.EvaluationResult) {
	if len(r.CategoryStats) > 0 {
		fmt.Fprintf(w, "\n  Category Recall: %.1f%%\n", r.AggregatedStats.CategoryRecall*100)
		categories := make([]string, 0, len(r.CategoryStats))
		for c := range r.CategoryStats {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			s := r.CategoryStats[c]
			fmt.Fprintf(w, "    %-28s %d/%d hit", c, s.Hits, s.Expected)
			if s.Spurious > 0 {
				fmt.Fprintf(w, ", %d spurious", s.Spurious)
			}
			fmt.Fprintln(w)
		}
	}
	if r.AggregatedStats.CleanChecks > 0 {
		fmt.Fprintf(w, "  Clean Controls: %.1f%% false positives over %d checks\n",
			r.AggregatedStats.CleanFalsePositiveRate, r.AggregatedStats.CleanChecks)
	}
	fmt.Fprintln(w)
}

func PrintTestResult(w io.Writer, i, total int, result *types.TestCaseResult) {
	if !result.Success {
		fmt.Fprintf(w, "  [%d/%d] %s... ERROR: %s\n", i, total, result.TestCase.Name, strings.Join(result.Errors, "; "))
		return
	}
	fmt.Fprintf(w, "  [%d/%d] %s... DONE (%.2fs, score: %.2f)\n", i, total, result.TestCase.Name, result.ExecutionTime.Seconds(), result.Score)
}

func PrintRunHeader(w io.Writer, modelName, promptVariant string, numRuns int) {
	if numRuns == 1 {
		fmt.Fprintf(w, "Running evaluation for model: %s, prompt: %s\n", modelName, promptVariant)
	} else {
		fmt.Fprintf(w, "Running %d evaluations for model: %s, prompt: %s\n", numRuns, modelName, promptVariant)
	}
}

func PrintMultiRunProgress(w io.Writer, runNum, totalRuns int) {
	fmt.Fprintf(w, "\n--- Run %d/%d ---\n", runNum, totalRuns)
}
