package evaluation

import (
	"math"
	"slices"

	"github.com/agusespa/javatutor/internal/types"
)

// sample holds one observation per run or per check.
type sample []float64

func (s sample) mean() float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s))
}

// stdDev is the sample standard deviation.
func (s sample) stdDev() float64 {
	if len(s) < 2 {
		return 0
	}
	m := s.mean()
	var sq float64
	for _, v := range s {
		sq += (v - m) * (v - m)
	}
	return math.Sqrt(sq / float64(len(s)-1))
}

func (s sample) min() float64 {
	if len(s) == 0 {
		return 0
	}
	return slices.Min(s)
}

func (s sample) max() float64 {
	if len(s) == 0 {
		return 0
	}
	return slices.Max(s)
}

// consistency is 1/(1+cv). A single value or a zero mean counts as fully
// consistent.
func (s sample) consistency() float64 {
	m := s.mean()
	if len(s) < 2 || m == 0 {
		return 1
	}
	return math.Min(1/(1+s.stdDev()/m), 1)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// summarizeRun fills the average score and success rate of r.
func summarizeRun(r *types.EvaluationRun) {
	if len(r.Results) == 0 {
		return
	}
	scores := make(sample, 0, len(r.Results))
	succeeded := 0
	for _, res := range r.Results {
		scores = append(scores, res.Score)
		if res.Success {
			succeeded++
		}
	}
	r.AverageScore = scores.mean()
	r.SuccessRate = percent(succeeded, len(r.Results))
}

// summarizeEvaluation aggregates the runs of result: score and duration
// spread, per test case stability, and how the classifier did on each
// expected category and on the clean controls. Failed checks count against
// the score but not against the category figures, since they classified
// nothing.
func summarizeEvaluation(result *types.EvaluationResult) {
	if len(result.IndividualRuns) == 0 {
		return
	}

	var scores, successRates, durations sample
	for _, run := range result.IndividualRuns {
		scores = append(scores, run.AverageScore)
		successRates = append(successRates, run.SuccessRate)
		durations = append(durations, run.TotalDuration.Seconds())
	}
	result.AggregatedStats = types.EvaluationStats{
		AverageScore:       scores.mean(),
		ScoreStdDev:        scores.stdDev(),
		MinScore:           scores.min(),
		MaxScore:           scores.max(),
		AverageSuccessRate: successRates.mean(),
		SuccessRateStdDev:  successRates.stdDev(),
		AverageDuration:    durations.mean(),
		DurationStdDev:     durations.stdDev(),
	}

	summarizeTestCases(result)
	summarizeCategories(result)
}

func summarizeTestCases(result *types.EvaluationResult) {
	type tally struct {
		scores    sample
		hitRates  sample
		checks    int
		succeeded int
	}
	byName := make(map[string]*tally)
	for _, run := range result.IndividualRuns {
		for _, res := range run.Results {
			t := byName[res.TestCase.Name]
			if t == nil {
				t = &tally{}
				byName[res.TestCase.Name] = t
			}
			t.scores = append(t.scores, res.Score)
			t.checks++
			if !res.Success {
				continue
			}
			t.succeeded++
			if expected := res.TestCase.Expected.Categories; len(expected) > 0 {
				t.hitRates = append(t.hitRates, hitRate(expected, res.Categories))
			}
		}
	}

	result.TestCaseStats = make(map[string]types.TestCaseStats, len(byName))
	for name, t := range byName {
		result.TestCaseStats[name] = types.TestCaseStats{
			TestCaseName:     name,
			AverageScore:     t.scores.mean(),
			ScoreStdDev:      t.scores.stdDev(),
			SuccessRate:      percent(t.succeeded, t.checks),
			ConsistencyScore: t.scores.consistency(),
			CategoryHitRate:  t.hitRates.mean(),
		}
	}
}

func summarizeCategories(result *types.EvaluationResult) {
	byCategory := make(map[string]*types.CategoryStats)
	get := func(c string) *types.CategoryStats {
		s := byCategory[c]
		if s == nil {
			s = &types.CategoryStats{Category: c}
			byCategory[c] = s
		}
		return s
	}

	var expectedTotal, hitTotal, cleanChecks, cleanFlagged int
	for _, run := range result.IndividualRuns {
		for _, res := range run.Results {
			if !res.Success {
				continue
			}
			expected := res.TestCase.Expected
			if !expected.ShouldFindIssues {
				cleanChecks++
				if res.FoundIssues {
					cleanFlagged++
				}
			}
			for _, c := range uniq(expected.Categories) {
				s := get(c)
				s.Expected++
				expectedTotal++
				if slices.Contains(res.Categories, c) {
					s.Hits++
					hitTotal++
				}
			}
			for _, c := range uniq(res.Categories) {
				if !slices.Contains(expected.Categories, c) {
					get(c).Spurious++
				}
			}
		}
	}

	result.CategoryStats = make(map[string]types.CategoryStats, len(byCategory))
	for c, s := range byCategory {
		if s.Expected > 0 {
			s.Recall = float64(s.Hits) / float64(s.Expected)
		}
		result.CategoryStats[c] = *s
	}
	if expectedTotal > 0 {
		result.AggregatedStats.CategoryRecall = float64(hitTotal) / float64(expectedTotal)
	}
	result.AggregatedStats.CleanChecks = cleanChecks
	result.AggregatedStats.CleanFalsePositiveRate = percent(cleanFlagged, cleanChecks)
}

// hitRate is the share of expected that appears in actual.
func hitRate(expected, actual []string) float64 {
	want := uniq(expected)
	if len(want) == 0 {
		return 0
	}
	hits := 0
	for _, c := range want {
		if slices.Contains(actual, c) {
			hits++
		}
	}
	return float64(hits) / float64(len(want))
}

func uniq(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
