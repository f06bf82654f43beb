package evaluation

import (
	"github.com/agusespa/javatutor/internal/types"
)

// Outcome is what a check reported for one test case.
type Outcome struct {
	FoundIssues bool
	Categories  []string
}

// Scorer interface for different scoring strategies
type Scorer interface {
	Score(expected types.ExpectedResults, actual Outcome) float64
}

// SimpleScorer averages every applicable metric.
type SimpleScorer struct{}

func NewSimpleScorer() *SimpleScorer {
	return &SimpleScorer{}
}

func (s *SimpleScorer) Score(expected types.ExpectedResults, actual Outcome) float64 {
	metrics := []ScoringMetric{
		&IssueFoundMetric{},
		&CategoryMatchMetric{},
	}

	var totalScore, applicableMetrics float64
	for _, metric := range metrics {
		score := metric.Calculate(expected, actual)
		if score >= 0 { // -1 means not applicable
			totalScore += score
			applicableMetrics++
		}
	}

	if applicableMetrics == 0 {
		return 1.0
	}

	return totalScore / applicableMetrics
}

// ScoringMetric interface for individual scoring components
type ScoringMetric interface {
	Calculate(expected types.ExpectedResults, actual Outcome) float64
}

// IssueFoundMetric checks if issues were found when expected
type IssueFoundMetric struct{}

func (m *IssueFoundMetric) Calculate(expected types.ExpectedResults, actual Outcome) float64 {
	if expected.ShouldFindIssues == actual.FoundIssues {
		return 1.0
	}
	return 0.0
}

// CategoryMatchMetric is the F1 score of the classified categories against
// the expected ones.
type CategoryMatchMetric struct{}

func (m *CategoryMatchMetric) Calculate(expected types.ExpectedResults, actual Outcome) float64 {
	if len(expected.Categories) == 0 {
		return -1.0 // Not applicable
	}
	if len(actual.Categories) == 0 {
		return 0.0
	}

	want := make(map[string]bool, len(expected.Categories))
	for _, c := range expected.Categories {
		want[c] = true
	}

	matched := 0
	seen := make(map[string]bool, len(actual.Categories))
	for _, c := range actual.Categories {
		if want[c] && !seen[c] {
			matched++
		}
		seen[c] = true
	}
	if matched == 0 {
		return 0.0
	}

	precision := float64(matched) / float64(len(seen))
	recall := float64(matched) / float64(len(want))
	return 2 * precision * recall / (precision + recall)
}
