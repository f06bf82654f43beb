package evaluation

import (
	"math"
	"testing"

	"github.com/agusespa/javatutor/internal/types"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestIssueFoundMetric(t *testing.T) {
	metric := &IssueFoundMetric{}

	tests := []struct {
		name     string
		expected bool
		found    bool
		want     float64
	}{
		{"expected and found", true, true, 1.0},
		{"expected and missed", true, false, 0.0},
		{"clean and clean", false, false, 1.0},
		{"clean but flagged", false, true, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := metric.Calculate(types.ExpectedResults{ShouldFindIssues: tt.expected}, Outcome{FoundIssues: tt.found})
			if got != tt.want {
				t.Errorf("Expected %.2f, got %.2f", tt.want, got)
			}
		})
	}
}

func TestCategoryMatchMetric(t *testing.T) {
	metric := &CategoryMatchMetric{}

	tests := []struct {
		name     string
		expected []string
		actual   []string
		want     float64
	}{
		{"not applicable", nil, []string{"a"}, -1.0},
		{"nothing classified", []string{"a"}, nil, 0.0},
		{"exact match", []string{"a", "b"}, []string{"b", "a"}, 1.0},
		{"no overlap", []string{"a"}, []string{"b"}, 0.0},
		// precision 1/2, recall 1/1
		{"extra category", []string{"a"}, []string{"a", "b"}, 2.0 / 3.0},
		// precision 1/1, recall 1/2
		{"missing category", []string{"a", "b"}, []string{"a"}, 2.0 / 3.0},
		{"duplicates ignored", []string{"a"}, []string{"a", "a"}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := metric.Calculate(types.ExpectedResults{ShouldFindIssues: true, Categories: tt.expected}, Outcome{FoundIssues: true, Categories: tt.actual})
			if !almostEqual(got, tt.want) {
				t.Errorf("Expected %.4f, got %.4f", tt.want, got)
			}
		})
	}
}

func TestSimpleScorer(t *testing.T) {
	scorer := NewSimpleScorer()

	tests := []struct {
		name     string
		expected types.ExpectedResults
		actual   Outcome
		want     float64
	}{
		{
			name:     "clean submission passed",
			expected: types.ExpectedResults{ShouldFindIssues: false},
			actual:   Outcome{},
			want:     1.0,
		},
		{
			name:     "clean submission flagged",
			expected: types.ExpectedResults{ShouldFindIssues: false},
			actual:   Outcome{FoundIssues: true, Categories: []string{"infinite-loop"}},
			want:     0.0,
		},
		{
			name:     "issues found and classified",
			expected: types.ExpectedResults{ShouldFindIssues: true, Categories: []string{"array-out-of-bounds"}},
			actual:   Outcome{FoundIssues: true, Categories: []string{"array-out-of-bounds"}},
			want:     1.0,
		},
		{
			name:     "issues found but unmatched",
			expected: types.ExpectedResults{ShouldFindIssues: true, Categories: []string{"array-out-of-bounds"}},
			actual:   Outcome{FoundIssues: true},
			want:     0.5,
		},
		{
			name:     "issues missed",
			expected: types.ExpectedResults{ShouldFindIssues: true, Categories: []string{"array-out-of-bounds"}},
			actual:   Outcome{},
			want:     0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.expected, tt.actual)
			if !almostEqual(got, tt.want) {
				t.Errorf("Expected %.2f, got %.2f", tt.want, got)
			}
		})
	}
}

var _ Scorer = (*SimpleScorer)(nil)
