package evaluation

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agusespa/javatutor/internal/types"
)

type ResultsManager struct {
	resultsDir string
}

func NewResultsManager(resultsDir string) *ResultsManager {
	return &ResultsManager{
		resultsDir: resultsDir,
	}
}

// SaveEvaluationResults writes result as JSON and returns the file path.
func (rm *ResultsManager) SaveEvaluationResults(result *types.EvaluationResult) (string, error) {
	if err := os.MkdirAll(rm.resultsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory at %s: %w", rm.resultsDir, err)
	}

	model := fileSafe(result.Model)
	prompt := fileSafe(result.PromptVariant)
	var filename string
	if result.TotalRuns <= 1 {
		filename = fmt.Sprintf("eval_%s_%s_%d.json", model, prompt, result.StartTime.Unix())
	} else {
		filename = fmt.Sprintf("eval_%s_%s_%druns_%d.json", model, prompt, result.TotalRuns, result.StartTime.Unix())
	}
	path := filepath.Join(rm.resultsDir, filename)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write results file to %s: %w", path, err)
	}

	return path, nil
}

// LoadEvaluationResults reads every result file in the results directory.
func (rm *ResultsManager) LoadEvaluationResults() ([]types.EvaluationResult, error) {
	files, err := filepath.Glob(filepath.Join(rm.resultsDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to find result files: %w", err)
	}
	sort.Strings(files)

	var results []types.EvaluationResult
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		var result types.EvaluationResult
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		if len(result.IndividualRuns) == 0 {
			return nil, fmt.Errorf("no runs found in %s", file)
		}
		results = append(results, result)
	}

	return results, nil
}

type ComparisonResult struct {
	Model         string
	PromptVariant string
	Runs          int
	AvgScore      float64
	StdDev        float64
	SuccessRate   float64
	AvgDuration   float64
}

// Compare groups the runs of results by model and prompt, best score first.
func Compare(results []types.EvaluationResult) []ComparisonResult {
	groups := make(map[string][]types.EvaluationRun)
	var order []string
	for _, result := range results {
		for _, run := range result.IndividualRuns {
			key := run.Model + "|" + run.PromptVariant
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], run)
		}
	}

	comparison := make([]ComparisonResult, 0, len(groups))
	for _, key := range order {
		runs := groups[key]
		var scores, successRates, durations sample
		for _, run := range runs {
			scores = append(scores, run.AverageScore)
			successRates = append(successRates, run.SuccessRate)
			durations = append(durations, run.TotalDuration.Seconds())
		}

		comparison = append(comparison, ComparisonResult{
			Model:         runs[0].Model,
			PromptVariant: runs[0].PromptVariant,
			Runs:          len(runs),
			AvgScore:      scores.mean(),
			StdDev:        scores.stdDev(),
			SuccessRate:   successRates.mean(),
			AvgDuration:   durations.mean(),
		})
	}

	sort.SliceStable(comparison, func(i, j int) bool {
		return comparison[i].AvgScore > comparison[j].AvgScore
	})
	return comparison
}

// CompareResults prints the ranking of every saved evaluation in resultsDir.
func CompareResults(w io.Writer, resultsDir string) error {
	results, err := NewResultsManager(resultsDir).LoadEvaluationResults()
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No evaluation results found in", resultsDir)
		return nil
	}

	comparison := Compare(results)
	fmt.Fprintf(w, "\n=== Evaluation Comparison ===\n")
	fmt.Fprintf(w, "Found %d evaluation results\n\n", len(results))
	fmt.Fprintln(w, "Rank | Model | Prompt | Score | Success | Duration | Runs")
	fmt.Fprintln(w, "-----|-------|--------|-------|---------|----------|-----")

	for i, r := range comparison {
		stdDevStr := ""
		if r.Runs > 1 {
			stdDevStr = fmt.Sprintf(" (±%.2f)", r.StdDev)
		}
		fmt.Fprintf(w, "%4d | %s | %s | %.2f%s | %.1f%% | %.2fs | %d\n",
			i+1, r.Model, r.PromptVariant, r.AvgScore, stdDevStr, r.SuccessRate, r.AvgDuration, r.Runs)
	}
	return nil
}

func fileSafe(s string) string {
	return strings.NewReplacer("/", "-", ":", "-", " ", "_").Replace(s)
}
