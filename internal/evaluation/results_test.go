package evaluation

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agusespa/javatutor/internal/types"
)

func TestNewResultsManager(t *testing.T) {
	rm := NewResultsManager("/test/dir")

	if rm.resultsDir != "/test/dir" {
		t.Errorf("Expected resultsDir to be '/test/dir', got '%s'", rm.resultsDir)
	}
}

func TestSaveEvaluationResults_SingleRun(t *testing.T) {
	tempDir := t.TempDir()
	rm := NewResultsManager(tempDir)

	result := &types.EvaluationResult{
		Model:         "qwen2.5-coder:7b",
		PromptVariant: "java",
		TotalRuns:     1,
		StartTime:     time.Unix(1234567890, 0),
		IndividualRuns: []types.EvaluationRun{
			{Model: "qwen2.5-coder:7b", PromptVariant: "java"},
		},
	}

	path, err := rm.SaveEvaluationResults(result)
	if err != nil {
		t.Fatalf("SaveEvaluationResults() failed: %v", err)
	}

	expected := filepath.Join(tempDir, "eval_qwen2.5-coder-7b_java_1234567890.json")
	if path != expected {
		t.Errorf("Expected path %s, got %s", expected, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected results file to exist: %v", err)
	}
}

func TestSaveEvaluationResults_MultipleRuns(t *testing.T) {
	tempDir := t.TempDir()
	rm := NewResultsManager(filepath.Join(tempDir, "nested"))

	result := &types.EvaluationResult{
		Model:          "moonshot-v1-8k",
		PromptVariant:  "java-basic",
		TotalRuns:      3,
		StartTime:      time.Unix(1234567890, 0),
		IndividualRuns: []types.EvaluationRun{{}, {}, {}},
	}

	path, err := rm.SaveEvaluationResults(result)
	if err != nil {
		t.Fatalf("SaveEvaluationResults() failed: %v", err)
	}
	if filepath.Base(path) != "eval_moonshot-v1-8k_java-basic_3runs_1234567890.json" {
		t.Errorf("Unexpected file name %s", filepath.Base(path))
	}
}

func TestLoadAndCompareResults(t *testing.T) {
	tempDir := t.TempDir()
	rm := NewResultsManager(tempDir)

	save := func(model, prompt string, scores ...float64) {
		result := &types.EvaluationResult{
			Model:         model,
			PromptVariant: prompt,
			TotalRuns:     len(scores),
			StartTime:     time.Unix(int64(1000+len(model)+len(prompt)), 0),
		}
		for _, s := range scores {
			result.IndividualRuns = append(result.IndividualRuns, types.EvaluationRun{
				Model:         model,
				PromptVariant: prompt,
				AverageScore:  s,
				SuccessRate:   100,
				TotalDuration: time.Second,
			})
		}
		if _, err := rm.SaveEvaluationResults(result); err != nil {
			t.Fatalf("SaveEvaluationResults() failed: %v", err)
		}
	}
	save("moonshot-v1-8k", "java", 0.9, 0.7)
	save("llama3.1:8b", "java-basic", 0.4)

	results, err := rm.LoadEvaluationResults()
	if err != nil {
		t.Fatalf("LoadEvaluationResults() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	comparison := Compare(results)
	if len(comparison) != 2 {
		t.Fatalf("Expected 2 comparison rows, got %d", len(comparison))
	}
	if comparison[0].Model != "moonshot-v1-8k" || comparison[0].Runs != 2 {
		t.Errorf("Expected moonshot with 2 runs first, got %+v", comparison[0])
	}
	if diff := comparison[0].AvgScore - 0.8; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected average 0.8, got %.4f", comparison[0].AvgScore)
	}

	var out bytes.Buffer
	if err := CompareResults(&out, tempDir); err != nil {
		t.Fatalf("CompareResults() failed: %v", err)
	}
	lines := strings.Split(out.String(), "\n")
	var ranked []string
	for _, line := range lines {
		if strings.Contains(line, " | ") && !strings.HasPrefix(line, "Rank") && !strings.HasPrefix(line, "-") {
			ranked = append(ranked, line)
		}
	}
	if len(ranked) != 2 || !strings.Contains(ranked[0], "moonshot-v1-8k") || !strings.Contains(ranked[1], "llama3.1:8b") {
		t.Errorf("Unexpected ranking:\n%s", out.String())
	}
}

func TestCompareResults_Empty(t *testing.T) {
	var out bytes.Buffer
	if err := CompareResults(&out, t.TempDir()); err != nil {
		t.Fatalf("CompareResults() failed: %v", err)
	}
	if !strings.Contains(out.String(), "No evaluation results found") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestLoadEvaluationResults_NoRuns(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "empty.json"), []byte(`{"model":"m"}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewResultsManager(tempDir).LoadEvaluationResults(); err == nil {
		t.Error("Expected error for a result without runs")
	}
}
