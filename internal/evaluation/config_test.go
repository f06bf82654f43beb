package evaluation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agusespa/javatutor/internal/types"
)

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestLoadConfigs(t *testing.T) {
	tempDir := t.TempDir()

	configs := []types.EvaluationConfig{
		{
			Key:       "moonshot",
			Provider:  "openai",
			BaseURL:   "https://api.moonshot.cn/v1",
			APIKeyEnv: "MOONSHOT_API_KEY",
			Models:    []string{"moonshot-v1-8k", "moonshot-v1-32k"},
			Prompts:   []string{"java", "java-basic"},
			Runs:      3,
		},
	}
	path := filepath.Join(tempDir, "eval_configs.json")
	writeJSON(t, path, configs)

	loaded, err := LoadConfigs(path)
	if err != nil {
		t.Fatalf("LoadConfigs() failed: %v", err)
	}

	if len(loaded) != 1 {
		t.Fatalf("Expected 1 config, got %d", len(loaded))
	}
	if loaded[0].Key != "moonshot" || loaded[0].APIKeyEnv != "MOONSHOT_API_KEY" {
		t.Errorf("Unexpected config: %+v", loaded[0])
	}
	if len(loaded[0].Models) != 2 {
		t.Errorf("Expected 2 models, got %d", len(loaded[0].Models))
	}
}

func TestLoadConfigs_Errors(t *testing.T) {
	tempDir := t.TempDir()

	if _, err := LoadConfigs(filepath.Join(tempDir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(tempDir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigs(bad); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  types.EvaluationConfig
		wantErr string
	}{
		{
			name:   "valid",
			config: types.EvaluationConfig{Key: "k", Provider: "ollama", Models: []string{"llama3.1:8b"}},
		},
		{
			name:    "missing key",
			config:  types.EvaluationConfig{Provider: "ollama", Models: []string{"m"}},
			wantErr: "'key'",
		},
		{
			name:    "missing provider",
			config:  types.EvaluationConfig{Key: "k", Models: []string{"m"}},
			wantErr: "'provider'",
		},
		{
			name:    "unsupported provider",
			config:  types.EvaluationConfig{Key: "k", Provider: "gemini", Models: []string{"m"}},
			wantErr: "unsupported provider",
		},
		{
			name:    "missing models",
			config:  types.EvaluationConfig{Key: "k", Provider: "openai"},
			wantErr: "'models'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.config)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateConfigs(t *testing.T) {
	if err := ValidateConfigs(nil); err == nil {
		t.Error("Expected error for empty configs")
	}

	valid := types.EvaluationConfig{Key: "a", Provider: "ollama", Models: []string{"m"}}
	if err := ValidateConfigs([]types.EvaluationConfig{valid}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	err := ValidateConfigs([]types.EvaluationConfig{valid, valid})
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("Expected duplicate key error, got %v", err)
	}
}

func TestFilterByKey(t *testing.T) {
	configs := []types.EvaluationConfig{{Key: "a"}, {Key: "b"}, {Key: "a"}}

	if got := FilterByKey(configs, ""); len(got) != 3 {
		t.Errorf("Expected all configs for empty key, got %d", len(got))
	}
	if got := FilterByKey(configs, "a"); len(got) != 2 {
		t.Errorf("Expected 2 configs for key a, got %d", len(got))
	}
	if got := FilterByKey(configs, "c"); len(got) != 0 {
		t.Errorf("Expected no configs for key c, got %d", len(got))
	}
}

func TestGetDefaultRuns(t *testing.T) {
	if got := GetDefaultRuns(types.EvaluationConfig{}); got != 1 {
		t.Errorf("Expected 1, got %d", got)
	}
	if got := GetDefaultRuns(types.EvaluationConfig{Runs: -2}); got != 1 {
		t.Errorf("Expected 1, got %d", got)
	}
	if got := GetDefaultRuns(types.EvaluationConfig{Runs: 5}); got != 5 {
		t.Errorf("Expected 5, got %d", got)
	}
}

func TestLoadSuite(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "test_suite.json")
	writeJSON(t, path, types.EvaluationSuite{
		BaseDir: "cases",
		TestCases: []types.TestCase{
			{Name: "array", Variant: "java", SourceFile: "array.java", Expected: types.ExpectedResults{ShouldFindIssues: true}},
		},
	})

	suite, err := LoadSuite(path)
	if err != nil {
		t.Fatalf("LoadSuite() failed: %v", err)
	}
	if suite.BaseDir != filepath.Join(tempDir, "cases") {
		t.Errorf("Expected base dir resolved against suite dir, got %s", suite.BaseDir)
	}
	if len(suite.TestCases) != 1 || suite.TestCases[0].Name != "array" {
		t.Errorf("Unexpected test cases: %+v", suite.TestCases)
	}
}

func TestLoadSuite_InvalidCases(t *testing.T) {
	tests := []struct {
		name     string
		testCase types.TestCase
		wantErr  string
	}{
		{"no name", types.TestCase{SourceFile: "a.java"}, "without a name"},
		{"no source", types.TestCase{Name: "a"}, "no source_file"},
		{"bad variant", types.TestCase{Name: "a", SourceFile: "a.java", Variant: "kotlin"}, "kotlin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "suite.json")
			writeJSON(t, path, types.EvaluationSuite{TestCases: []types.TestCase{tt.testCase}})

			_, err := LoadSuite(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
