package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agusespa/javatutor/internal/llm"
	"github.com/agusespa/javatutor/internal/types"
)

// LoadConfigs loads evaluation configurations from a JSON file
func LoadConfigs(path string) ([]types.EvaluationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at %s: %w", path, err)
	}

	var configs []types.EvaluationConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return configs, nil
}

// ValidateConfig validates a single evaluation configuration
func ValidateConfig(config types.EvaluationConfig) error {
	if config.Key == "" {
		return fmt.Errorf("missing required 'key' field")
	}
	if config.Provider == "" {
		return fmt.Errorf("missing required 'provider' field")
	}
	switch llm.ProviderType(config.Provider) {
	case llm.ProviderOpenAI, llm.ProviderOllama:
	default:
		return fmt.Errorf("config '%s': unsupported provider '%s'", config.Key, config.Provider)
	}
	if len(config.Models) == 0 {
		return fmt.Errorf("missing required 'models' field")
	}
	return nil
}

// ValidateConfigs validates multiple evaluation configurations
func ValidateConfigs(configs []types.EvaluationConfig) error {
	if len(configs) == 0 {
		return fmt.Errorf("no configurations found")
	}

	keys := make(map[string]bool)
	for _, config := range configs {
		if err := ValidateConfig(config); err != nil {
			return err
		}

		if keys[config.Key] {
			return fmt.Errorf("duplicate configuration key: %s", config.Key)
		}
		keys[config.Key] = true
	}

	return nil
}

// FilterByKey filters configurations by key, returns all if key is empty
func FilterByKey(configs []types.EvaluationConfig, key string) []types.EvaluationConfig {
	if key == "" {
		return configs
	}

	var filtered []types.EvaluationConfig
	for _, config := range configs {
		if config.Key == key {
			filtered = append(filtered, config)
		}
	}
	return filtered
}

// GetDefaultRuns returns the number of runs for a config, defaulting to 1 if not specified or invalid
func GetDefaultRuns(config types.EvaluationConfig) int {
	if config.Runs <= 0 {
		return 1
	}
	return config.Runs
}

// LoadSuite loads an evaluation suite from a JSON file. A relative base_dir
// is resolved against the suite file's directory.
func LoadSuite(path string) (*types.EvaluationSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file at %s: %w", path, err)
	}

	var suite types.EvaluationSuite
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse suite file %s: %w", path, err)
	}

	if !filepath.IsAbs(suite.BaseDir) {
		suite.BaseDir = filepath.Join(filepath.Dir(path), suite.BaseDir)
	}

	for _, tc := range suite.TestCases {
		if tc.Name == "" {
			return nil, fmt.Errorf("suite %s: test case without a name", path)
		}
		if tc.SourceFile == "" {
			return nil, fmt.Errorf("suite %s: test case '%s' has no source_file", path, tc.Name)
		}
		if tc.Variant != "" {
			if _, err := types.ParseVariant(tc.Variant); err != nil {
				return nil, fmt.Errorf("suite %s: test case '%s': %w", path, tc.Name, err)
			}
		}
	}

	return &suite, nil
}
