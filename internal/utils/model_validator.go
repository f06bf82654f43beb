package utils

import (
	"fmt"
	"slices"
)

// ProblematicModels ignore JSON mode and reply in prose.
var ProblematicModels = []string{
	"codellama:13b",
	"codestral",
	"moonshot-v1-auto",
}

var ApprovedModels = []string{
	"moonshot-v1-8k",
	"moonshot-v1-32k",
	"kimi-latest",
	"qwen2.5-coder:14b",
	"qwen2.5-coder:7b",
	"llama3.1:8b",
	"gpt-4o-mini",
}

func ValidateModel(model string) error {
	if model == "" {
		return fmt.Errorf("model name is required")
	}
	if slices.Contains(ProblematicModels, model) {
		return fmt.Errorf("model '%s' has known issues and cannot be used", model)
	}
	return nil
}

// UntestedModelWarning returns a warning for models outside ApprovedModels,
// or "" for approved ones.
func UntestedModelWarning(model string) string {
	if slices.Contains(ApprovedModels, model) {
		return ""
	}
	return fmt.Sprintf("model '%s' is not tested. You may experience unexpected results", model)
}
