package evaluation

import (
	"fmt"
	"path/filepath"

	"github.com/agusespa/javatutor/internal/tools"
	"github.com/agusespa/javatutor/internal/types"
	"github.com/agusespa/javatutor/internal/utils"
)

// Submission is a test case's source, ready to check.
type Submission struct {
	Name    string
	Source  string
	Variant types.Variant
}

// SubmissionLoader reads test case sources relative to the suite's base dir.
type SubmissionLoader struct {
	baseDir  string
	readTool tools.Tool
}

func NewSubmissionLoader(baseDir string) *SubmissionLoader {
	return &SubmissionLoader{
		baseDir:  baseDir,
		readTool: &tools.ReadFileTool{},
	}
}

// Load reads the test case source. A test case without a variant gets the
// one detected from its file name and content.
func (l *SubmissionLoader) Load(tc types.TestCase) (*Submission, error) {
	path := filepath.Join(l.baseDir, tc.SourceFile)
	out, err := l.readTool.Execute(map[string]any{"filename": path})
	if err != nil {
		return nil, fmt.Errorf("failed to load source for %s: %w", tc.Name, err)
	}
	source := out.(string)

	variant := utils.DetectVariant(tc.SourceFile, source)
	if tc.Variant != "" {
		if variant, err = types.ParseVariant(tc.Variant); err != nil {
			return nil, err
		}
	}

	return &Submission{
		Name:    filepath.Base(tc.SourceFile),
		Source:  source,
		Variant: variant,
	}, nil
}
