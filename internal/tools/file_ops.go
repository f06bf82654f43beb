package tools

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MaxSubmissionBytes bounds what the read tool accepts. Student exercises are
// a few hundred lines at most.
const MaxSubmissionBytes = 256 << 10

type WriteFileTool struct{}

func (t *WriteFileTool) Name() string {
	return string(ToolNameWriteFile)
}

func (t *WriteFileTool) Description() string {
	return "Write content to a specified file"
}

func (t *WriteFileTool) Execute(args map[string]any) (any, error) {
	filename, ok := args["filename"].(string)
	if !ok || filename == "" {
		return "", fmt.Errorf("filename parameter required")
	}

	content, ok := args["content"].(string)
	if !ok {
		return "", fmt.Errorf("content parameter required")
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	err := os.WriteFile(filename, []byte(content), 0644)
	if err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("Successfully wrote %d bytes to %s", len(content), filename), nil
}

type ReadFileTool struct {
	// Stdin is read when filename is "-".
	Stdin io.Reader
}

func (t *ReadFileTool) Name() string {
	return string(ToolNameReadFile)
}

func (t *ReadFileTool) Description() string {
	return "Read a submission from a file or from stdin"
}

func (t *ReadFileTool) Execute(args map[string]any) (any, error) {
	filename, ok := args["filename"].(string)
	if !ok || filename == "" {
		return "", fmt.Errorf("filename parameter required")
	}

	var r io.Reader
	if filename == "-" {
		if t.Stdin == nil {
			return "", fmt.Errorf("no stdin available")
		}
		r = t.Stdin
	} else {
		f, err := os.Open(filename)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		defer f.Close()
		r = f
	}

	content, err := io.ReadAll(io.LimitReader(r, MaxSubmissionBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(content) > MaxSubmissionBytes {
		return "", fmt.Errorf("submission %s exceeds %d bytes", filename, MaxSubmissionBytes)
	}

	return string(content), nil
}
