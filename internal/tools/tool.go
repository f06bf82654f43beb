package tools

import (
	"fmt"
	"io"
)

type Tool interface {
	Name() string
	Description() string
	Execute(args map[string]any) (any, error)
}

type ToolName string

const (
	ToolNameReadFile  ToolName = "read_file"
	ToolNameWriteFile ToolName = "write_file"
)

type Registry struct {
	tools map[ToolName]Tool
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[ToolName]Tool),
	}
}

// NewFileRegistry returns a registry with the file tools. The read tool takes
// "-" from stdin.
func NewFileRegistry(stdin io.Reader) *Registry {
	r := NewRegistry()
	r.Register(ToolNameReadFile, &ReadFileTool{Stdin: stdin})
	r.Register(ToolNameWriteFile, &WriteFileTool{})
	return r
}

func (r *Registry) Register(name ToolName, tool Tool) {
	r.tools[name] = tool
}

func (r *Registry) Get(name ToolName) Tool {
	tool, exists := r.tools[name]
	if !exists {
		panic(fmt.Sprintf("BUG: Requested tool '%s' not found in Registry", name))
	}
	return tool
}

func (r *Registry) List() map[ToolName]Tool {
	list := make(map[ToolName]Tool, len(r.tools))
	for name, tool := range r.tools {
		list[name] = tool
	}
	return list
}
