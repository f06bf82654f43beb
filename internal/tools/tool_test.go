package tools

import (
	"strings"
	"testing"
)

type mockTool struct {
	name        string
	description string
	result      string
	err         error
}

func (m *mockTool) Name() string {
	return m.name
}

func (m *mockTool) Description() string {
	return m.description
}

func (m *mockTool) Execute(args map[string]any) (any, error) {
	return m.result, m.err
}

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()

	if registry == nil {
		t.Fatal("Expected registry to be created")
	}
	if len(registry.tools) != 0 {
		t.Error("Expected empty registry initially")
	}
}

func TestNewFileRegistry(t *testing.T) {
	registry := NewFileRegistry(strings.NewReader("x"))

	if registry.Get(ToolNameReadFile).Name() != "read_file" {
		t.Error("Expected read tool to be registered")
	}
	if registry.Get(ToolNameWriteFile).Name() != "write_file" {
		t.Error("Expected write tool to be registered")
	}
}

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry()
	tool := &mockTool{
		name:        "test_tool",
		description: "A test tool",
	}

	const existentToolName ToolName = "existent_tool"
	const nonexistentToolName ToolName = "nonexistent_tool"

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when getting a non-existent tool, but did not panic")
			}
		}()
		registry.Get(nonexistentToolName)
	}()

	registry.Register(existentToolName, tool)
	retrievedTool := registry.Get(existentToolName)

	if retrievedTool != tool {
		t.Error("Expected retrieved tool to match registered tool")
	}
}

func TestRegistry_List(t *testing.T) {
	registry := NewRegistry()
	tool1 := &mockTool{name: "tool1", description: "Tool 1"}
	tool2 := &mockTool{name: "tool2", description: "Tool 2"}

	const tool1Name ToolName = "tool1"
	const tool2Name ToolName = "tool2"

	tools := registry.List()
	if len(tools) != 0 {
		t.Errorf("Expected 0 tools, got %d", len(tools))
	}

	registry.Register(tool1Name, tool1)
	registry.Register(tool2Name, tool2)

	tools = registry.List()
	if len(tools) != 2 {
		t.Errorf("Expected 2 tools, got %d", len(tools))
	}

	if tools[tool1Name] != tool1 {
		t.Error("Expected tool1 to be in list")
	}
	if tools[tool2Name] != tool2 {
		t.Error("Expected tool2 to be in list")
	}
}

func TestRegistry_RegisterOverwrite(t *testing.T) {
	registry := NewRegistry()
	tool1 := &mockTool{name: "test_tool", description: "Tool 1"}
	tool2 := &mockTool{name: "test_tool", description: "Tool 2"}

	const testToolName ToolName = "test_tool"

	registry.Register(testToolName, tool1)
	registry.Register(testToolName, tool2)

	if registry.Get(testToolName) != tool2 {
		t.Error("Expected retrieved tool to be the second tool (overwritten)")
	}
	if len(registry.tools) != 1 {
		t.Errorf("Expected 1 tool in registry, got %d", len(registry.tools))
	}
}
