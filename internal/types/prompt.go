package types

// PromptVariant is one system prompt and user template for an exercise
// variant.
type PromptVariant struct {
	Name        string
	Description string
	Variant     Variant
	System      string
	Template    string
	Temperature float64
}
