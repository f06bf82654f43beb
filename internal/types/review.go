package types

import "strings"

// Sentinel is what the model writes when a field has no findings.
const Sentinel = "无"

// SentinelEN is accepted in place of Sentinel on input only.
const SentinelEN = "none"

// Field is a JSON key of the diagnostic report. The names are part of the
// contract between the system prompt and the parser.
type Field string

const (
	FieldCompileErrors Field = "编译错误"
	FieldLogicErrors   Field = "逻辑错误"
	FieldStyleIssues   Field = "风格问题"
	FieldErrorList     Field = "错误列表"
	FieldSuggestions   Field = "改进建议"
	FieldRewrittenCode Field = "重写代码"
)

// DiagnosticReport is the parsed critique of one submission. Fields never hold
// the empty string; absent findings are Sentinel.
type DiagnosticReport struct {
	CompileErrors string `json:"编译错误,omitempty"`
	LogicErrors   string `json:"逻辑错误,omitempty"`
	StyleIssues   string `json:"风格问题,omitempty"`
	ErrorList     string `json:"错误列表,omitempty"`
	Suggestions   string `json:"改进建议"`
	RewrittenCode string `json:"重写代码"`
}

func (r *DiagnosticReport) Get(f Field) string {
	switch f {
	case FieldCompileErrors:
		return r.CompileErrors
	case FieldLogicErrors:
		return r.LogicErrors
	case FieldStyleIssues:
		return r.StyleIssues
	case FieldErrorList:
		return r.ErrorList
	case FieldSuggestions:
		return r.Suggestions
	case FieldRewrittenCode:
		return r.RewrittenCode
	}
	return ""
}

func (r *DiagnosticReport) Set(f Field, value string) {
	switch f {
	case FieldCompileErrors:
		r.CompileErrors = value
	case FieldLogicErrors:
		r.LogicErrors = value
	case FieldStyleIssues:
		r.StyleIssues = value
	case FieldErrorList:
		r.ErrorList = value
	case FieldSuggestions:
		r.Suggestions = value
	case FieldRewrittenCode:
		r.RewrittenCode = value
	}
}

// IsSentinel reports whether s carries no findings.
func IsSentinel(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == Sentinel || strings.EqualFold(s, SentinelEN)
}

// Schema describes which report fields a variant's prompt asks for.
type Schema struct {
	Variant Variant
	// Fields are all keys read from the model reply, in display order.
	Fields []Field
	// Diagnostics are the fields fed to the classifier.
	Diagnostics []Field
	// Sections are the fields shown in the diagnosis panel.
	Sections []Field
}

var schemas = map[Variant]Schema{
	VariantJava: {
		Variant:     VariantJava,
		Fields:      []Field{FieldCompileErrors, FieldLogicErrors, FieldStyleIssues, FieldSuggestions, FieldRewrittenCode},
		Diagnostics: []Field{FieldCompileErrors, FieldLogicErrors},
		Sections:    []Field{FieldCompileErrors, FieldLogicErrors, FieldStyleIssues},
	},
	VariantJavaWeb: {
		Variant:     VariantJavaWeb,
		Fields:      []Field{FieldErrorList, FieldSuggestions, FieldRewrittenCode},
		Diagnostics: []Field{FieldErrorList},
		Sections:    []Field{FieldErrorList},
	},
}

// SchemaFor returns the report schema of v. It panics on an unknown variant;
// variants are validated when the configuration is loaded.
func SchemaFor(v Variant) Schema {
	s, ok := schemas[v]
	if !ok {
		panic("BUG: no report schema for variant " + string(v))
	}
	return s
}

// NewDiagnosticReport returns a report with every schema field set to its
// default. The rewritten code defaults to the submitted source.
func NewDiagnosticReport(schema Schema, source string) *DiagnosticReport {
	r := &DiagnosticReport{}
	for _, f := range schema.Fields {
		r.Set(f, Sentinel)
	}
	if strings.TrimSpace(source) != "" {
		r.RewrittenCode = source
	}
	return r
}

// DiagnosticTexts returns the classifier input of the report.
func (r *DiagnosticReport) DiagnosticTexts(schema Schema) []string {
	texts := make([]string, 0, len(schema.Diagnostics))
	for _, f := range schema.Diagnostics {
		texts = append(texts, r.Get(f))
	}
	return texts
}

// Clean reports whether every diagnostic field of the report is Sentinel.
func (r *DiagnosticReport) Clean(schema Schema) bool {
	for _, f := range schema.Diagnostics {
		if !IsSentinel(r.Get(f)) {
			return false
		}
	}
	return true
}
