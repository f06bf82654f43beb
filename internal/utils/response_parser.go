package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agusespa/javatutor/internal/types"
)

var controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]`)

// ParseReport extracts the diagnostic report from a model reply. Fields the
// reply omits or leaves empty keep their defaults: the sentinel, or the
// submitted source for the rewritten code.
func ParseReport(raw string, schema types.Schema, source string) (*types.DiagnosticReport, error) {
	clean := StripControlChars(raw)

	fields, err := extractObject(clean)
	if err != nil {
		return nil, &MalformedResponseError{
			Response: truncateString(clean, 500),
			Reason:   err.Error(),
		}
	}

	report := types.NewDiagnosticReport(schema, source)
	for _, f := range schema.Fields {
		v, ok := fields[string(f)]
		if !ok {
			continue
		}
		text := valueText(v)
		if strings.TrimSpace(text) == "" {
			continue
		}
		report.Set(f, text)
	}
	return report, nil
}

type MalformedResponseError struct {
	Response string
	Reason   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %s. Response: %s", e.Reason, e.Response)
}

func IsMalformedResponse(err error) bool {
	var target *MalformedResponseError
	return errors.As(err, &target)
}

// StripControlChars removes ASCII control characters, newlines included, and
// trims the result.
func StripControlChars(raw string) string {
	return strings.TrimSpace(controlChars.ReplaceAllString(raw, ""))
}

// DirectObject returns s when the whole text looks like one object.
func DirectObject(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return s, true
	}
	return "", false
}

// BraceSpan returns the text from the first '{' to the last '}'.
func BraceSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// BalancedSpan returns the first brace-balanced object in s, ignoring braces
// inside string literals.
func BalancedSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}

		if char == '\\' {
			escaped = true
			continue
		}

		if char == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}
		switch char {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// DecodeLenient decodes obj as a JSON object and falls back to a YAML flow
// mapping, which also takes unquoted words and single quotes. Bare NaN and
// Infinity literals are quoted first so both decoders keep them as text.
func DecodeLenient(obj string) (map[string]any, error) {
	obj = QuoteNonFinite(obj)

	var fields map[string]any
	jsonErr := json.Unmarshal([]byte(obj), &fields)
	if jsonErr == nil && fields != nil {
		return fields, nil
	}

	fields = nil
	if err := yaml.Unmarshal([]byte(obj), &fields); err != nil || fields == nil {
		if jsonErr == nil {
			jsonErr = errors.New("not an object")
		}
		return nil, fmt.Errorf("decode object: %w", jsonErr)
	}
	return fields, nil
}

var nonFinite = []string{"-Infinity", "Infinity", "NaN"}

// QuoteNonFinite wraps the NaN, Infinity and -Infinity literals that appear
// outside double-quoted strings in quotes. Words that merely contain them
// are left alone.
func QuoteNonFinite(obj string) string {
	var b strings.Builder
	inString, escaped := false, false
	for i := 0; i < len(obj); i++ {
		c := obj[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if lit := nonFiniteAt(obj, i); lit != "" {
			b.WriteString(strconv.Quote(lit))
			i += len(lit) - 1
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func nonFiniteAt(s string, i int) string {
	if i > 0 && isWordByte(s[i-1]) {
		return ""
	}
	for _, lit := range nonFinite {
		end := i + len(lit)
		if strings.HasPrefix(s[i:], lit) && (end == len(s) || !isWordByte(s[end])) {
			return lit
		}
	}
	return ""
}

// isWordByte treats every non-ASCII byte as part of a word, so literals
// glued to CJK text stay untouched.
func isWordByte(c byte) bool {
	return c == '_' || c == '-' || c >= 0x80 ||
		('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func extractObject(clean string) (map[string]any, error) {
	var candidates []string
	if obj, ok := DirectObject(clean); ok {
		candidates = append(candidates, obj)
	}
	if obj, ok := BraceSpan(clean); ok {
		candidates = append(candidates, obj)
	}
	if obj, ok := BalancedSpan(clean); ok {
		candidates = append(candidates, obj)
	}
	if len(candidates) == 0 {
		return nil, errors.New("no JSON object found")
	}

	var lastErr error
	for _, c := range candidates {
		fields, err := DecodeLenient(c)
		if err == nil {
			return fields, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func valueText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if text := valueText(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}

// UnescapeCode turns literal \n and \t sequences into real newlines and tabs.
// Models sometimes double-escape the rewritten code.
func UnescapeCode(code string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(code)
}

var itemNumber = regexp.MustCompile(`\d+\.`)

// SplitErrorList splits a numbered error list ("1. ... 2. ...") into items.
func SplitErrorList(list string) []string {
	var items []string
	for _, part := range itemNumber.Split(list, -1) {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
