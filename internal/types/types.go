package types

import "fmt"

// Variant selects a checker pipeline: prompt, report schema and knowledge table.
type Variant string

const (
	VariantJava    Variant = "java"
	VariantJavaWeb Variant = "javaweb"
)

var SupportedVariants = []Variant{VariantJava, VariantJavaWeb}

func ParseVariant(s string) (Variant, error) {
	for _, v := range SupportedVariants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unsupported variant: %q (expected one of %v)", s, SupportedVariants)
}
