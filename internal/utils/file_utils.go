package utils

import (
	"path/filepath"
	"strings"

	"github.com/agusespa/javatutor/internal/types"
)

var webMarkers = []string{
	"javax.servlet",
	"jakarta.servlet",
	"@WebServlet",
	"HttpServlet",
	"<%@",
	"<jsp:",
}

// DetectVariant picks the exercise variant for a submission. JSP files and
// servlet code are JavaWeb; everything else is plain Java.
func DetectVariant(path, source string) types.Variant {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsp", ".jspx":
		return types.VariantJavaWeb
	}

	for _, marker := range webMarkers {
		if strings.Contains(source, marker) {
			return types.VariantJavaWeb
		}
	}
	return types.VariantJava
}

// SubmissionName is the file name shown in diffs for a submission read from
// path, or from stdin when path is "" or "-".
func SubmissionName(path string, variant types.Variant) string {
	if path != "" && path != "-" {
		return filepath.Base(path)
	}
	if variant == types.VariantJavaWeb {
		return "Servlet.java"
	}
	return "Main.java"
}
