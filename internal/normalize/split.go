package normalize

import "strings"

// Delimiters used by the upstream tables when a list is stored in a single text column.
const (
	DelimComma          = ","
	DelimSlash          = "/"
	DelimFullWidthSpace = "　"
)

// SplitList splits s on sep and returns the trimmed, non-empty segments in order.
// A nil or blank input yields an empty, non-nil slice.
func SplitList(s *string, sep string) []string {
	if s == nil {
		return []string{}
	}
	return SplitString(*s, sep)
}

// SplitString is SplitList for a plain string.
func SplitString(s, sep string) []string {
	out := []string{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitPositional keeps empty segments so parallel columns stay aligned by index.
func splitPositional(s *string, sep string) []string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	parts := strings.Split(*s, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
