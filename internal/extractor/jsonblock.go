package extractor

import "strings"

// ExtractJSON slices from the first '{' to the last '}' after it. Text with
// no such span is returned unchanged so the parse step fails on it.
func ExtractJSON(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return text
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		return text
	}
	return text[start : end+1]
}
