package recipe

import "strings"

// Normalize lower-cases and trims a single token.
func Normalize(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

// Tokenize splits free text on whitespace into lower-cased tokens.
// Indexing and querying share it so both sides agree on token boundaries.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}
