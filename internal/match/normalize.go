package match

import (
	"strings"
	"unicode"
)

// Separator joins prefix segments in the display form of a column name.
const Separator = "."

// NormalizeColumn normalizes a column name into its lookup key: case-folded to
// lower with separators (_, -, ., spaces) stripped.
//
// "B_ID", "b.id" and "bId" all normalize to "bid".
func NormalizeColumn(s string) string {
	return stripSeparators(strings.ToLower(s))
}

// NormalizeColumnWithSuffixStrip normalizes and strips common suffixes.
// Only used for ranking suggestions; never for lookups.
func NormalizeColumnWithSuffixStrip(s string) string {
	normalized := NormalizeColumn(s)

	// Strip common suffixes (ordered from longer to shorter to avoid partial matches)
	suffixes := []string{"timestamp", "ids", "utc", "id", "at"}
	for _, suffix := range suffixes {
		if strings.HasSuffix(normalized, suffix) && len(normalized) > len(suffix) {
			normalized = strings.TrimSuffix(normalized, suffix)

			break
		}
	}

	return normalized
}

// JoinColumn builds the display form of a column from its prefix segments.
// Empty segments are skipped, so an empty prefix composes transparently:
// JoinColumn("", "b", "id") == "b.id".
func JoinColumn(parts ...string) string {
	var b strings.Builder

	for _, p := range parts {
		p = strings.Trim(p, Separator)
		if p == "" {
			continue
		}

		if b.Len() > 0 {
			b.WriteString(Separator)
		}

		b.WriteString(p)
	}

	return b.String()
}

// HasPrefix reports whether column lies under prefix once both are normalized.
// The prefix must end on a token boundary of the column, so "b" contains "B_ID"
// and "bSize" but not the sibling "bs.id". The empty prefix contains every column.
func HasPrefix(column, prefix string) bool {
	p := NormalizeColumn(prefix)
	if p == "" {
		return true
	}

	var joined strings.Builder
	for _, token := range TokenizeColumn(column) {
		joined.WriteString(token)

		if joined.Len() >= len(p) {
			return joined.String() == p
		}
	}

	return false
}

// EscapesScope reports whether a propagate-null key would leave the nested
// scope it is declared in: keys are plain column suffixes, never paths.
func EscapesScope(key string) bool {
	return strings.ContainsAny(key, Separator) || strings.TrimSpace(key) == ""
}

// tokenizeCamelCase splits a CamelCase or camelCase string into tokens.
// Examples:
//   - "OrderID" -> ["Order", "ID"]
//   - "additionalColumn" -> ["additional", "Column"]
//   - "c.additionalColumn" -> ["c", "additional", "Column"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i := range runes {
		r := runes[i]

		// Handle separators - start a new token
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i == 0 {
			current.WriteRune(r)

			continue
		}

		if shouldStartNewToken(runes, i) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prevRune := runes[i-1]
	isUpper := unicode.IsUpper(r)
	isPrevUpper := unicode.IsUpper(prevRune)
	isPrevSep := isSeparator(prevRune)

	// "orderID" -> split before 'I'
	if isUpper && !isPrevUpper && !isPrevSep {
		return true
	}

	// End of acronym: "XMLParser" -> "XML" + "Parser", split before 'P'
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
	if isUpper && isPrevUpper && hasNextLower {
		return true
	}

	return false
}

func stripSeparators(s string) string {
	var result strings.Builder

	result.Grow(len(s))

	for _, r := range s {
		if !isSeparator(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// TokenizeColumn splits a column name into normalized lowercase tokens.
func TokenizeColumn(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}
