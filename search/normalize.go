// Package search implements the terminology resolution core: lexical lookup
// over the plain per-system datasets, weighted relevance scoring over the
// enhanced condition corpus, cross-system mapping against ICD-11 entities and
// the guided clarifying-question loop.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes characters and drops combining marks, so
// "jvaraḥ" and "jvarah" normalize to the same key.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases, trims and strips diacritics from a term so queries
// match regardless of transliteration style.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}
