// Package dedupe merges place records from multiple providers into one
// candidate set, combining metadata for records judged to be the same
// physical place.
package dedupe

import (
	"regexp"
	"strings"
)

var (
	genericWordsRe = regexp.MustCompile(`(?i)\b(restaurant|cafe|bar|grill|kitchen|bistro|eatery)\b`)
	punctuationRe  = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// chainAlias maps a normalized name variation to its canonical chain
// token. Checked in order; containment is enough to canonicalize.
type chainAlias struct {
	variation string
	canonical string
}

var chainAliases = []chainAlias{
	{"mcdonalds", "mcdonalds"},
	{"mc donalds", "mcdonalds"},
	{"mcdonald s", "mcdonalds"},
	{"starbucks coffee", "starbucks"},
	{"starbucks", "starbucks"},
	{"subway sandwiches", "subway"},
	{"subway", "subway"},
	{"taco bell", "tacobell"},
	{"burger king", "burgerking"},
	{"pizza hut", "pizzahut"},
	{"dominos pizza", "dominos"},
	{"kentucky fried chicken", "kfc"},
	{"kfc", "kfc"},
}

// KnownChains lists the canonical chain tokens the geographic-diversity
// pass recognizes.
var KnownChains = []string{
	"mcdonalds", "starbucks", "subway", "tacobell",
	"burgerking", "pizzahut", "dominos", "kfc",
}

// NormalizeName canonicalizes a place name for fuzzy matching: generic
// establishment words are stripped as whole words, punctuation removed,
// whitespace collapsed, everything lowercased, and known chain variants
// mapped to one canonical token. Idempotent.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	n := genericWordsRe.ReplaceAllString(name, "")
	n = punctuationRe.ReplaceAllString(n, "")
	n = whitespaceRe.ReplaceAllString(n, " ")
	n = strings.ToLower(strings.TrimSpace(n))

	for _, a := range chainAliases {
		if strings.Contains(n, a.variation) {
			return a.canonical
		}
	}
	return n
}

// ChainToken returns the canonical chain token contained in the
// normalized name, or "" for an independent place.
func ChainToken(name string) string {
	normalized := NormalizeName(name)
	for _, chain := range KnownChains {
		if strings.Contains(normalized, chain) {
			return chain
		}
	}
	return ""
}

// Similarity returns the character-level sequence-similarity ratio of two
// strings: twice the number of matching characters over the total length,
// with matches found greedily on the longest common blocks.
func Similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	matches := matchingBlocks(a, b)
	return 2.0 * float64(matches) / float64(len(a)+len(b))
}

// matchingBlocks counts matched characters by locating the longest common
// substring and recursing into the unmatched regions on either side.
func matchingBlocks(a, b string) int {
	size, ai, bi := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingBlocks(a[:ai], b[:bi])
	total += matchingBlocks(a[ai+size:], b[bi+size:])
	return total
}

func longestCommonSubstring(a, b string) (size, ai, bi int) {
	// prev[j] holds the length of the common suffix of a[:i] and b[:j].
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > size {
					size = cur[j]
					ai = i - size
					bi = j - size
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return size, ai, bi
}
