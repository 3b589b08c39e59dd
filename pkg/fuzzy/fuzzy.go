// Package fuzzy implements typo-tolerant matching for recipe search.
package fuzzy

import (
	"strings"

	recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"
)

// LevenshteinDistance returns the number of single-character edits
// (insertions, deletions, substitutions) needed to turn s1 into s2.
func LevenshteinDistance(s1, s2 string) int {
	s1 = normalize(s1)
	s2 = normalize(s2)

	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}
	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			d[i][j] = min3(
				d[i-1][j]+1,
				d[i][j-1]+1,
				d[i-1][j-1]+cost,
			)
		}
	}

	return d[m][n]
}

// Match reports whether query fuzzy-matches text. threshold is the
// maximum edit distance allowed against any single word of text;
// substring and prefix hits always match.
func Match(query, text string, threshold int) bool {
	query = normalize(query)
	text = normalize(text)

	if query == "" {
		return true
	}
	if strings.Contains(text, query) {
		return true
	}

	for _, word := range strings.Fields(text) {
		if LevenshteinDistance(query, word) <= threshold {
			return true
		}
		if strings.HasPrefix(word, query) {
			return true
		}
	}
	return false
}

// MatchRecipe reports whether the recipe matches the query. Title, tags
// and ingredients are searched; the memory text is searched last since
// it tends to be long.
func MatchRecipe(query string, r *recipedomain.Recipe) bool {
	threshold := 2
	if len(query) <= 3 {
		threshold = 1
	} else if len(query) >= 8 {
		threshold = 3
	}

	if Match(query, r.Title, threshold) {
		return true
	}
	for _, tag := range r.Tags {
		if Match(query, tag, threshold) {
			return true
		}
	}
	for _, ing := range r.Ingredients {
		if Match(query, ing, threshold) {
			return true
		}
	}
	return Match(query, r.Memory, threshold)
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// normalize lowercases and collapses whitespace.
func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
