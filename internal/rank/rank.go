// Package rank orders items by frecency and filters them against the
// search query.
package rank

import (
	"sort"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/runger/grimoire/internal/desktop"
	"github.com/runger/grimoire/internal/frecency"
)

// lower folds s for case-insensitive comparison. A Caser holds state, so
// each call gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Order returns the permutation that sorts items by frecency score
// descending, then by case-insensitive name ascending. Items without a
// frecency entry score 0. Equal keys keep their input order.
func Order(items []desktop.Item, fm frecency.Map, now time.Time) []int {
	type key struct {
		score float64
		name  string
	}
	keys := make([]key, len(items))
	perm := make([]int, len(items))
	for i, it := range items {
		keys[i] = key{score: fm.Score(it.ID, now), name: lower(it.Name)}
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ka, kb := keys[perm[a]], keys[perm[b]]
		if ka.score != kb.score {
			return ka.score > kb.score
		}
		return ka.name < kb.name
	})
	return perm
}

// Sort reorders items in place by Order.
func Sort(items []desktop.Item, fm frecency.Map, now time.Time) {
	perm := Order(items, fm, now)
	sorted := make([]desktop.Item, len(items))
	for i, p := range perm {
		sorted[i] = items[p]
	}
	copy(items, sorted)
}

// FuzzyMatch reports whether every rune of needle appears in haystack in
// order, ignoring case. An empty needle matches everything.
func FuzzyMatch(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return subsequence([]rune(lower(haystack)), []rune(lower(needle)))
}

func subsequence(h, n []rune) bool {
	j := 0
	for _, r := range h {
		if j == len(n) {
			break
		}
		if r == n[j] {
			j++
		}
	}
	return j == len(n)
}

// Matcher builds the filtered view shown in the grid.
type Matcher struct {
	SearchComments bool
}

// Filter returns the indices of items matching query in their original
// order. An empty query yields every index.
func (m Matcher) Filter(items []desktop.Item, query string) []int {
	out := make([]int, 0, len(items))
	if query == "" {
		for i := range items {
			out = append(out, i)
		}
		return out
	}
	needle := []rune(lower(query))
	for i, it := range items {
		if subsequence([]rune(lower(it.Name)), needle) ||
			(m.SearchComments && subsequence([]rune(lower(it.Comment)), needle)) {
			out = append(out, i)
		}
	}
	return out
}
