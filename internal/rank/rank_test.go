package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/runger/grimoire/internal/desktop"
	"github.com/runger/grimoire/internal/frecency"
)

func names(items []desktop.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestSort_FrecencyThenName(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	items := []desktop.Item{
		{Name: "zathura", ID: "zathura"},
		{Name: "Alacritty", ID: "alacritty"},
		{Name: "firefox", ID: "firefox"},
		{Name: "btop", ID: "btop"},
		{Name: "Calculator", ID: "calc"},
	}
	fm := frecency.Map{
		"firefox": {Count: 10, Last: now.Unix()},
		"btop":    {Count: 10, Last: now.Unix() - 72*3600},
		"zathura": {Count: 1, Last: now.Unix()},
	}

	Sort(items, fm, now)
	assert.Equal(t, []string{"firefox", "btop", "zathura", "Alacritty", "Calculator"}, names(items))
}

func TestOrder_StableAndCaseInsensitive(t *testing.T) {
	items := []desktop.Item{
		{Name: "beta"},
		{Name: "Alpha"},
		{Name: "alpha"},
		{Name: "BETA"},
	}
	assert.Equal(t, []int{1, 2, 0, 3}, Order(items, nil, time.Now()))
}

func TestOrder_Empty(t *testing.T) {
	assert.Empty(t, Order(nil, frecency.Map{}, time.Now()))
}

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		haystack, needle string
		want             bool
	}{
		{"Firefox", "ffx", true},
		{"Firefox", "FFX", true},
		{"Firefox", "xff", false},
		{"Firefox", "", true},
		{"", "a", false},
		{"Visual Studio Code", "vsc", true},
		{"Visual Studio Code", "code vs", false},
		{"Émile", "émi", true},
		{"aa", "aaa", false},
	}
	for _, tt := range tests {
		t.Run(tt.haystack+"/"+tt.needle, func(t *testing.T) {
			assert.Equal(t, tt.want, FuzzyMatch(tt.haystack, tt.needle))
		})
	}
}

func TestFuzzyMatch_ExtendingNeedleNarrows(t *testing.T) {
	hay := []string{"Firefox", "Files", "Terminal", "Fractal", "GIMP"}
	needles := []string{"f", "fi", "fil", "file"}
	prev := len(hay)
	for _, n := range needles {
		count := 0
		for _, h := range hay {
			if FuzzyMatch(h, n) {
				count++
			}
		}
		assert.LessOrEqual(t, count, prev, "needle %q", n)
		prev = count
	}
}

func TestMatcher_Filter(t *testing.T) {
	items := []desktop.Item{
		{Name: "Firefox", Comment: "Web Browser"},
		{Name: "Files", Comment: "Access and organize files"},
		{Name: "Terminal", Comment: "Use the command line"},
	}

	tests := []struct {
		name    string
		matcher Matcher
		query   string
		want    []int
	}{
		{"empty query lists all", Matcher{}, "", []int{0, 1, 2}},
		{"name match keeps order", Matcher{}, "fi", []int{0, 1}},
		{"comment ignored by default", Matcher{}, "web", []int{}},
		{"comment searched when enabled", Matcher{SearchComments: true}, "web", []int{0}},
		{"no match", Matcher{SearchComments: true}, "zzz", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.matcher.Filter(items, tt.query))
		})
	}
}

func launcherFixture(now time.Time) ([]desktop.Item, frecency.Map) {
	items := []desktop.Item{
		{Name: "Firefox", Comment: "Web Browser", ID: "firefox"},
		{Name: "Files", Comment: "Access and organize files", ID: "org.gnome.Nautilus"},
		{Name: "Terminal", Comment: "Use the command line", ID: "org.gnome.Terminal"},
		{Name: "foot", Comment: "Wayland terminal emulator", ID: "foot"},
		{Name: "Fractal", Comment: "Matrix group messaging", ID: "org.gnome.Fractal"},
		{Name: "GIMP", Comment: "Image editor", ID: "gimp"},
		{Name: "gnome-calculator", ID: "org.gnome.Calculator"},
		{Name: "htop", Comment: "Process viewer", ID: "htop"},
		{Name: "Thunderbird", Comment: "Read mail", ID: "thunderbird"},
	}
	fm := frecency.Map{
		"firefox":            {Count: 12, Last: now.Unix() - 3600},
		"foot":               {Count: 12, Last: now.Unix() - 3600},
		"htop":               {Count: 3, Last: now.Unix()},
		"org.gnome.Terminal": {Count: 3, Last: now.Unix() - 48*3600},
		"gimp":               {Count: 1, Last: now.Unix() + 3600},
	}
	return items, fm
}

func TestOrder_Deterministic(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	items, fm := launcherFixture(now)

	first := Order(items, fm, now)
	want := make([]string, len(first))
	for j, idx := range first {
		want[j] = items[idx].Name
	}
	assert.Equal(t, []string{
		"Firefox", "foot", "htop", "Terminal", "GIMP", "Files", "Fractal", "gnome-calculator", "Thunderbird",
	}, want)

	for shift := range items {
		assert.Equal(t, first, Order(items, fm, now), "repeat %d", shift)

		// Names are distinct, so the result does not depend on input order.
		rotated := append(append([]desktop.Item{}, items[shift:]...), items[:shift]...)
		Sort(rotated, fm, now)
		assert.Equal(t, want, names(rotated), "rotation %d", shift)
	}
}

func TestMatcher_FilterKeepsRankingOrder(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	items, fm := launcherFixture(now)
	Sort(items, fm, now)

	queries := []string{"", "f", "fi", "FI", "te", "t", "o", "gn", "xyz", "ile", "e r"}
	for _, m := range []Matcher{{}, {SearchComments: true}} {
		for _, q := range queries {
			filtered := m.Filter(items, q)

			seen := make(map[int]bool, len(filtered))
			for k, idx := range filtered {
				assert.False(t, seen[idx], "query %q: index %d repeated", q, idx)
				seen[idx] = true
				if k > 0 {
					assert.Less(t, filtered[k-1], idx, "query %q: order differs from ranking", q)
				}
				it := items[idx]
				assert.True(t, FuzzyMatch(it.Name, q) || (m.SearchComments && FuzzyMatch(it.Comment, q)),
					"query %q: %q does not match", q, it.Name)
			}
			for idx, it := range items {
				if seen[idx] {
					continue
				}
				matches := FuzzyMatch(it.Name, q) || (m.SearchComments && FuzzyMatch(it.Comment, q))
				assert.False(t, matches, "query %q: %q matches but was filtered out", q, it.Name)
			}
			if q == "" {
				assert.Len(t, filtered, len(items))
			}
		}
	}
}
