// Package frecency tracks how often and how recently each launchable item
// was used, and turns that into a ranking score.
package frecency

import (
	"context"
	"math"
	"time"
)

// HalfLifeHours is the decay constant: an entry used 72 hours ago scores
// half of one used just now.
const HalfLifeHours = 72.0

// Entry is the usage record of one item.
type Entry struct {
	Count uint32 `toml:"count"`
	Last  int64  `toml:"last"` // unix seconds
}

// Map holds entries keyed by item ID (the desktop file stem).
type Map map[string]Entry

// Score returns count / (1 + hours since last use / 72). A Last in the
// future counts as zero elapsed hours.
func Score(e Entry, now time.Time) float64 {
	elapsed := now.Unix() - e.Last
	if elapsed < 0 {
		elapsed = 0
	}
	hours := float64(elapsed) / 3600
	return float64(e.Count) / (1 + hours/HalfLifeHours)
}

// Score returns the score for id, or 0 when the map has no entry.
func (m Map) Score(id string, now time.Time) float64 {
	e, ok := m[id]
	if !ok {
		return 0
	}
	return Score(e, now)
}

// Touch records one use of id at now. Empty IDs are ignored.
func (m Map) Touch(id string, now time.Time) {
	if id == "" {
		return
	}
	e := m[id]
	if e.Count < math.MaxUint32 {
		e.Count++
	}
	e.Last = now.Unix()
	m[id] = e
}

// Forget removes id and reports whether it was present.
func (m Map) Forget(id string) bool {
	_, ok := m[id]
	delete(m, id)
	return ok
}

// Store persists a Map. Save replaces the stored state with m.
type Store interface {
	Load(ctx context.Context) (Map, error)
	Save(ctx context.Context, m Map) error
	Close() error
}
