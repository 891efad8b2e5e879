package frecency

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tests := []struct {
		name  string
		entry Entry
		want  float64
	}{
		{"used just now", Entry{Count: 4, Last: now.Unix()}, 4},
		{"one half-life ago", Entry{Count: 4, Last: now.Unix() - 72*3600}, 2},
		{"two half-lives ago", Entry{Count: 3, Last: now.Unix() - 144*3600}, 1},
		{"last in the future", Entry{Count: 5, Last: now.Unix() + 3600}, 5},
		{"never counted", Entry{Count: 0, Last: now.Unix()}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.entry, now), 1e-9)
		})
	}
}

func TestScore_DecaysMonotonically(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	prev := math.Inf(1)
	for h := int64(0); h < 1000; h += 7 {
		s := Score(Entry{Count: 10, Last: now.Unix() - h*3600}, now)
		assert.Less(t, s, prev)
		prev = s
	}
}

func TestMap_Score(t *testing.T) {
	now := time.Unix(1000, 0)
	m := Map{"firefox": {Count: 2, Last: 1000}}
	assert.Equal(t, 2.0, m.Score("firefox", now))
	assert.Equal(t, 0.0, m.Score("missing", now))
	assert.Equal(t, 0.0, Map(nil).Score("firefox", now))
}

func TestMap_Touch(t *testing.T) {
	m := Map{}
	m.Touch("firefox", time.Unix(100, 0))
	m.Touch("firefox", time.Unix(200, 0))
	assert.Equal(t, Entry{Count: 2, Last: 200}, m["firefox"])

	m.Touch("", time.Unix(300, 0))
	assert.Len(t, m, 1)

	m["max"] = Entry{Count: math.MaxUint32}
	m.Touch("max", time.Unix(400, 0))
	assert.Equal(t, uint32(math.MaxUint32), m["max"].Count)
	assert.Equal(t, int64(400), m["max"].Last)
}

func TestMap_Forget(t *testing.T) {
	m := Map{"a": {Count: 1}}
	assert.True(t, m.Forget("a"))
	assert.False(t, m.Forget("a"))
	assert.Empty(t, m)
}
