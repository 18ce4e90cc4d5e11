package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func at(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

func TestOverlaps_HalfOpen(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", NewInterval(at(0), at(2)), NewInterval(at(0), at(2)), true},
		{"contained", NewInterval(at(0), at(10)), NewInterval(at(2), at(3)), true},
		{"partial", NewInterval(at(0), at(5)), NewInterval(at(4), at(8)), true},
		{"touching endpoints", NewInterval(at(0), at(2)), NewInterval(at(2), at(4)), false},
		{"disjoint", NewInterval(at(0), at(2)), NewInterval(at(3), at(4)), false},
		{"touching reversed", NewInterval(at(2), at(4)), NewInterval(at(0), at(2)), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

// Randomized check of the overlap predicate against a brute-force oracle:
// two half-open ranges intersect iff each starts before the other ends.
func TestOverlaps_RandomPairs(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		s1, s2 := rng.Intn(100), rng.Intn(100)
		a := NewInterval(at(s1), at(s1+1+rng.Intn(48)))
		b := NewInterval(at(s2), at(s2+1+rng.Intn(48)))

		want := a.Start.Before(b.End) && b.Start.Before(a.End)
		require.Equal(t, want, a.Overlaps(b), "a=%v b=%v", a, b)
	}
}

func TestInterval_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, NewInterval(at(0), at(1)).Valid())
	assert.True(t, NewInterval(at(0), time.Time{}).Valid(), "open-ended is valid")
	assert.False(t, NewInterval(at(1), at(0)).Valid(), "end before start")
	assert.False(t, NewInterval(at(1), at(1)).Valid(), "zero-length")
	assert.False(t, NewInterval(time.Time{}, at(1)).Valid(), "missing start")
}
