package randdp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSeed  = 314159265.0
	testMult  = 1220703125.0
	testDraws = 1000
)

func TestStreamReproducible(t *testing.T) {
	s1 := New(testSeed)
	s2 := New(testSeed)

	for i := 0; i < testDraws; i++ {
		require.Equal(t, s1.Next(testMult), s2.Next(testMult), "draw %d diverged", i)
	}
	require.Equal(t, s1.Seed(), s2.Seed())
}

func TestStreamRange(t *testing.T) {
	s := New(testSeed)
	for i := 0; i < testDraws; i++ {
		v := s.Next(testMult)
		require.GreaterOrEqual(t, v, 0.0, "draw %d", i)
		require.Less(t, v, 1.0, "draw %d", i)
	}
}

func TestStreamNoShortPeriod(t *testing.T) {
	s := New(testSeed)
	seen := make(map[float64]int, testDraws)
	for i := 0; i < testDraws; i++ {
		v := s.Next(testMult)
		if prev, ok := seen[v]; ok {
			t.Fatalf("draw %d repeats draw %d: %v", i, prev, v)
		}
		seen[v] = i
	}
}

func TestNextNMatchesNext(t *testing.T) {
	const n = 256

	single := New(testSeed)
	want := make([]float64, n)
	for i := range want {
		want[i] = single.Next(testMult)
	}

	bulk := New(testSeed)
	got := make([]float64, n)
	bulk.NextN(n, testMult, got)

	assert.Equal(t, want, got)
	assert.Equal(t, single.Seed(), bulk.Seed())
}

func TestSkipAheadWorkerZero(t *testing.T) {
	assert.Equal(t, testSeed, SkipAhead(0, 4, 1<<20, testSeed, testMult))
}

func TestSkipAheadMatchesSequentialDraws(t *testing.T) {
	const (
		np = 4
		nn = int64(4 * 64) // 64 keys at 4 draws each
	)

	// Worker kn's derived seed must equal the state reached by drawing
	// every value its predecessors consumed.
	mq := (nn/4 + np - 1) / np
	for kn := 1; kn < np; kn++ {
		s := New(testSeed)
		for i := int64(0); i < mq*4*int64(kn); i++ {
			s.Next(testMult)
		}
		require.Equal(t, s.Seed(), SkipAhead(kn, np, nn, testSeed, testMult), "worker %d", kn)
	}
}
