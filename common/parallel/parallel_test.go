package parallel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForCoversEveryIndexOnce(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		workers int
	}{
		{"even split", 1000, 4},
		{"remainder", 1000, 7},
		{"single worker", 100, 1},
		{"more workers than work", 3, 16},
		{"one element", 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visits := make([]int, tt.n)
			For(tt.n, tt.workers, func(lo, hi int) {
				for i := lo; i < hi; i++ {
					visits[i]++ // chunks are disjoint, so this is race-free
				}
			})
			for i, v := range visits {
				require.Equal(t, 1, v, "index %d", i)
			}
		})
	}
}

func TestForEmptyRange(t *testing.T) {
	called := false
	For(0, 4, func(lo, hi int) { called = true })
	assert.False(t, called)
}

func TestForWorkerIDsAreDistinct(t *testing.T) {
	const n, workers = 100, 5
	owner := make([]int, n)
	ForWorker(n, workers, func(id, lo, hi int) {
		for i := lo; i < hi; i++ {
			owner[i] = id
		}
	})
	// Chunk ownership must be contiguous and non-decreasing.
	for i := 1; i < n; i++ {
		require.LessOrEqual(t, owner[i-1], owner[i])
	}
}

func TestSumIntegers(t *testing.T) {
	const n = 12345
	got := Sum(n, 8, func(lo, hi int) int {
		s := 0
		for i := lo; i < hi; i++ {
			s += i + 1
		}
		return s
	})
	assert.Equal(t, n*(n+1)/2, got)
}

func TestSumFloatsMatchesSerial(t *testing.T) {
	const n = 1 << 12
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i%97) * 0.5
	}

	serial := 0.0
	for _, v := range data {
		serial += v
	}
	got := Sum(n, 6, func(lo, hi int) float64 {
		s := 0.0
		for i := lo; i < hi; i++ {
			s += data[i]
		}
		return s
	})
	// Partial-sum merge order may differ from serial order.
	assert.InDelta(t, serial, got, 1e-9)
}

func TestSum2(t *testing.T) {
	const n = 1000
	a, b := Sum2(n, 4, func(lo, hi int) (float64, float64) {
		var s1, s2 float64
		for i := lo; i < hi; i++ {
			s1 += 1.0
			s2 += 2.0
		}
		return s1, s2
	})
	assert.InDelta(t, float64(n), a, 1e-12)
	assert.InDelta(t, float64(2*n), b, 1e-12)
}

func TestSumEmptyRange(t *testing.T) {
	assert.Zero(t, Sum(0, 4, func(lo, hi int) float64 { return 1.0 }))
}
