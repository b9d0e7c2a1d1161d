package cg

import (
	"errors"
	"fmt"
	"math"

	"github.com/JasinskiR/NPB/common/randdp"
)

// Generator seed and multiplier shared by every class.
const (
	tranSeed = 314159265.0
	amult    = 1220703125.0
)

var (
	// ErrSpaceExceeded means the generated element count did not fit the
	// preallocated nonzero buffer; the class constants and the generator
	// disagree, so the run cannot proceed.
	ErrSpaceExceeded = errors.New("cg: space for matrix elements exceeded")

	// ErrAssembly means the insertion scan fell through every case, an
	// internal-consistency fault that a well-formed row pattern can never
	// trigger.
	ErrAssembly = errors.New("cg: internal error in sparse assembly")
)

// Matrix is a square sparse matrix in compressed sparse row form. After
// assembly each row's column indices are strictly increasing and the
// matrix is read-only for the rest of the run.
type Matrix struct {
	N      int
	A      []float64 // nonzero values
	ColIdx []int     // column per nonzero, in [0, N)
	RowStr []int     // len N+1, row i occupies [RowStr[i], RowStr[i+1])
}

// NNZ is the assembled nonzero count.
func (m *Matrix) NNZ() int { return m.RowStr[m.N] }

// BuildMatrix generates the benchmark matrix for p, consuming rng. The
// generated structure depends only on the stream, never on the worker
// count, so the matrix is reproducible across any parallel
// configuration.
func BuildMatrix(p Problem, rng *randdp.Stream) (*Matrix, error) {
	n := p.NA
	nz := p.NZ()

	// Burn one draw so generation starts at the canonical point of the
	// sequence.
	rng.Next(amult)

	// nn1 is the smallest power of two not less than n.
	nn1 := 1
	for nn1 < n {
		nn1 *= 2
	}

	// Generate the nonzero pattern of every row and keep it for
	// assembly. Row i's pattern is its random sparse vector with the
	// diagonal forced to 0.5.
	arow := make([]int, n)
	acol := make([][]int, n)
	aelt := make([][]float64, n)
	vc := make([]float64, p.Nonzer+1)
	ivc := make([]int, p.Nonzer+1)
	for iouter := 0; iouter < n; iouter++ {
		nzv := p.Nonzer
		sprnvc(rng, n, nzv, nn1, vc, ivc)
		vecset(vc, ivc, &nzv, iouter+1, 0.5)
		arow[iouter] = nzv
		acol[iouter] = make([]int, nzv)
		aelt[iouter] = make([]float64, nzv)
		for ivelt := 0; ivelt < nzv; ivelt++ {
			acol[iouter][ivelt] = ivc[ivelt] - 1
			aelt[iouter][ivelt] = vc[ivelt]
		}
	}

	m := &Matrix{
		N:      n,
		A:      make([]float64, nz),
		ColIdx: make([]int, nz),
		RowStr: make([]int, n+1),
	}
	if err := assemble(m, nz, arow, acol, aelt, p.RCond, p.Shift); err != nil {
		return nil, err
	}
	m.A = m.A[:m.NNZ()]
	m.ColIdx = m.ColIdx[:m.NNZ()]
	return m, nil
}

// sprnvc draws a sparse vector of nz distinct positions in [1, n] with
// values in [0, 1). Each candidate costs two draws: one for the value,
// one for the location, scaled by nn1 and truncated. Out-of-range and
// duplicate locations are rejected and redrawn.
func sprnvc(rng *randdp.Stream, n, nz, nn1 int, v []float64, iv []int) {
	nzv := 0
	for nzv < nz {
		vecelt := rng.Next(amult)
		vecloc := rng.Next(amult)
		i := int(float64(nn1)*vecloc) + 1
		if i > n {
			continue
		}

		dup := false
		for ii := 0; ii < nzv; ii++ {
			if iv[ii] == i {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		v[nzv] = vecelt
		iv[nzv] = i
		nzv++
	}
}

// vecset stores val at position i of the sparse vector (v, iv),
// overwriting an existing entry or appending a new one.
func vecset(v []float64, iv []int, nzv *int, i int, val float64) {
	for k := 0; k < *nzv; k++ {
		if iv[k] == i {
			v[k] = val
			return
		}
	}
	v[*nzv] = val
	iv[*nzv] = i
	*nzv++
}

// insertSorted locates the slot for column jcol inside the row segment
// [lo, hi) of (a, colidx), keeping column indices ascending. Empty slots
// hold the -1 sentinel. It either shifts the tail right to open a slot,
// claims the first sentinel, or lands on an existing entry for the same
// column (dup). ok is false only when the scan falls through, which
// means the row segment is inconsistent.
func insertSorted(a []float64, colidx []int, lo, hi, jcol int) (k int, dup, ok bool) {
	for k = lo; k < hi; k++ {
		switch {
		case colidx[k] > jcol:
			for kk := hi - 2; kk >= k; kk-- {
				if colidx[kk] > -1 {
					a[kk+1] = a[kk]
					colidx[kk+1] = colidx[kk]
				}
			}
			colidx[k] = jcol
			a[k] = 0.0
			return k, false, true
		case colidx[k] == -1:
			colidx[k] = jcol
			return k, false, true
		case colidx[k] == jcol:
			return k, true, true
		}
	}
	return 0, false, false
}

// assemble folds the per-row patterns into m as the outer-product sum
// A = sum_i size_i * x_i x_i^T + (rcond - shift) on the diagonal, where
// size decays geometrically so the condition number approximates
// 1/rcond. Duplicate (row, col) hits accumulate into one entry; the
// final pass compacts the tombstoned slots away.
func assemble(m *Matrix, nz int, arow []int, acol [][]int, aelt [][]float64, rcond, shift float64) error {
	n := m.N
	a, colidx, rowstr := m.A, m.ColIdx, m.RowStr

	// Size each row: every pattern touching column j contributes its
	// full length to row j's slot count.
	for j := 0; j <= n; j++ {
		rowstr[j] = 0
	}
	for i := 0; i < n; i++ {
		for nza := 0; nza < arow[i]; nza++ {
			j := acol[i][nza] + 1
			rowstr[j] += arow[i]
		}
	}
	rowstr[0] = 0
	for j := 1; j <= n; j++ {
		rowstr[j] += rowstr[j-1]
	}
	if nza := rowstr[n] - 1; nza > nz {
		return fmt.Errorf("%w: need %d slots, have %d (overflow %d)", ErrSpaceExceeded, nza, nz, nza-nz)
	}

	// Preload every row with sentinels.
	nzloc := make([]int, n)
	for j := 0; j < n; j++ {
		for k := rowstr[j]; k < rowstr[j+1]; k++ {
			a[k] = 0.0
			colidx[k] = -1
		}
	}

	// Place values, scaling each outer product by the decaying size
	// factor and shifting the diagonal.
	size := 1.0
	ratio := math.Pow(rcond, 1.0/float64(n))
	for i := 0; i < n; i++ {
		for nza := 0; nza < arow[i]; nza++ {
			j := acol[i][nza]
			scale := size * aelt[i][nza]
			for nzrow := 0; nzrow < arow[i]; nzrow++ {
				jcol := acol[i][nzrow]
				va := aelt[i][nzrow] * scale
				if jcol == j && j == i {
					va += rcond - shift
				}

				k, dup, ok := insertSorted(a, colidx, rowstr[j], rowstr[j+1], jcol)
				if !ok {
					return fmt.Errorf("%w: row %d", ErrAssembly, i)
				}
				if dup {
					nzloc[j]++
				}
				a[k] += va
			}
		}
		size *= ratio
	}

	// Compact the merged duplicates out: shift every row's live entries
	// left past the accumulated gap count and shrink the row offsets.
	for j := 1; j < n; j++ {
		nzloc[j] += nzloc[j-1]
	}
	for j := 0; j < n; j++ {
		j1 := 0
		if j > 0 {
			j1 = rowstr[j] - nzloc[j-1]
		}
		j2 := rowstr[j+1] - nzloc[j]
		nza := rowstr[j]
		for k := j1; k < j2; k++ {
			a[k] = a[nza]
			colidx[k] = colidx[nza]
			nza++
		}
	}
	for j := 1; j <= n; j++ {
		rowstr[j] -= nzloc[j-1]
	}

	return nil
}
