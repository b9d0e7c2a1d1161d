package cg

import (
	"fmt"
	"io"
	"math"

	"github.com/JasinskiR/NPB/common/parallel"
	"github.com/JasinskiR/NPB/common/randdp"
	"github.com/JasinskiR/NPB/common/results"
	"github.com/JasinskiR/NPB/common/timers"
)

// Timer sections of one benchmark run.
const (
	TInit = iota
	TBench
	TConjGrad
	numTimers
)

// Benchmark owns the assembled matrix and the five dense solver
// vectors. The vectors are allocated once and mutated in place for
// every outer iteration; nothing is reallocated mid-run.
type Benchmark struct {
	prob    Problem
	workers int
	mat     *Matrix

	x, z, p, q, r []float64

	zeta float64
	tset *timers.Set
}

// Result is the outcome of a completed run.
type Result struct {
	Zeta     float64
	Error    float64 // relative error against the class reference
	Time     float64 // seconds of the timed phase
	Mflops   float64
	Verified bool
}

// New builds the matrix for p with a fresh random stream and allocates
// the solver vectors. The matrix depends only on the class, so it is
// identical for every worker count.
func New(p Problem, workers int) (*Benchmark, error) {
	if workers < 1 {
		workers = 1
	}
	b := &Benchmark{
		prob:    p,
		workers: workers,
		x:       make([]float64, p.NA+2),
		z:       make([]float64, p.NA+2),
		p:       make([]float64, p.NA+2),
		q:       make([]float64, p.NA+2),
		r:       make([]float64, p.NA+2),
		tset:    timers.NewSet(numTimers),
	}

	b.tset.Start(TInit)
	mat, err := BuildMatrix(p, randdp.New(tranSeed))
	if err != nil {
		return nil, err
	}
	b.tset.Stop(TInit)
	b.mat = mat
	return b, nil
}

// Matrix exposes the assembled matrix.
func (b *Benchmark) Matrix() *Matrix { return b.mat }

// Timers exposes the section timers of the last run.
func (b *Benchmark) Timers() *timers.Set { return b.tset }

// reset puts the driver in its phase-start state: x all ones, zeta 0,
// scratch vectors zeroed.
func (b *Benchmark) reset() {
	n := b.prob.NA
	parallel.For(n+1, b.workers, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			b.x[j] = 1.0
		}
	})
	parallel.For(n, b.workers, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			b.q[j] = 0.0
			b.z[j] = 0.0
			b.r[j] = 0.0
			b.p[j] = 0.0
		}
	})
	b.zeta = 0.0
}

// outer runs one outer iteration: a CG solve, the eigenvalue update
// from the unnormalized projection x.z, and the renormalization of x
// for the next iteration. It returns the solve's residual norm.
func (b *Benchmark) outer() float64 {
	n := b.prob.NA
	b.tset.Start(TConjGrad)
	rnorm := conjGrad(b.mat, b.x, b.z, b.p, b.q, b.r, b.workers)
	b.tset.Stop(TConjGrad)

	norm1, norm2 := parallel.Sum2(n, b.workers, func(lo, hi int) (float64, float64) {
		var s1, s2 float64
		for j := lo; j < hi; j++ {
			s1 += b.x[j] * b.z[j]
			s2 += b.z[j] * b.z[j]
		}
		return s1, s2
	})
	b.zeta = b.prob.Shift + 1.0/norm1

	norm := 1.0 / math.Sqrt(norm2)
	parallel.For(n, b.workers, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			b.x[j] = norm * b.z[j]
		}
	})
	return rnorm
}

// Run executes the warm-up iteration and the timed phase, writing the
// per-iteration trace to w, and returns the verified result. A failed
// verification is a normal outcome, not an error.
func (b *Benchmark) Run(w io.Writer) Result {
	// One untimed iteration faults in every code path and data page;
	// its zeta is discarded.
	b.reset()
	b.outer()

	b.reset()

	b.tset.Clear(TBench)
	b.tset.Clear(TConjGrad)
	b.tset.Start(TBench)
	for it := 1; it <= b.prob.Niter; it++ {
		rnorm := b.outer()

		if it == 1 {
			fmt.Fprintf(w, "\n   iteration           ||r||                 zeta\n")
		}
		fmt.Fprintf(w, "    %5d       %20.14e%20.13e\n", it, rnorm, b.zeta)
	}
	b.tset.Stop(TBench)

	elapsed := b.tset.Read(TBench)
	res := Result{
		Zeta:   b.zeta,
		Error:  math.Abs((b.zeta - b.prob.ZetaVerify) / b.prob.ZetaVerify),
		Time:   elapsed,
		Mflops: b.prob.Mflops(elapsed),
	}
	res.Verified = res.Error <= Epsilon

	fmt.Fprintf(w, "\n Benchmark completed\n")
	if res.Verified {
		fmt.Fprintf(w, " VERIFICATION SUCCESSFUL\n")
		fmt.Fprintf(w, " Zeta is    %20.13e\n", res.Zeta)
		fmt.Fprintf(w, " Error is   %20.13e\n", res.Error)
	} else {
		fmt.Fprintf(w, " VERIFICATION FAILED\n")
		fmt.Fprintf(w, " Zeta                %20.13e\n", res.Zeta)
		fmt.Fprintf(w, " The correct zeta is %20.13e\n", b.prob.ZetaVerify)
	}
	return res
}

// Report assembles the shared summary block for r.
func (b *Benchmark) Report(r Result) results.Report {
	verdict := results.Failed
	if r.Verified {
		verdict = results.Successful
	}
	return results.Report{
		Name:         "CG",
		Class:        b.prob.Class,
		Size:         fmt.Sprintf("%d", b.prob.NA),
		Iterations:   b.prob.Niter,
		Workers:      b.workers,
		Time:         r.Time,
		Mops:         r.Mflops,
		OpType:       "conjugate gradient",
		Verification: verdict,
	}
}
