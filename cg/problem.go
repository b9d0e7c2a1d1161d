// Package cg implements the conjugate-gradient benchmark: it builds a
// random sparse symmetric matrix with a controlled condition number and
// estimates the smallest eigenvalue of A + shift*I by running a fixed
// number of CG solves inside an inverse-power outer iteration.
package cg

import (
	"errors"
	"fmt"
)

// ErrUnknownClass is returned for a problem class outside S/W/A/B/C/D/E.
var ErrUnknownClass = errors.New("cg: unknown problem class")

// Epsilon is the relative tolerance on the final zeta used by
// verification.
const Epsilon = 1.0e-10

// Problem holds the immutable per-run parameters of one benchmark
// class.
type Problem struct {
	Class  string
	NA     int // matrix order
	Nonzer int // target nonzeros per generated row pattern
	Niter  int // timed outer iterations
	Shift  float64
	RCond  float64 // reciprocal condition number target

	// ZetaVerify is the reference eigenvalue estimate for this class.
	ZetaVerify float64
}

var classes = map[string]Problem{
	"S": {Class: "S", NA: 1400, Nonzer: 7, Niter: 15, Shift: 10.0, RCond: 0.1, ZetaVerify: 8.5971775078648},
	"W": {Class: "W", NA: 7000, Nonzer: 8, Niter: 15, Shift: 12.0, RCond: 0.1, ZetaVerify: 10.362595087124},
	"A": {Class: "A", NA: 14000, Nonzer: 11, Niter: 15, Shift: 20.0, RCond: 0.1, ZetaVerify: 17.130235054029},
	"B": {Class: "B", NA: 75000, Nonzer: 13, Niter: 75, Shift: 60.0, RCond: 0.1, ZetaVerify: 22.712745482631},
	"C": {Class: "C", NA: 150000, Nonzer: 15, Niter: 75, Shift: 110.0, RCond: 0.1, ZetaVerify: 28.973605592845},
	"D": {Class: "D", NA: 1500000, Nonzer: 21, Niter: 100, Shift: 500.0, RCond: 0.1, ZetaVerify: 52.514532105794},
	"E": {Class: "E", NA: 9000000, Nonzer: 26, Niter: 100, Shift: 1500.0, RCond: 0.1, ZetaVerify: 77.522164599383},
}

// ProblemForClass resolves a class tag to its preset.
func ProblemForClass(class string) (Problem, error) {
	p, ok := classes[class]
	if !ok {
		return Problem{}, fmt.Errorf("%w %q (valid: S, W, A, B, C, D, E)", ErrUnknownClass, class)
	}
	return p, nil
}

// NZ is the nonzero buffer capacity: an upper bound on the element
// count the generator can produce for this class.
func (p Problem) NZ() int {
	return p.NA * (p.Nonzer + 1) * (p.Nonzer + 1)
}

// Mflops converts an elapsed time for the timed phase into millions of
// floating-point operations per second, using the closed-form operation
// count of the kernel. A zero elapsed time reports 0 rather than
// dividing.
func (p Problem) Mflops(elapsed float64) float64 {
	if elapsed == 0.0 {
		return 0.0
	}
	nn1 := float64(p.Nonzer * (p.Nonzer + 1))
	return float64(2*p.Niter*p.NA) * (3.0 + nn1 + 25.0*(5.0+nn1) + 3.0) / elapsed / 1e6
}
