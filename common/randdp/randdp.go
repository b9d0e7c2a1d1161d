// Package randdp implements the double-precision linear congruential
// generator used by all NPB kernels: x_{k+1} = a*x_k mod 2^46, carried
// entirely in floating point. Every operand is split into two 23-bit
// halves so each partial product stays exactly representable in a
// float64; the sequence is therefore bit-reproducible on any IEEE-754
// platform.
package randdp

import "math"

var r23, r46, t23, t46 float64

func init() {
	r23 = math.Pow(0.5, 23.0)
	r46 = r23 * r23
	t23 = math.Pow(2.0, 23.0)
	t46 = t23 * t23
}

// Stream is one generator state. Streams are not safe for concurrent
// use; parallel workers derive independent streams with SkipAhead and
// never share one.
type Stream struct {
	x float64
}

// New returns a stream seeded with x, which must hold an odd integer in
// (1, 2^46).
func New(x float64) *Stream {
	return &Stream{x: x}
}

// Seed reports the current state, an integer in (1, 2^46) stored as a
// float64.
func (s *Stream) Seed() float64 { return s.x }

// SetSeed resets the state.
func (s *Stream) SetSeed(x float64) { s.x = x }

// Next advances the state by one step using multiplier a and returns a
// value in [0, 1).
func (s *Stream) Next(a float64) float64 {
	var t1, t2, t3, t4, a1, a2, x1, x2, z float64

	// Break a into two parts such that a = 2^23 * a1 + a2.
	t1 = r23 * a
	a1 = float64(int(t1))
	a2 = a - t23*a1

	// Break x into two parts such that x = 2^23 * x1 + x2, compute
	// z = a1*x2 + a2*x1 (mod 2^23), then x = 2^23*z + a2*x2 (mod 2^46).
	t1 = r23 * s.x
	x1 = float64(int(t1))
	x2 = s.x - t23*x1

	t1 = a1*x2 + a2*x1
	t2 = float64(int(r23 * t1))
	z = t1 - t23*t2
	t3 = t23*z + a2*x2
	t4 = float64(int(r46 * t3))
	s.x = t3 - t46*t4

	return r46 * s.x
}

// NextN fills y[0:n] with the next n values of the stream, the bulk
// variant of Next. The multiplier halves are hoisted out of the loop;
// the per-step arithmetic is identical.
func (s *Stream) NextN(n int, a float64, y []float64) {
	var t1, t2, t3, t4, a1, a2, x1, x2, z float64
	x := s.x

	t1 = r23 * a
	a1 = float64(int(t1))
	a2 = a - t23*a1

	for i := 0; i < n; i++ {
		t1 = r23 * x
		x1 = float64(int(t1))
		x2 = x - t23*x1

		t1 = a1*x2 + a2*x1
		t2 = float64(int(r23 * t1))
		z = t1 - t23*t2
		t3 = t23*z + a2*x2
		t4 = float64(int(r46 * t3))
		x = t3 - t46*t4
		y[i] = r46 * x
	}

	s.x = x
}

// SkipAhead returns the seed reached after the draws consumed by the kn
// preceding workers out of np, for a workload of nn total draws starting
// from seed s with multiplier a. It walks the exponent with the usual
// square-and-multiply recursion over the LCG, so deriving worker kn's
// stream costs O(log nn) instead of replaying the sequence.
func SkipAhead(kn, np int, nn int64, seed, a float64) float64 {
	if kn == 0 {
		return seed
	}

	mq := (nn/4 + int64(np) - 1) / int64(np)
	nq := mq * 4 * int64(kn)

	t1 := New(seed)
	t2 := New(a)
	kk := nq

	for kk > 1 {
		ik := kk / 2
		if 2*ik == kk {
			t2.Next(t2.Seed())
			kk = ik
		} else {
			t1.Next(t2.Seed())
			kk--
		}
	}
	t1.Next(t2.Seed())

	return t1.Seed()
}
