// Package ep implements the embarrassingly-parallel benchmark: generate
// pairs of uniform deviates in batches, push them through the Box-Muller
// acceptance-rejection transform, and tally the resulting Gaussian pairs
// in concentric square annuli. Each batch derives its own seed by
// skipping ahead in the shared stream, so batches are independent and
// the totals do not depend on how batches are distributed over workers.
package ep

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/JasinskiR/NPB/common/randdp"
	"github.com/JasinskiR/NPB/common/results"
	"github.com/JasinskiR/NPB/common/timers"
)

// ErrUnknownClass is returned for a class tag without an EP preset.
var ErrUnknownClass = errors.New("ep: unknown problem class")

const (
	mk = 16 // log2 of the batch size
	nq = 10 // annulus count

	amult   = 1220703125.0
	seed    = 271828183.0
	epsilon = 1.0e-8
)

// Timer sections.
const (
	TTotal = iota
	TGaussian
	TRandom
	numTimers
)

// Problem is one EP class: 2^(M+1) random numbers and the reference
// sums its Gaussian tally must reproduce.
type Problem struct {
	Class    string
	M        int
	SXVerify float64
	SYVerify float64
}

var classes = map[string]Problem{
	"S": {Class: "S", M: 24, SXVerify: -3.247834652034740e+3, SYVerify: -6.958407078382297e+3},
	"W": {Class: "W", M: 25, SXVerify: -2.863319731645753e+3, SYVerify: -6.320053679109499e+3},
	"A": {Class: "A", M: 28, SXVerify: -4.295875165629892e+3, SYVerify: -1.580732573678431e+4},
	"B": {Class: "B", M: 30, SXVerify: 4.033815542441498e+4, SYVerify: -2.660669192809235e+4},
	"C": {Class: "C", M: 32, SXVerify: 4.764367927995374e+4, SYVerify: -8.084072988043731e+4},
	"D": {Class: "D", M: 36, SXVerify: 1.982481200946593e+5, SYVerify: -1.020596636361769e+5},
	"E": {Class: "E", M: 40, SXVerify: -5.319717441530e+5, SYVerify: -3.688834557731e+5},
}

// ProblemForClass resolves a class tag to its preset.
func ProblemForClass(class string) (Problem, error) {
	p, ok := classes[class]
	if !ok {
		return Problem{}, fmt.Errorf("%w %q (valid: S, W, A, B, C, D, E)", ErrUnknownClass, class)
	}
	return p, nil
}

// Result is the outcome of a completed EP run.
type Result struct {
	SX, SY   float64
	Counts   [nq]float64
	Pairs    float64 // accepted Gaussian pairs
	SXErr    float64
	SYErr    float64
	Time     float64
	Mops     float64
	Verified bool
}

// partial is one worker's contribution to the global tallies.
type partial struct {
	qq     [nq]float64
	sx, sy float64
}

// batchSeed positions a fresh stream at batch kk's starting seed by the
// square-and-multiply recursion over the batch multiplier an.
func batchSeed(kk int, an float64) *randdp.Stream {
	s1 := randdp.New(seed)
	s2 := randdp.New(an)
	for i := 1; i <= 100; i++ {
		ik := kk / 2
		if 2*ik != kk {
			s1.Next(s2.Seed())
		}
		if ik == 0 {
			break
		}
		s2.Next(s2.Seed())
		kk = ik
	}
	return s1
}

// Run executes the benchmark for p across workers goroutines, writes
// the per-run summary to w and returns the verified result.
func Run(p Problem, workers int, w io.Writer) Result {
	if workers < 1 {
		workers = 1
	}
	nk := 1 << mk
	np := 1 << (p.M - mk) // batches of nk pairs
	ts := timers.NewSet(numTimers)
	sectionTiming := timers.FlagPresent()

	// The batch multiplier an is the stream multiplier raised to the
	// batch size, built by repeated squaring.
	an := randdp.New(amult)
	for i := 0; i < mk+1; i++ {
		an.Next(an.Seed())
	}

	fmt.Fprintf(w, "\n Number of random numbers generated: %15.0f\n", math.Pow(2.0, float64(p.M+1)))

	ts.Start(TTotal)

	chunk := np / workers
	if np%workers != 0 {
		chunk++
	}
	parts := make(chan partial, workers)
	launched := 0
	var wg sync.WaitGroup
	for id := 0; id < workers; id++ {
		startK := id*chunk + 1
		endK := startK + chunk
		if endK > np+1 {
			endK = np + 1
		}
		if startK >= endK {
			continue
		}
		launched++
		wg.Add(1)
		go func(id, startK, endK int) {
			defer wg.Done()

			var pr partial
			x := make([]float64, 2*nk)
			for k := startK; k < endK; k++ {
				rng := batchSeed(k-1, an.Seed())

				if sectionTiming && id == 0 {
					ts.Start(TRandom)
				}
				rng.NextN(2*nk, amult, x)
				if sectionTiming && id == 0 {
					ts.Stop(TRandom)
				}

				// Box-Muller by acceptance-rejection; tally each accepted
				// pair in the annulus of its larger coordinate.
				if sectionTiming && id == 0 {
					ts.Start(TGaussian)
				}
				for i := 0; i < nk; i++ {
					x1 := 2.0*x[2*i] - 1.0
					x2 := 2.0*x[2*i+1] - 1.0
					t1 := x1*x1 + x2*x2
					if t1 <= 1.0 {
						t2 := math.Sqrt(-2.0 * math.Log(t1) / t1)
						t3 := x1 * t2
						t4 := x2 * t2
						l := int(math.Max(math.Abs(t3), math.Abs(t4)))
						pr.qq[l]++
						pr.sx += t3
						pr.sy += t4
					}
				}
				if sectionTiming && id == 0 {
					ts.Stop(TGaussian)
				}
			}
			parts <- pr
		}(id, startK, endK)
	}
	wg.Wait()

	var res Result
	for i := 0; i < launched; i++ {
		pr := <-parts
		for j := 0; j < nq; j++ {
			res.Counts[j] += pr.qq[j]
		}
		res.SX += pr.sx
		res.SY += pr.sy
	}
	for j := 0; j < nq; j++ {
		res.Pairs += res.Counts[j]
	}

	ts.Stop(TTotal)
	res.Time = ts.Read(TTotal)

	res.SXErr = math.Abs((res.SX - p.SXVerify) / p.SXVerify)
	res.SYErr = math.Abs((res.SY - p.SYVerify) / p.SYVerify)
	res.Verified = res.SXErr <= epsilon && res.SYErr <= epsilon
	if res.Time > 0.0 {
		res.Mops = math.Pow(2.0, float64(p.M+1)) / res.Time / 1e6
	}

	fmt.Fprintf(w, "\n EP Benchmark Results:\n\n")
	fmt.Fprintf(w, " CPU Time =%10.4f\n", res.Time)
	fmt.Fprintf(w, " N = 2^%5d\n", p.M)
	fmt.Fprintf(w, " No. Gaussian Pairs = %15.0f\n", res.Pairs)
	fmt.Fprintf(w, " Sums = %25.15e %25.15e\n", res.SX, res.SY)
	fmt.Fprintf(w, " Counts:\n")
	for j := 0; j < nq; j++ {
		fmt.Fprintf(w, "%3d%15.0f\n", j, res.Counts[j])
	}

	if sectionTiming {
		tm := res.Time
		if tm <= 0.0 {
			tm = 1.0
		}
		fmt.Fprintf(w, "\nTotal time:     %9.3f (%6.2f)\n", ts.Read(TTotal), ts.Read(TTotal)*100.0/tm)
		fmt.Fprintf(w, "Gaussian pairs: %9.3f (%6.2f)\n", ts.Read(TGaussian), ts.Read(TGaussian)*100.0/tm)
		fmt.Fprintf(w, "Random numbers: %9.3f (%6.2f)\n", ts.Read(TRandom), ts.Read(TRandom)*100.0/tm)
	}

	return res
}

// Report assembles the shared summary block for r.
func Report(p Problem, workers int, r Result) results.Report {
	verdict := results.Failed
	if r.Verified {
		verdict = results.Successful
	}
	return results.Report{
		Name:         "EP",
		Class:        p.Class,
		Size:         fmt.Sprintf("2^%d", p.M+1),
		Iterations:   0,
		Workers:      workers,
		Time:         r.Time,
		Mops:         r.Mops,
		OpType:       "random numbers generated",
		Verification: verdict,
	}
}
