// Command cg runs the conjugate-gradient benchmark.
//
// Usage: cg [CLASS [THREADS]]
package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/JasinskiR/NPB/cg"
	"github.com/JasinskiR/NPB/common/config"
	"github.com/JasinskiR/NPB/common/results"
	"github.com/JasinskiR/NPB/common/timers"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cg [CLASS [THREADS]]")
	fmt.Fprintln(os.Stderr, "  CLASS   problem class: S, W, A, B, C, D or E (default S)")
	fmt.Fprintln(os.Stderr, "  THREADS positive worker count (default from environment or CPU count)")
}

func main() {
	config.Load()

	class := "S"
	workers := config.Workers()

	args := os.Args[1:]
	if len(args) > 0 {
		class = strings.ToUpper(args[0])
	}
	prob, err := cg.ProblemForClass(class)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(2)
	}
	if len(args) > 1 {
		workers, err = config.ParseWorkers(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	runtime.GOMAXPROCS(workers)

	fmt.Printf("\n\n NAS Parallel Benchmarks Go version - CG Benchmark\n\n")
	fmt.Printf(" Size: %11d\n", prob.NA)
	fmt.Printf(" Iterations: %5d\n", prob.Niter)
	fmt.Printf(" Goroutines: %5d\n", workers)

	sectionTiming := timers.FlagPresent()

	bench, err := cg.New(prob, workers)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if sectionTiming {
		fmt.Printf(" Initialization time = %15.3f seconds\n", bench.Timers().Read(cg.TInit))
	}

	res := bench.Run(os.Stdout)
	results.Print(os.Stdout, bench.Report(res))

	if sectionTiming {
		ts := bench.Timers()
		tmax := ts.Read(cg.TBench)
		if tmax == 0.0 {
			tmax = 1.0
		}
		fmt.Printf("  SECTION   Time (secs)\n")
		fmt.Printf("  init:     %9.3f\n", ts.Read(cg.TInit))
		fmt.Printf("  benchmark:%9.3f  (%6.2f%%)\n", ts.Read(cg.TBench), ts.Read(cg.TBench)*100.0/tmax)
		fmt.Printf("  conj_grad:%9.3f  (%6.2f%%)\n", ts.Read(cg.TConjGrad), ts.Read(cg.TConjGrad)*100.0/tmax)
		rest := ts.Read(cg.TBench) - ts.Read(cg.TConjGrad)
		fmt.Printf("  rest:     %9.3f  (%6.2f%%)\n", rest, rest*100.0/tmax)
	}

	// Verification failure is reported above, not an error exit.
	os.Exit(0)
}
