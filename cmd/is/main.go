// Command is runs the integer-sort benchmark.
//
// Usage: is [CLASS [THREADS]]
package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/JasinskiR/NPB/common/config"
	"github.com/JasinskiR/NPB/common/results"
	"github.com/JasinskiR/NPB/is"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: is [CLASS [THREADS]]")
	fmt.Fprintln(os.Stderr, "  CLASS   problem class: S, W, A, B, C or D (default S)")
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
	prob, err := is.ProblemForClass(class)
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

	fmt.Printf("\n\n NAS Parallel Benchmarks Go version - IS Benchmark\n\n")
	fmt.Printf(" Size: %d  (class %s)\n", prob.TotalKeys, prob.Class)
	fmt.Printf(" Iterations: %d\n", prob.Iterations)
	fmt.Printf(" Goroutines: %d\n", workers)

	bench := is.New(prob, workers)
	res := bench.Run(os.Stdout)
	results.Print(os.Stdout, is.Report(prob, workers, res))
	os.Exit(0)
}
