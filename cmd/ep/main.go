// Command ep runs the embarrassingly-parallel benchmark.
//
// Usage: ep [CLASS [THREADS]]
package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/JasinskiR/NPB/common/config"
	"github.com/JasinskiR/NPB/common/results"
	"github.com/JasinskiR/NPB/ep"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ep [CLASS [THREADS]]")
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
	prob, err := ep.ProblemForClass(class)
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

	fmt.Printf("\n\n NAS Parallel Benchmarks Go version - EP Benchmark\n")
	res := ep.Run(prob, workers, os.Stdout)
	results.Print(os.Stdout, ep.Report(prob, workers, res))
	os.Exit(0)
}
