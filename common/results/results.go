// Package results renders the final benchmark report shared by all
// kernels.
package results

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/sys/cpu"
)

// Version is the benchmark suite revision echoed in every report.
const Version = "4.1"

// Verdict is the outcome of result verification.
type Verdict int

const (
	// Unperformed marks runs with no reference value to compare against.
	Unperformed Verdict = iota
	Successful
	Failed
)

func (v Verdict) String() string {
	switch v {
	case Successful:
		return "SUCCESSFUL"
	case Failed:
		return "FAILED"
	default:
		return "UNPERFORMED"
	}
}

// Report carries everything the final summary prints.
type Report struct {
	Name         string // benchmark name, e.g. "CG"
	Class        string
	Size         string // preformatted problem-size field
	Iterations   int
	Workers      int
	Time         float64 // seconds
	Mops         float64
	OpType       string
	Verification Verdict
}

// Print writes the summary block in the layout the suite has always
// used.
func Print(w io.Writer, r Report) {
	fmt.Fprintf(w, "\n\n %s Benchmark Completed\n", r.Name)
	fmt.Fprintf(w, " Class           =             %12s\n", r.Class)
	fmt.Fprintf(w, " Size            =             %12s\n", r.Size)
	fmt.Fprintf(w, " Iterations      =             %12d\n", r.Iterations)
	fmt.Fprintf(w, " Goroutines      =             %12d\n", r.Workers)
	fmt.Fprintf(w, " Time in seconds =             %12.2f\n", r.Time)
	fmt.Fprintf(w, " Mop/s total     =             %12.2f\n", r.Mops)
	fmt.Fprintf(w, " Operation type  = %24s\n", r.OpType)
	fmt.Fprintf(w, " Verification    =             %12s\n", r.Verification)
	fmt.Fprintf(w, " Version         =             %12s\n", Version)
	fmt.Fprintf(w, " CPU features    = %24s\n", CPUSummary())
	fmt.Fprintln(w)
}

// CPUSummary names the vector extensions the host exposes, or
// "baseline" when none are detected. Purely informational; no kernel
// dispatches on it.
func CPUSummary() string {
	var feats []string
	if cpu.X86.HasAVX512F {
		feats = append(feats, "AVX512F")
	}
	if cpu.X86.HasAVX2 {
		feats = append(feats, "AVX2")
	} else if cpu.X86.HasAVX {
		feats = append(feats, "AVX")
	}
	if cpu.X86.HasFMA {
		feats = append(feats, "FMA")
	}
	if cpu.ARM64.HasASIMD {
		feats = append(feats, "ASIMD")
	}
	if len(feats) == 0 {
		return "baseline"
	}
	return strings.Join(feats, "+")
}
