package results

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdictStrings(t *testing.T) {
	assert.Equal(t, "SUCCESSFUL", Successful.String())
	assert.Equal(t, "FAILED", Failed.String())
	assert.Equal(t, "UNPERFORMED", Unperformed.String())
}

func TestPrintLayout(t *testing.T) {
	var sb strings.Builder
	Print(&sb, Report{
		Name:         "CG",
		Class:        "S",
		Size:         "1400",
		Iterations:   15,
		Workers:      4,
		Time:         1.25,
		Mops:         512.5,
		OpType:       "conjugate gradient",
		Verification: Successful,
	})

	out := sb.String()
	assert.Contains(t, out, "CG Benchmark Completed")
	assert.Contains(t, out, "Class           =")
	assert.Contains(t, out, "1400")
	assert.Contains(t, out, "SUCCESSFUL")
	assert.Contains(t, out, "conjugate gradient")
	assert.Contains(t, out, Version)
}

func TestCPUSummaryNonEmpty(t *testing.T) {
	assert.NotEmpty(t, CPUSummary())
}
