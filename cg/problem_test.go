package cg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemForClass(t *testing.T) {
	p, err := ProblemForClass("S")
	require.NoError(t, err)
	assert.Equal(t, 1400, p.NA)
	assert.Equal(t, 7, p.Nonzer)
	assert.Equal(t, 15, p.Niter)
	assert.Equal(t, 10.0, p.Shift)
	assert.Equal(t, 8.5971775078648, p.ZetaVerify)

	b, err := ProblemForClass("B")
	require.NoError(t, err)
	assert.Equal(t, 75000, b.NA)
	assert.Equal(t, 75, b.Niter)
}

func TestProblemForClassUnknown(t *testing.T) {
	_, err := ProblemForClass("Z")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownClass))

	_, err = ProblemForClass("s")
	assert.Error(t, err)
}

func TestNZ(t *testing.T) {
	p, err := ProblemForClass("S")
	require.NoError(t, err)
	assert.Equal(t, 1400*8*8, p.NZ())
}

func TestMflops(t *testing.T) {
	p, err := ProblemForClass("S")
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Mflops(0.0))
	assert.Greater(t, p.Mflops(1.0), 0.0)
	// Halving the time doubles the rate.
	assert.InDelta(t, 2*p.Mflops(1.0), p.Mflops(0.5), 1e-9)
}
