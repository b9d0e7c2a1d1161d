package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkersPrecedence(t *testing.T) {
	t.Setenv("NPB_NUM_THREADS", "3")
	t.Setenv("GO_NUM_THREADS", "5")
	assert.Equal(t, 3, Workers())
}

func TestWorkersFallsThroughInvalidValues(t *testing.T) {
	t.Setenv("NPB_NUM_THREADS", "zero")
	t.Setenv("GO_NUM_THREADS", "-1")
	assert.Equal(t, runtime.NumCPU(), Workers())
}

func TestWorkersSecondSource(t *testing.T) {
	t.Setenv("NPB_NUM_THREADS", "")
	t.Setenv("GO_NUM_THREADS", "2")
	assert.Equal(t, 2, Workers())
}

func TestParseWorkers(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"16", 16, false},
		{"0", 0, true},
		{"-4", 0, true},
		{"four", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWorkers(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
