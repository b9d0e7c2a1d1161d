// Package config resolves runtime configuration for the benchmark
// drivers. Values come from the process environment, optionally
// pre-loaded from a .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads an optional .env file into the environment. A missing file
// is not an error; existing environment variables are never overridden.
func Load() {
	_ = godotenv.Load()
}

// Workers returns the worker count to use, resolved through
// NPB_NUM_THREADS, then GO_NUM_THREADS, then the CPU count. Unparsable
// or non-positive values fall through to the next source.
func Workers() int {
	for _, key := range []string{"NPB_NUM_THREADS", "GO_NUM_THREADS"} {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n
			}
		}
	}
	return runtime.NumCPU()
}

// ParseWorkers validates an explicit worker-count argument.
func ParseWorkers(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid thread count %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("thread count must be positive, got %d", n)
	}
	return n, nil
}
