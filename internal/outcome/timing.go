package outcome

import (
	"os"
	"strconv"
	"time"
)

// Environment keys consumed by LoadTiming.
const (
	EnvMaxMs      = "C64_POLL_MAX_MS"
	EnvIntervalMs = "C64_POLL_INTERVAL_MS"

	// EnvTestTarget set to "mock" marks runs against the mock target.
	EnvTestTarget = "C64_TEST_TARGET"
	// EnvGoEnv set to "test" marks a test environment.
	EnvGoEnv = "GO_ENV"
)

// Normal profile: real emulator warm-up is slow.
const (
	normalMax      = 2000 * time.Millisecond
	normalInterval = 200 * time.Millisecond
)

// Test profile: mock targets answer instantly, keep suites fast.
const (
	testMax      = 100 * time.Millisecond
	testInterval = 30 * time.Millisecond
)

// Timing is the immutable observation-window config for one poll.
type Timing struct {
	Max      time.Duration
	Interval time.Duration
}

// LoadTiming resolves poll timing from the environment at call time.
// Explicit positive-integer millisecond overrides win; anything else falls
// back to the active default profile. It never fails.
func LoadTiming() Timing {
	def := Timing{Max: normalMax, Interval: normalInterval}
	if os.Getenv(EnvTestTarget) == "mock" || os.Getenv(EnvGoEnv) == "test" {
		def = Timing{Max: testMax, Interval: testInterval}
	}

	return Timing{
		Max:      envMillisOrDefault(EnvMaxMs, def.Max),
		Interval: envMillisOrDefault(EnvIntervalMs, def.Interval),
	}
}

func envMillisOrDefault(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return time.Duration(v) * time.Millisecond
}
