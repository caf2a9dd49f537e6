package outcome

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearTimingEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvMaxMs, "")
	t.Setenv(EnvIntervalMs, "")
	t.Setenv(EnvTestTarget, "")
	t.Setenv(EnvGoEnv, "")
}

func TestLoadTiming_NormalProfile(t *testing.T) {
	clearTimingEnv(t)

	got := LoadTiming()

	assert.Equal(t, 2000*time.Millisecond, got.Max)
	assert.Equal(t, 200*time.Millisecond, got.Interval)
}

func TestLoadTiming_TestProfileViaMockTarget(t *testing.T) {
	clearTimingEnv(t)
	t.Setenv(EnvTestTarget, "mock")

	got := LoadTiming()

	assert.Equal(t, 100*time.Millisecond, got.Max)
	assert.Equal(t, 30*time.Millisecond, got.Interval)
}

func TestLoadTiming_TestProfileViaGoEnv(t *testing.T) {
	clearTimingEnv(t)
	t.Setenv(EnvGoEnv, "test")

	got := LoadTiming()

	assert.Equal(t, 100*time.Millisecond, got.Max)
	assert.Equal(t, 30*time.Millisecond, got.Interval)
}

func TestLoadTiming_ValidOverridesWin(t *testing.T) {
	clearTimingEnv(t)
	t.Setenv(EnvMaxMs, "750")
	t.Setenv(EnvIntervalMs, "25")

	got := LoadTiming()

	assert.Equal(t, 750*time.Millisecond, got.Max)
	assert.Equal(t, 25*time.Millisecond, got.Interval)
}

func TestLoadTiming_OverridesApplyToTestProfile(t *testing.T) {
	clearTimingEnv(t)
	t.Setenv(EnvTestTarget, "mock")
	t.Setenv(EnvMaxMs, "400")

	got := LoadTiming()

	assert.Equal(t, 400*time.Millisecond, got.Max)
	assert.Equal(t, 30*time.Millisecond, got.Interval)
}

func TestLoadTiming_InvalidOverridesFallBack(t *testing.T) {
	for _, bad := range []string{"abc", "0", "-5", "1.5", "100ms"} {
		t.Run(bad, func(t *testing.T) {
			clearTimingEnv(t)
			t.Setenv(EnvMaxMs, bad)
			t.Setenv(EnvIntervalMs, bad)

			got := LoadTiming()

			assert.Equal(t, 2000*time.Millisecond, got.Max)
			assert.Equal(t, 200*time.Millisecond, got.Interval)
		})
	}
}
