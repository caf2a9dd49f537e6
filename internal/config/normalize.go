// internal/config/normalize.go
package config

import "strings"

// defaultTimeoutMs matches the normal poll window: one monitor round trip
// should never outlive the observation it serves.
const defaultTimeoutMs = 2000

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for mi := range cfg.Monitor.Machines {
		m := &cfg.Monitor.Machines[mi]

		if m.Transport == "" {
			m.Transport = TransportBinary
		}
		m.Transport = strings.ToLower(m.Transport)

		if m.TimeoutMs == 0 {
			m.TimeoutMs = defaultTimeoutMs
		}

		m.Program.Type = strings.ToLower(m.Program.Type)
	}
}
