// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if len(cfg.Monitor.Machines) == 0 {
		return fmt.Errorf("at least one machine is required")
	}

	seen := make(map[string]struct{})

	for _, m := range cfg.Monitor.Machines {
		if m.ID == "" {
			return fmt.Errorf("machine id is required")
		}

		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("machine %q: duplicate id", m.ID)
		}
		seen[m.ID] = struct{}{}

		if m.Endpoint == "" {
			return fmt.Errorf("machine %q: endpoint is required", m.ID)
		}

		switch strings.ToLower(m.Transport) {
		case "", TransportBinary, TransportText:
		default:
			return fmt.Errorf(
				"machine %q: transport must be %q or %q, got %q",
				m.ID, TransportBinary, TransportText, m.Transport,
			)
		}

		if m.TimeoutMs < 0 {
			return fmt.Errorf("machine %q: timeout_ms must not be negative", m.ID)
		}

		switch strings.ToLower(m.Program.Type) {
		case ProgramBasic, ProgramASM:
		default:
			return fmt.Errorf(
				"machine %q: program type must be %q or %q, got %q",
				m.ID, ProgramBasic, ProgramASM, m.Program.Type,
			)
		}
	}

	return nil
}
