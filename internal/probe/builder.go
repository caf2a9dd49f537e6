// internal/probe/builder.go
package probe

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/vice-monitor/internal/config"
	"github.com/tamzrod/vice-monitor/internal/probe/binmon"
	"github.com/tamzrod/vice-monitor/internal/probe/textmon"
)

// Build constructs the configured monitor client for one machine.
// Connection failures surface immediately (fail fast at startup).
func Build(m cfg.MachineConfig) (Machine, error) {
	timeout := time.Duration(m.TimeoutMs) * time.Millisecond

	switch m.Transport {
	case cfg.TransportBinary:
		c, err := binmon.New(binmon.Config{
			Endpoint: m.Endpoint,
			Timeout:  timeout,
		})
		if err != nil {
			return nil, err
		}
		// Verify the link before anything depends on it.
		if err := c.Ping(); err != nil {
			c.Close()
			return nil, err
		}
		return c, nil

	case cfg.TransportText:
		return textmon.New(textmon.Config{
			Endpoint: m.Endpoint,
			Timeout:  timeout,
		})

	default:
		return nil, fmt.Errorf("probe: unsupported transport %q", m.Transport)
	}
}
