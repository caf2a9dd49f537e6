// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Monitor MonitorConfig `yaml:"monitor"`
}

type MonitorConfig struct {
	History  HistoryConfig   `yaml:"history"`
	Machines []MachineConfig `yaml:"machines"`
}

// ---- HISTORY ----

type HistoryConfig struct {
	// Path of the SQLite outcome history. Empty disables recording.
	Path string `yaml:"path"`
}

// ---- MACHINE ----

type MachineConfig struct {
	ID        string        `yaml:"id"`
	Endpoint  string        `yaml:"endpoint"`
	Transport string        `yaml:"transport"` // binary | text
	TimeoutMs int           `yaml:"timeout_ms"`
	Program   ProgramConfig `yaml:"program"`
}

// ---- PROGRAM ----

type ProgramConfig struct {
	Type string `yaml:"type"` // basic | asm

	// Path of a PRG image to load and launch before polling (optional;
	// when empty the program is assumed to be started by the operator).
	Path string `yaml:"path"`
}

// Transport kinds.
const (
	TransportBinary = "binary"
	TransportText   = "text"
)

// Program types.
const (
	ProgramBasic = "basic"
	ProgramASM   = "asm"
)

// Load reads and decodes a YAML config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return &cfg, nil
}
