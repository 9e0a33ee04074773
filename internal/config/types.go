package config

import "time"

// PingConfig represents the pingpool configuration file structure
type PingConfig struct {
	// Targets is the batch probed when no targets are given on the command line
	Targets []string `yaml:"targets,omitempty" json:"targets,omitempty"`

	// Defaults contains default settings for runs
	Defaults DefaultsConfig `yaml:"defaults,omitempty" json:"defaults,omitempty"`

	// FaultInjection corrupts one target of every batch when enabled
	FaultInjection FaultInjectionConfig `yaml:"faultInjection,omitempty" json:"faultInjection,omitempty"`
}

// DefaultsConfig contains default configuration values
type DefaultsConfig struct {
	// Parallel caps the number of concurrent probes
	Parallel int `yaml:"parallel,omitempty" json:"parallel,omitempty"`

	// GracePeriod bounds each phase of the pool shutdown
	GracePeriod time.Duration `yaml:"gracePeriod,omitempty" json:"gracePeriod,omitempty"`

	// Timeout bounds each probe
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Mode is the completion strategy (stream, batch, sequential)
	Mode string `yaml:"mode,omitempty" json:"mode,omitempty"`

	// FailFast stops a streaming run at the first failure
	FailFast bool `yaml:"failFast,omitempty" json:"failFast,omitempty"`

	// OutputFormat is the default output format (text, table, json, yaml)
	OutputFormat string `yaml:"outputFormat,omitempty" json:"outputFormat,omitempty"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty"`
}

// FaultInjectionConfig selects the target to corrupt and how
type FaultInjectionConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Index of the target to corrupt
	Index int `yaml:"index" json:"index"`

	// Count of characters replaced
	Count int `yaml:"count" json:"count"`

	// Offset of the first character that may be replaced
	Offset int `yaml:"offset" json:"offset"`

	// Seed makes the corruption reproducible
	Seed uint64 `yaml:"seed" json:"seed"`
}
