package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aryankumar/pingpool/internal/faultinject"
	"github.com/aryankumar/pingpool/internal/util"
)

const (
	defaultConfigName = ".pingpool"
	defaultConfigDir  = ".pingpool"

	// EnvPrefix prefixes environment overrides, e.g. PINGPOOL_DEFAULTS_PARALLEL
	EnvPrefix = "PINGPOOL"
)

// Built-in defaults
const (
	DefaultParallel     = 4
	DefaultGracePeriod  = 2 * time.Second
	DefaultTimeout      = 10 * time.Second
	DefaultMode         = "stream"
	DefaultOutputFormat = "text"
)

// DefaultTargets is the batch probed when neither the command line nor the
// configuration file names any targets
var DefaultTargets = []string{
	"http://www.youtube.com/",
	"http://www.google.com/",
	"http://www.date4j.net",
	"http://www.web4j.com",
	"http://www.ebay.com",
	"http://www.paypal.com",
	"http://www.apache.org",
	"http://www.github.com",
}

var (
	validModes   = []string{"stream", "batch", "sequential"}
	validFormats = []string{"text", "table", "json", "yaml"}
)

// Manager handles pingpool configuration
type Manager struct {
	configPath string
	config     *PingConfig
	viper      *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &PingConfig{},
	}
}

// Load reads the configuration file and PINGPOOL_ environment overrides.
// A missing file is not an error; built-in defaults apply.
func (m *Manager) Load() (*PingConfig, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		// ~/.pingpool/.pingpool.yaml is unusual, config.yaml is found via the
		// second name below
		m.viper.AddConfigPath(filepath.Join(home, defaultConfigDir))
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	m.viper.SetEnvPrefix(EnvPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
	setDefaults(m.viper)

	if err := m.readConfig(); err != nil {
		return nil, err
	}

	m.config = &PingConfig{}
	if err := m.viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return m.config, nil
}

func (m *Manager) readConfig() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Fall back to ~/.pingpool/config.yaml
	if m.configPath == "" {
		if home, herr := os.UserHomeDir(); herr == nil {
			alt := filepath.Join(home, defaultConfigDir, "config.yaml")
			if _, serr := os.Stat(alt); serr == nil {
				m.viper.SetConfigFile(alt)
				if rerr := m.viper.ReadInConfig(); rerr != nil {
					return fmt.Errorf("failed to read config file: %w", rerr)
				}
			}
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("targets", []string{})
	v.SetDefault("defaults.parallel", DefaultParallel)
	v.SetDefault("defaults.gracePeriod", DefaultGracePeriod)
	v.SetDefault("defaults.timeout", DefaultTimeout)
	v.SetDefault("defaults.mode", DefaultMode)
	v.SetDefault("defaults.failFast", false)
	v.SetDefault("defaults.outputFormat", DefaultOutputFormat)
	v.SetDefault("defaults.noColor", false)
	v.SetDefault("faultInjection.enabled", false)
	v.SetDefault("faultInjection.index", 0)
	v.SetDefault("faultInjection.count", 1)
	v.SetDefault("faultInjection.offset", faultinject.DefaultOffset)
	v.SetDefault("faultInjection.seed", 0)
}

// Save writes the configuration to file, creating ~/.pingpool/config.yaml
// when no path was given
func (m *Manager) Save() error {
	if m.configPath == "" {
		if used := m.viper.ConfigFileUsed(); used != "" {
			m.configPath = used
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			m.configPath = filepath.Join(home, defaultConfigDir, "config.yaml")
		}
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.viper.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BindFlag lets an explicitly set command-line flag override key. An unset
// flag leaves the file, environment and built-in values in charge.
func (m *Manager) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return nil
	}
	if err := m.viper.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
	}
	return nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *PingConfig {
	return m.config
}

// Path returns the file Save writes to, or "" before a path is known
func (m *Manager) Path() string {
	if m.configPath != "" {
		return m.configPath
	}
	return m.viper.ConfigFileUsed()
}

// AddTarget appends target to the configured batch unless an equivalent
// target is already present. It reports whether the batch changed.
func (m *Manager) AddTarget(target string) bool {
	for _, t := range m.config.Targets {
		if util.SameTarget(t, target) {
			return false
		}
	}

	m.config.Targets = append(m.config.Targets, target)
	m.viper.Set("targets", m.config.Targets)
	return true
}

// RemoveTarget removes every target equivalent to target and reports
// whether any was removed
func (m *Manager) RemoveTarget(target string) bool {
	before := len(m.config.Targets)
	m.config.Targets = slices.DeleteFunc(m.config.Targets, func(t string) bool {
		return util.SameTarget(t, target)
	})
	if len(m.config.Targets) == before {
		return false
	}

	m.viper.Set("targets", m.config.Targets)
	return true
}

// ResolveTargets returns args when given, else the configured targets,
// else DefaultTargets
func (c *PingConfig) ResolveTargets(args []string) []string {
	switch {
	case len(args) > 0:
		return args
	case len(c.Targets) > 0:
		return c.Targets
	default:
		return slices.Clone(DefaultTargets)
	}
}

// Injector returns the configured fault injector, or false when disabled
func (c *PingConfig) Injector() (faultinject.Injector, bool) {
	fi := c.FaultInjection
	if !fi.Enabled {
		return faultinject.Injector{}, false
	}
	return faultinject.Injector{Index: fi.Index, Count: fi.Count, Offset: fi.Offset, Seed: fi.Seed}, true
}

// Validate rejects values no run could use
func (c *PingConfig) Validate() error {
	var errs []error

	if c.Defaults.Parallel <= 0 {
		errs = append(errs, util.NewValidationError("defaults.parallel", c.Defaults.Parallel, "must be positive"))
	}
	if c.Defaults.GracePeriod <= 0 {
		errs = append(errs, util.NewValidationError("defaults.gracePeriod", c.Defaults.GracePeriod, "must be positive"))
	}
	if c.Defaults.Timeout < 0 {
		errs = append(errs, util.NewValidationError("defaults.timeout", c.Defaults.Timeout, "must not be negative"))
	}
	if !slices.Contains(validModes, strings.ToLower(c.Defaults.Mode)) {
		errs = append(errs, util.NewValidationError("defaults.mode", c.Defaults.Mode, "must be one of "+strings.Join(validModes, ", ")))
	}
	if !slices.Contains(validFormats, strings.ToLower(c.Defaults.OutputFormat)) {
		errs = append(errs, util.NewValidationError("defaults.outputFormat", c.Defaults.OutputFormat, "must be one of "+strings.Join(validFormats, ", ")))
	}
	if c.FaultInjection.Enabled {
		if c.FaultInjection.Count <= 0 {
			errs = append(errs, util.NewValidationError("faultInjection.count", c.FaultInjection.Count, "must be positive"))
		}
		if c.FaultInjection.Offset < 0 {
			errs = append(errs, util.NewValidationError("faultInjection.offset", c.FaultInjection.Offset, "must not be negative"))
		}
	}
	for i, t := range c.Targets {
		if strings.TrimSpace(t) == "" {
			errs = append(errs, util.NewValidationError(fmt.Sprintf("targets[%d]", i), t, "must not be empty"))
		}
	}

	return util.CombineErrors(errs...)
}
