package loader

import (
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the environment variable prefix, e.g. RANGEBAR_MAX.
const EnvPrefix = "RANGEBAR"

// EnvConfig holds the settings that can be overridden from the environment.
// Unset variables leave the file value alone.
type EnvConfig struct {
	// Env: RANGEBAR_MIN
	Min *float64 `envconfig:"MIN"`
	// Env: RANGEBAR_MAX
	Max *float64 `envconfig:"MAX"`
	// Env: RANGEBAR_STEP
	Step *float64 `envconfig:"STEP"`
	// Env: RANGEBAR_KEYDOWN_STEP
	KeydownStep *float64 `envconfig:"KEYDOWN_STEP"`
	// Env: RANGEBAR_DISABLED
	Disabled *bool `envconfig:"DISABLED"`
	// Env: RANGEBAR_VERTICAL
	Vertical *bool `envconfig:"VERTICAL"`
	// Env: RANGEBAR_LOG_LEVEL
	LogLevel string `envconfig:"LOG_LEVEL"`
	// Env: RANGEBAR_LOG_FORMAT
	LogFormat string `envconfig:"LOG_FORMAT"`
}

// EnvLoader loads overrides from environment variables.
type EnvLoader struct {
	prefix string
}

// NewEnvLoader creates a loader for variables starting with prefix and an
// underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix}
}

// Process reads the environment into an EnvConfig.
func (l *EnvLoader) Process() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(l.prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// Load returns the overrides in configuration map shape.
func (l *EnvLoader) Load() (map[string]any, error) {
	cfg, err := l.Process()
	if err != nil {
		return nil, err
	}
	return cfg.Map(), nil
}

// Map converts the set fields to a configuration map.
func (c EnvConfig) Map() map[string]any {
	out := make(map[string]any)
	setFloat := func(key string, v *float64) {
		if v != nil {
			out[key] = *v
		}
	}
	setBool := func(key string, v *bool) {
		if v != nil {
			out[key] = *v
		}
	}
	setFloat("min", c.Min)
	setFloat("max", c.Max)
	setFloat("step", c.Step)
	setFloat("keydown_step", c.KeydownStep)
	setBool("disabled", c.Disabled)
	setBool("vertical", c.Vertical)

	log := make(map[string]any)
	if c.LogLevel != "" {
		log["level"] = c.LogLevel
	}
	if c.LogFormat != "" {
		log["format"] = c.LogFormat
	}
	if len(log) > 0 {
		out["log"] = log
	}
	return out
}
