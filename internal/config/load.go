package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dshills/rangebar/internal/config/loader"
	"github.com/dshills/rangebar/internal/transform"
)

// loadOptions configures Load.
type loadOptions struct {
	fs        loader.FileSystem
	envPrefix string
	useEnv    bool
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithFS reads the config file through fsys.
func WithFS(fsys loader.FileSystem) LoadOption {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) LoadOption {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// WithoutEnv skips the environment layer.
func WithoutEnv() LoadOption {
	return func(o *loadOptions) {
		o.useEnv = false
	}
}

// Load reads path, layers it over the defaults and under the environment,
// and decodes the result. An empty path loads defaults and environment only.
func Load(path string, opts ...LoadOption) (*Document, error) {
	o := loadOptions{
		fs:        loader.DefaultFS(),
		envPrefix: loader.EnvPrefix,
		useEnv:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := Defaults()

	if path != "" {
		fl, err := loader.NewWithFS(o.fs, path)
		if err != nil {
			return nil, err
		}
		file, err := fl.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, file)
	}

	if o.useEnv {
		env, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return nil, fmt.Errorf("environment overrides: %w", err)
		}
		merged = loader.DeepMerge(merged, env)
	}

	return Decode(merged)
}

// CompileTransforms compiles the Lua transforms of every handle and installs
// them into Bar.Handles. The caller owns the returned expressions and must
// close them once the bar is rebuilt or dropped.
func (d *Document) CompileTransforms(log zerolog.Logger) ([]*transform.Expr, error) {
	var exprs []*transform.Expr
	for i, src := range d.Transforms {
		if src == "" {
			continue
		}
		expr, err := transform.Compile(src)
		if err != nil {
			transform.CloseAll(exprs)
			return nil, fieldErr(fmt.Sprintf("handles[%d].transform", i), err)
		}
		exprs = append(exprs, expr)

		hlog := log.With().Int("handle", i).Str("key", d.Bar.Handles[i].Key).Logger()
		d.Bar.Handles[i].Transform = expr.Func(hlog)
	}
	return exprs, nil
}
