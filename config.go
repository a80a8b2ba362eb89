package binding

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/goliatone/go-binding/pkg/activity"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "BINDING_"

// Config is the environment-driven configuration of a Binding.
type Config struct {
	Engine          string   `env:"ENGINE"           envDefault:"expr"`
	SkipNamespaces  []string `env:"SKIP_NAMESPACES"  envSeparator:","`
	HiddenGlobals   []string `env:"HIDDEN_GLOBALS"   envSeparator:","`
	ActivityEnabled bool     `env:"ACTIVITY_ENABLED" envDefault:"false"`
	ActivityChannel string   `env:"ACTIVITY_CHANNEL" envDefault:"binding"`
}

// LoadConfig reads BINDING_* variables from the process environment.
func LoadConfig() (Config, error) {
	return LoadConfigFrom(nil)
}

// LoadConfigFrom reads BINDING_* variables from environ. A nil map reads the
// process environment.
func LoadConfigFrom(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NewEvaluator returns the evaluator registered under engine: "expr", "cel"
// or "js". cache is handed to engines that compile programs.
func NewEvaluator(engine string, cache ProgramCache) (Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", "expr":
		return NewExprEvaluator(), nil
	case "cel":
		return NewCELEvaluator(), nil
	case "js", "javascript":
		return NewJSEvaluator(JSWithProgramCache(cache)), nil
	default:
		return nil, &InvalidConfigurationError{Field: "engine", Reason: fmt.Sprintf("unknown engine %q", engine)}
	}
}

// Options translates the configuration into Binding options.
func (c Config) Options() ([]Option, error) {
	evaluator, err := NewEvaluator(c.Engine, nil)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithEvaluator(evaluator),
		WithSkipNamespaces(c.SkipNamespaces...),
		WithHiddenGlobalNames(c.HiddenGlobals...),
		WithActivityConfig(activity.Config{
			Enabled: c.ActivityEnabled,
			Channel: c.ActivityChannel,
		}),
	}, nil
}
