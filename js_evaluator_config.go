package binding

type jsEvaluatorConfig struct {
	cache    ProgramCache
	fieldTag string
}

// JSEvaluatorOption configures the JS evaluator.
type JSEvaluatorOption func(*jsEvaluatorConfig)

// JSWithProgramCache caches compiled goja programs keyed by expression.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(cfg *jsEvaluatorConfig) {
		cfg.cache = cache
	}
}

// JSWithFieldNameTag selects the struct tag used to expose Go struct fields
// to scripts. Defaults to "json".
func JSWithFieldNameTag(tag string) JSEvaluatorOption {
	return func(cfg *jsEvaluatorConfig) {
		if tag != "" {
			cfg.fieldTag = tag
		}
	}
}

func applyJSEvaluatorOptions(opts []JSEvaluatorOption) jsEvaluatorConfig {
	cfg := jsEvaluatorConfig{fieldTag: "json"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
