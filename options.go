package binding

import (
	"github.com/goliatone/go-binding/pkg/activity"
)

// Option configures a Binding.
type Option func(*bindingConfig)

type bindingConfig struct {
	scope          *Scope
	objects        []Provider
	namespaces     []Provider
	evaluator      Evaluator
	logger         EvaluatorLogger
	programCache   ProgramCache
	skip           []string
	hidden         []string
	scopeName      string
	activityHooks  activity.Hooks
	activityConfig *activity.Config
	identity       ActivityIdentity
}

// ActivityIdentity identifies who triggered the renders of a Binding.
type ActivityIdentity struct {
	ActorID  string
	UserID   string
	TenantID string
}

func applyOptions(opts []Option) bindingConfig {
	cfg := bindingConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithScope sets the fallback scope. Without it a fresh scope on a "main"
// receiver is used.
func WithScope(scope *Scope) Option {
	return func(cfg *bindingConfig) {
		cfg.scope = scope
	}
}

// WithObjects appends object providers, consulted in order.
func WithObjects(objects ...Provider) Option {
	return func(cfg *bindingConfig) {
		cfg.objects = append(cfg.objects, objects...)
	}
}

// WithNamespaces appends namespace providers, consulted after objects.
func WithNamespaces(namespaces ...Provider) Option {
	return func(cfg *bindingConfig) {
		cfg.namespaces = append(cfg.namespaces, namespaces...)
	}
}

// WithEvaluator selects the expression engine. Defaults to NewExprEvaluator.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *bindingConfig) {
		cfg.evaluator = e
	}
}

// WithSkipNamespaces hides providers and receivers whose namespace name
// starts with any of prefixes. The binding works on its own handle of the
// scope, so the caller's scope keeps its skip list.
func WithSkipNamespaces(prefixes ...string) Option {
	return func(cfg *bindingConfig) {
		cfg.skip = append(cfg.skip, prefixes...)
	}
}

// WithHiddenGlobalNames hides global names from the binding's handle of the
// scope.
func WithHiddenGlobalNames(names ...string) Option {
	return func(cfg *bindingConfig) {
		cfg.hidden = append(cfg.hidden, names...)
	}
}

// WithScopeName labels evaluation errors and log events. Defaults to the
// receiver name.
func WithScopeName(name string) Option {
	return func(cfg *bindingConfig) {
		cfg.scopeName = name
	}
}

// WithActivityHooks attaches activity hooks. Nil entries are dropped.
// Emission is enabled unless WithActivityConfig says otherwise.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := activity.CloneHooks(hooks)
	return func(cfg *bindingConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivityConfig controls activity emission (enabled flag, channel).
func WithActivityConfig(config activity.Config) Option {
	return func(cfg *bindingConfig) {
		cfg.activityConfig = &config
	}
}

// WithActivityIdentity stamps actor, user and tenant IDs on emitted events.
func WithActivityIdentity(identity ActivityIdentity) Option {
	return func(cfg *bindingConfig) {
		cfg.identity = identity
	}
}

func (cfg bindingConfig) emitter() *activity.Emitter {
	config := activity.Config{Enabled: true}
	if cfg.activityConfig != nil {
		config = *cfg.activityConfig
	}
	return activity.NewEmitter(cfg.activityHooks, config)
}
