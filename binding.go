package binding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-binding/pkg/activity"
)

// Binding ties providers and a fallback scope together and renders
// templates against them. Every render uses a fresh Surface, so no
// resolution state survives between renders.
type Binding struct {
	registry  *Registry
	evaluator Evaluator
	logger    EvaluatorLogger
	cache     ProgramCache
	scopeName string
	emitter   *activity.Emitter
	identity  ActivityIdentity
}

// New builds a Binding. It fails with *InvalidConfigurationError when a
// provider is nil.
func New(opts ...Option) (*Binding, error) {
	cfg := applyOptions(opts)
	scope := cfg.scope
	if scope == nil {
		scope = NewScope(nil)
	}
	scope = scope.guarded(cfg.skip, cfg.hidden)
	registry, err := NewRegistry(scope, cfg.objects, cfg.namespaces)
	if err != nil {
		return nil, err
	}
	evaluator := cfg.evaluator
	if evaluator == nil {
		evaluator = NewExprEvaluator()
	}
	return &Binding{
		registry:  registry,
		evaluator: evaluator,
		logger:    cfg.logger,
		cache:     cfg.programCache,
		scopeName: cfg.scopeName,
		emitter:   cfg.emitter(),
		identity:  cfg.identity,
	}, nil
}

// Registry returns the providers and scope of the binding.
func (b *Binding) Registry() *Registry {
	return b.registry
}

// Scope returns the fallback scope.
func (b *Binding) Scope() *Scope {
	return b.registry.Scope()
}

// Evaluator returns the configured expression engine.
func (b *Binding) Evaluator() Evaluator {
	return b.evaluator
}

// Surface builds a new dispatch surface over the binding's registry.
func (b *Binding) Surface() *Surface {
	return NewSurface(b.registry)
}

// Exists reports whether at least one source owns name.
func (b *Binding) Exists(name string) bool {
	return b.Surface().Exists(name)
}

// ResolveOwner returns the sole owner of name.
func (b *Binding) ResolveOwner(name string) (Source, error) {
	return b.Surface().ResolveOwner(name)
}

// ResolveOwners lists every owner of name; it never fails.
func (b *Binding) ResolveOwners(name string) []Source {
	return b.Surface().ResolveOwners(name)
}

// Invoke resolves name and calls its owner.
func (b *Binding) Invoke(name string, block Block, args ...any) (any, error) {
	return b.Surface().Invoke(name, block, args...)
}

// Trace reports how every source answers name.
func (b *Binding) Trace(name string) Trace {
	return b.Surface().Trace(name)
}

// Parse parses template, consulting the program cache when one is set.
func (b *Binding) Parse(template string) (*Template, error) {
	if b.cache != nil {
		if cached, ok := b.cache.Get(template); ok {
			if tmpl, ok := cached.(*Template); ok {
				return tmpl, nil
			}
		}
	}
	tmpl, err := ParseTemplate(template)
	if err != nil {
		return nil, err
	}
	if b.cache != nil {
		b.cache.Set(template, tmpl)
	}
	return tmpl, nil
}

// Render expands template. See RenderContext.
func (b *Binding) Render(template string) (string, error) {
	return b.RenderContext(context.Background(), template)
}

// RenderContext expands template against a fresh Surface. Any evaluation
// error aborts the render and is returned wrapped in *EvaluationError; no
// partial output is returned. ctx is checked before rendering and passed to
// activity hooks.
func (b *Binding) RenderContext(ctx context.Context, template string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tmpl, err := b.Parse(template)
	if err != nil {
		return "", err
	}
	return b.RenderTemplate(ctx, tmpl)
}

// RenderTemplate expands a parsed template against a fresh Surface.
func (b *Binding) RenderTemplate(ctx context.Context, tmpl *Template) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	r := renderer{evaluator: b.evaluator, logger: b.logger, scope: b.scopeName}
	out, err := r.render(tmpl, b.Surface())
	b.emitRender(ctx, time.Since(start), err)
	if err != nil {
		return "", err
	}
	return out, nil
}

// emitRender reports the render to activity hooks. Hook failures do not
// change the render result.
func (b *Binding) emitRender(ctx context.Context, duration time.Duration, renderErr error) {
	if !b.emitter.Enabled() {
		return
	}
	scope := b.Scope()
	input := activity.RenderEventInput{
		ActorID:   b.identity.ActorID,
		UserID:    b.identity.UserID,
		TenantID:  b.identity.TenantID,
		RenderID:  uuid.NewString(),
		Engine:    evaluatorEngineName(b.evaluator),
		Receiver:  scope.Receiver().Name(),
		Namespace: scope.Receiver().NamespaceName(),
		Duration:  duration,
		Err:       renderErr,
	}
	if renderErr == nil {
		_ = b.emitter.Emit(ctx, activity.BuildRenderCompletedEvent(input))
		return
	}
	_ = b.emitter.Emit(ctx, activity.BuildRenderFailedEvent(input))

	var ambiguous *AmbiguousSymbolError
	if errors.As(renderErr, &ambiguous) {
		input.Symbol = ambiguous.Name
		for _, source := range ambiguous.Sources {
			input.Owners = append(input.Owners, describeSource(source))
		}
		_ = b.emitter.Emit(ctx, activity.BuildSymbolAmbiguousEvent(input))
	}
}

// String summarises the binding for debugging.
func (b *Binding) String() string {
	names := func(providers []Provider) string {
		out := make([]string, len(providers))
		for i, p := range providers {
			out[i] = describeSource(p)
		}
		return "[" + strings.Join(out, ", ") + "]"
	}
	return fmt.Sprintf("Binding{engine=%s receiver=%s objects=%s namespaces=%s}",
		evaluatorEngineName(b.evaluator),
		b.Scope().Receiver().Name(),
		names(b.registry.Objects()),
		names(b.registry.Namespaces()),
	)
}
