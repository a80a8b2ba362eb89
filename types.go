package binding

import "fmt"

// Block is the trailing callback a caller may hand to a Function.
type Block func(args ...any) (any, error)

// Function represents a callable exposed by a provider. block is nil when the
// caller did not supply a trailing callback.
type Function func(block Block, args ...any) (any, error)

// Func adapts a block-less function into a Function.
func Func(fn func(args ...any) (any, error)) Function {
	if fn == nil {
		return nil
	}
	return func(_ Block, args ...any) (any, error) {
		return fn(args...)
	}
}

// Value returns a Function that ignores its arguments and returns v.
func Value(v any) Function {
	return func(Block, ...any) (any, error) {
		return v, nil
	}
}

// Source is anything that can own a symbol: a Provider or ScopeTag.
type Source interface {
	SourceName() string
}

// Provider contributes callables to resolution. Method must only report
// public callables registered directly on the provider itself. Providers are
// deduplicated by identity, so implementations must be comparable (pointer
// receivers are the norm).
type Provider interface {
	Source
	Method(name string) (Function, bool)
	// NamespaceName names the provider's own namespace (for objects, the
	// namespace of their type). It is matched against skip lists.
	NamespaceName() string
}

type scopeSource struct{}

func (scopeSource) SourceName() string { return "scope" }

func (scopeSource) String() string { return "scope" }

// ScopeTag is the synthetic source reported when the fallback scope owns a
// symbol.
var ScopeTag Source = scopeSource{}

func describeSource(source Source) string {
	if source == nil {
		return "<nil>"
	}
	return source.SourceName()
}

func describeSources(sources []Source) string {
	names := make([]string, len(sources))
	for i, source := range sources {
		names[i] = describeSource(source)
	}
	return fmt.Sprintf("%v", names)
}
