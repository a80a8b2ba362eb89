package binding

import (
	"errors"
	"testing"
)

func TestSurfaceInvokeForwardsArgsAndBlock(t *testing.T) {
	var gotBlock Block
	obj := NewObject("obj", nil).Define("each", func(block Block, args ...any) (any, error) {
		gotBlock = block
		var out []any
		for _, arg := range args {
			value, err := block(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	})
	surface := NewSurface(mustRegistry(t, newTestScope(), []Provider{obj}, nil))

	double := func(args ...any) (any, error) { return args[0].(int) * 2, nil }
	got, err := surface.Invoke("each", double, 1, 2)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	values := got.([]any)
	if len(values) != 2 || values[0] != 2 || values[1] != 4 {
		t.Fatalf("unexpected result: %v", values)
	}
	if gotBlock == nil {
		t.Fatalf("expected block to be forwarded")
	}
}

func TestSurfaceInvokeScopeSlots(t *testing.T) {
	scope := newTestScope()
	repo := map[string]any{"user_name": "alice"}
	if err := scope.Set("@repository", repo); err != nil {
		t.Fatalf("set: %v", err)
	}
	surface := NewSurface(mustRegistry(t, scope, nil, nil))

	owner, err := surface.ResolveOwner("@repository")
	if err != nil || owner != ScopeTag {
		t.Fatalf("expected scope tag owner, got %v %v", owner, err)
	}
	got, err := surface.Invoke("@repository", nil)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got.(map[string]any)["user_name"] != "alice" {
		t.Fatalf("unexpected slot value: %v", got)
	}
}

func TestSurfaceExistsVersusInvoke(t *testing.T) {
	obj1 := NewObject("obj1", nil).Define("foo", Value("X"))
	obj3 := NewObject("obj3", nil).Define("foo", Value("Y"))
	surface := NewSurface(mustRegistry(t, newTestScope(), []Provider{obj1, obj3}, nil))

	if !surface.Exists("foo") {
		t.Fatalf("expected ambiguous symbol to exist")
	}
	if _, err := surface.Invoke("foo", nil); !errors.Is(err, ErrAmbiguousSymbol) {
		t.Fatalf("expected ErrAmbiguousSymbol, got %v", err)
	}
	owners := surface.ResolveOwners("foo")
	if len(owners) != 2 {
		t.Fatalf("expected both owners, got %v", sourceNames(owners))
	}
}

func TestSurfaceResolveOwnersEmptyNotNil(t *testing.T) {
	surface := NewSurface(mustRegistry(t, newTestScope(), nil, nil))
	owners := surface.ResolveOwners("missing")
	if owners == nil || len(owners) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", owners)
	}
	if _, err := surface.Invoke("missing", nil); !errors.Is(err, ErrUndefinedSymbol) {
		t.Fatalf("expected ErrUndefinedSymbol, got %v", err)
	}
}

func TestSurfaceFuncResolvesPerCall(t *testing.T) {
	obj1 := NewObject("obj1", nil).Define("foo", Value(1))
	obj2 := NewObject("obj2", nil)
	surface := NewSurface(mustRegistry(t, newTestScope(), []Provider{obj1, obj2}, nil))

	fn := surface.Func("foo")
	if got, err := fn(nil); err != nil || got != 1 {
		t.Fatalf("expected 1, got %v %v", got, err)
	}
	obj1.Undefine("foo")
	obj2.Define("foo", Value(2))
	if got, err := fn(nil); err != nil || got != 2 {
		t.Fatalf("expected forwarding closure to follow the new owner, got %v %v", got, err)
	}
	obj1.Define("foo", Value(1))
	if _, err := fn(nil); !errors.Is(err, ErrAmbiguousSymbol) {
		t.Fatalf("expected ambiguity through the closure, got %v", err)
	}
}

func TestSurfaceReturnsProviderResultUnmodified(t *testing.T) {
	payload := &struct{ N int }{N: 7}
	obj := NewObject("obj", nil).Define("payload", Value(payload))
	surface := NewSurface(mustRegistry(t, newTestScope(), []Provider{obj}, nil))

	got, err := surface.Invoke("payload", nil)
	if err != nil || got != any(payload) {
		t.Fatalf("expected identical pointer, got %v %v", got, err)
	}
}
