package binding

import (
	"errors"
	"testing"
)

func newTestScope() *Scope {
	return NewScope(nil, WithGlobals(NewGlobals()))
}

func mustRegistry(t *testing.T, scope *Scope, objects, namespaces []Provider) *Registry {
	t.Helper()
	registry, err := NewRegistry(scope, objects, namespaces)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return registry
}

func sourceNames(sources []Source) []string {
	names := make([]string, len(sources))
	for i, source := range sources {
		names[i] = describeSource(source)
	}
	return names
}

func TestResolverUndefinedSingleAmbiguous(t *testing.T) {
	obj1 := NewObject("obj1", nil).Define("foo", Value("foo from obj1"))
	obj2 := NewObject("obj2", nil).Define("bar", Value("bar from obj2"))
	obj3 := NewObject("obj3", nil).Define("foo", Value("foo from obj3"))
	resolver := NewResolver(mustRegistry(t, newTestScope(), []Provider{obj1, obj2, obj3}, nil))

	if got := resolver.Resolve("missing"); got.State() != Undefined || resolver.Exists("missing") {
		t.Fatalf("expected missing to be undefined, got %s", got.State())
	}
	if _, err := resolver.ResolveStrict("missing"); !errors.Is(err, ErrUndefinedSymbol) {
		t.Fatalf("expected ErrUndefinedSymbol, got %v", err)
	}

	owner, err := resolver.ResolveStrict("bar")
	if err != nil || owner != Source(obj2) {
		t.Fatalf("expected obj2 to own bar, got %v %v", owner, err)
	}

	resolution := resolver.Resolve("foo")
	if resolution.State() != Ambiguous || !resolver.Exists("foo") {
		t.Fatalf("expected foo to be ambiguous, got %s", resolution.State())
	}
	_, err = resolver.ResolveStrict("foo")
	var ambiguous *AmbiguousSymbolError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousSymbolError, got %v", err)
	}
	if got := sourceNames(ambiguous.Sources); len(got) != 2 || got[0] != "obj1" || got[1] != "obj3" {
		t.Fatalf("unexpected ambiguous sources: %v", got)
	}
	if want := "Ambiguous method 'foo' is multiply defined in [obj1 obj3]"; err.Error() != want {
		t.Fatalf("expected message %q, got %q", want, err.Error())
	}
}

func TestResolverOrderObjectsNamespacesScope(t *testing.T) {
	scope := newTestScope()
	scope.Receiver().Define("helper", Value("scope"))
	module := NewNamespace("ModuleA").Define("helper", Value("module"))
	obj := NewObject("obj", nil).Define("helper", Value("obj"))

	resolution := NewResolver(mustRegistry(t, scope, []Provider{obj}, []Provider{module})).Resolve("helper")
	got := sourceNames(resolution.Sources)
	want := []string{"obj", "ModuleA", "scope"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestResolverDeduplicatesByIdentity(t *testing.T) {
	obj := NewObject("obj", nil).Define("foo", Value(1))
	resolver := NewResolver(mustRegistry(t, newTestScope(), []Provider{obj, obj}, []Provider{obj}))

	resolution := resolver.Resolve("foo")
	if resolution.State() != Single {
		t.Fatalf("expected single owner after dedupe, got %v", sourceNames(resolution.Sources))
	}
}

func TestResolverIgnoresInheritedAndPrivate(t *testing.T) {
	ns := NewNamespace("Widget").Define("inherited", Value("ns"))
	obj := NewObject("widget", ns)
	if err := obj.Methods().RegisterPrivate("secret", Value("hidden")); err != nil {
		t.Fatalf("register private: %v", err)
	}
	resolver := NewResolver(mustRegistry(t, newTestScope(), []Provider{obj}, nil))

	if resolver.Exists("inherited") {
		t.Fatalf("namespace functions must not count as the object's own")
	}
	if resolver.Exists("secret") {
		t.Fatalf("private functions must not resolve")
	}
	if got, err := obj.Call("secret", nil); err != nil || got != "hidden" {
		t.Fatalf("expected private call through the owner, got %v %v", got, err)
	}
}

func TestResolverIsLive(t *testing.T) {
	obj1 := NewObject("obj1", nil).Define("foo", Value(1))
	obj2 := NewObject("obj2", nil)
	resolver := NewResolver(mustRegistry(t, newTestScope(), []Provider{obj1, obj2}, nil))

	if resolver.Resolve("foo").State() != Single {
		t.Fatalf("expected single owner")
	}
	obj2.Define("foo", Value(2))
	if resolver.Resolve("foo").State() != Ambiguous {
		t.Fatalf("expected definition to be observed")
	}
	obj1.Undefine("foo")
	owner, err := resolver.ResolveStrict("foo")
	if err != nil || owner != Source(obj2) {
		t.Fatalf("expected obj2 after undefine, got %v %v", owner, err)
	}
}

func TestResolverSkipsNamespaces(t *testing.T) {
	framework := NewNamespace("RSpec::Core").Define("describe", Value("framework"))
	helper := NewObject("helper", NewNamespace("RSpec::Helpers")).Define("let", Value("framework"))
	scope := NewScope(nil, WithGlobals(NewGlobals()), WithScopeSkipNamespaces("RSpec"))
	resolver := NewResolver(mustRegistry(t, scope, []Provider{helper}, []Provider{framework}))

	for _, name := range []string{"describe", "let"} {
		if resolver.Exists(name) {
			t.Fatalf("expected %s to be skipped", name)
		}
	}
	trace := resolver.Trace("describe")
	if len(trace.Layers) != 3 || trace.State != "undefined" {
		t.Fatalf("expected skipped providers to still be traced, got %+v", trace)
	}
}

func TestResolverIdempotent(t *testing.T) {
	obj1 := NewObject("obj1", nil).Define("foo", Value(1))
	obj3 := NewObject("obj3", nil).Define("foo", Value(2))
	resolver := NewResolver(mustRegistry(t, newTestScope(), []Provider{obj1, obj3}, nil))

	first := sourceNames(resolver.Resolve("foo").Sources)
	for i := 0; i < 3; i++ {
		again := sourceNames(resolver.Resolve("foo").Sources)
		if len(again) != len(first) || again[0] != first[0] || again[1] != first[1] {
			t.Fatalf("expected identical results, got %v then %v", first, again)
		}
	}
}

func TestNewRegistryRejectsInvalidInput(t *testing.T) {
	var typedNil *Object
	cases := map[string]func() error{
		"nil scope": func() error {
			_, err := NewRegistry(nil, nil, nil)
			return err
		},
		"nil object": func() error {
			_, err := NewRegistry(newTestScope(), []Provider{nil}, nil)
			return err
		},
		"typed nil namespace": func() error {
			_, err := NewRegistry(newTestScope(), nil, []Provider{typedNil})
			return err
		},
	}
	for name, run := range cases {
		if err := run(); !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("%s: expected ErrInvalidConfiguration, got %v", name, err)
		}
	}
}

func TestRegistryCopiesProviderLists(t *testing.T) {
	obj := NewObject("obj", nil).Define("foo", Value(1))
	objects := []Provider{obj}
	registry := mustRegistry(t, newTestScope(), objects, nil)
	objects[0] = NewObject("other", nil)

	if got := registry.Objects(); got[0] != Provider(obj) {
		t.Fatalf("registry must not observe caller slice mutation")
	}
}
