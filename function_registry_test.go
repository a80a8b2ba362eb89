package binding

import (
	"errors"
	"strings"
	"testing"
)

func TestFunctionRegistryRegister(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("greet", Value("hi")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("greet", Value("again")); err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err := registry.Define("greet", Value("replaced")); err != nil {
		t.Fatalf("define: %v", err)
	}
	got, err := registry.Call("greet", nil)
	if err != nil || got != "replaced" {
		t.Fatalf("expected replaced, got %v %v", got, err)
	}

	for _, name := range []string{"@slot", "$global", "Const", "bad name", ""} {
		if err := registry.Register(name, Value(1)); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
	if err := registry.Register("nil_fn", nil); err == nil {
		t.Fatalf("expected nil function to be rejected")
	}
}

func TestFunctionRegistryPrivateAndRemove(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.RegisterPrivate("secret", Value("s")); err != nil {
		t.Fatalf("register private: %v", err)
	}
	if err := registry.Register("open", Value("o")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, ok := registry.Lookup("secret"); ok {
		t.Fatalf("private functions must not be looked up")
	}
	if got := strings.Join(registry.Names(), ","); got != "open" {
		t.Fatalf("expected only public names, got %s", got)
	}
	if got, err := registry.Call("secret", nil); err != nil || got != "s" {
		t.Fatalf("expected private call to succeed, got %v %v", got, err)
	}

	clone := registry.Clone()
	if !registry.Remove("open") || registry.Remove("open") {
		t.Fatalf("expected Remove to report presence once")
	}
	if _, ok := clone.Lookup("open"); !ok {
		t.Fatalf("clone must keep removed entries")
	}
	if _, err := registry.Call("open", nil); !errors.Is(err, ErrUndefinedSymbol) {
		t.Fatalf("expected ErrUndefinedSymbol, got %v", err)
	}
}

func TestPrivateMethodsDoNotResolve(t *testing.T) {
	obj := NewObject("obj", nil)
	if err := obj.Methods().RegisterPrivate("hidden", Value("h")); err != nil {
		t.Fatalf("register private: %v", err)
	}
	b := mustBinding(t, WithScope(newTestScope()), WithObjects(obj))
	if b.Exists("hidden") {
		t.Fatalf("private method must not be resolvable")
	}
	if got, err := obj.Call("hidden", nil); err != nil || got != "h" {
		t.Fatalf("expected direct call to work, got %v %v", got, err)
	}
}
