package binding

import (
	"strings"
	"testing"
)

func TestScopeContents(t *testing.T) {
	globals := NewGlobals()
	globals.Set("env", "prod")
	globals.Set("stdout", "os")
	receiver := NewObject("view", NewNamespace("Views")).Define("title", Value("x"))
	scope := NewScope(receiver, WithGlobals(globals), WithHiddenGlobals("stdout"))
	for name, value := range map[string]any{"_": "ignored", "page": 1, "@user": "u", "@@count": 2} {
		if err := scope.Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}

	c := scope.Contents()
	check := func(label string, got []string, want ...string) {
		t.Helper()
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Fatalf("%s: expected %v, got %v", label, want, got)
		}
	}
	check("locals", c.Locals, "page")
	check("instance", c.InstanceSlots, "@user")
	check("namespace", c.NamespaceSlots, "@@count")
	check("globals", c.Globals, "$env")
	check("methods", c.Methods, "title")

	want := "class_vars: @@count\nglobals: $env\ninstance_vars: @user\nlocals: page\nmethods: title"
	if c.String() != want {
		t.Fatalf("unexpected contents:\nwant: %s\n got: %s", want, c.String())
	}
	if !strings.HasPrefix(scope.String(), "#<Scope view\n  class_vars: @@count") {
		t.Fatalf("unexpected scope string: %s", scope.String())
	}
}

func TestEmptyScopeString(t *testing.T) {
	scope := newTestScope()
	if !scope.Contents().Empty() {
		t.Fatalf("expected empty contents")
	}
	if scope.String() != "#<Scope main>" {
		t.Fatalf("unexpected string %q", scope.String())
	}
}
