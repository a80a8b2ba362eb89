package binding

import (
	"errors"
	"testing"
)

func TestMirrorSharesReceiverNotLocals(t *testing.T) {
	original := newTestScope()
	mirror := Mirror(original)

	if mirror.Receiver() != original.Receiver() {
		t.Fatalf("expected mirror to share the receiver")
	}
	if err := mirror.Set("@count", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, ok := original.Lookup("@count"); !ok || got != 1 {
		t.Fatalf("expected instance slot set through mirror to be visible, got %v %v", got, ok)
	}
	if err := original.Set("@@shared", "ns"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, ok := mirror.Lookup("@@shared"); !ok || got != "ns" {
		t.Fatalf("expected namespace slot set through original to be visible, got %v %v", got, ok)
	}

	if err := mirror.Set("local", "mirror only"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if original.HasSymbol("local") {
		t.Fatalf("local slot must not leak to the original handle")
	}
	if err := original.Set("other", "original only"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if mirror.HasSymbol("other") {
		t.Fatalf("local slot must not leak to the mirror")
	}
}

func TestInjectByIdentityKeepsReference(t *testing.T) {
	scope := newTestScope()
	repo := &struct{ Name string }{Name: "before"}

	for _, name := range []string{"repo", "@repo", "@@repo", "$repo"} {
		if err := InjectByIdentity(name, repo, scope); err != nil {
			t.Fatalf("inject %s: %v", name, err)
		}
	}
	repo.Name = "after"
	for _, name := range []string{"repo", "@repo", "@@repo", "$repo"} {
		got, ok := scope.Lookup(name)
		if !ok || got != any(repo) {
			t.Fatalf("%s: expected the same reference, got %v", name, got)
		}
	}
	if err := InjectByIdentity("repo", repo, nil); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for nil scope, got %v", err)
	}
}

func TestCopyLocalVariablesIsIndependent(t *testing.T) {
	source := newTestScope()
	if err := source.Set("a", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := source.Set("b", 2); err != nil {
		t.Fatalf("set: %v", err)
	}

	copied, err := CopyLocalVariables([]string{"a"}, source)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied.Receiver() == source.Receiver() {
		t.Fatalf("expected a fresh receiver")
	}
	if got, ok := copied.Lookup("a"); !ok || got != 1 {
		t.Fatalf("expected a=1, got %v %v", got, ok)
	}
	if copied.HasSymbol("b") {
		t.Fatalf("only requested names are copied")
	}
	if err := source.Set("a", 10); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := copied.Lookup("a"); got != 1 {
		t.Fatalf("copy must not follow later writes, got %v", got)
	}

	_, err = CopyLocalVariables([]string{"missing"}, source)
	var undefined *UndefinedLocalSlotError
	if !errors.As(err, &undefined) || !errors.Is(err, ErrUndefinedSymbol) {
		t.Fatalf("expected UndefinedLocalSlotError, got %v", err)
	}
}

func TestCopySlotByClassification(t *testing.T) {
	globals := NewGlobals()
	target := NewScope(nil, WithGlobals(globals))

	for name, value := range map[string]any{"local": 1, "@inst": 2, "@@ns": 3} {
		if err := CopySlot(name, value, target); err != nil {
			t.Fatalf("copy %s: %v", name, err)
		}
		if got, ok := target.Lookup(name); !ok || got != value {
			t.Fatalf("%s: expected %v, got %v", name, value, got)
		}
	}
	if err := CopySlot("$glob", 4, target); err != nil {
		t.Fatalf("copy global: %v", err)
	}
	if _, ok := globals.Get("glob"); ok {
		t.Fatalf("global copy must be a no-op")
	}
}

func TestCopyNamespaceSlotsAndConstants(t *testing.T) {
	source := NewScope(NewObject("src", NewNamespace("Source")), WithGlobals(NewGlobals()))
	for name, value := range map[string]any{"@@a": 1, "@@b": 2, "Limit": 10, "Mode": "fast"} {
		if err := source.Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	target := NewNamespace("Target")
	if err := target.SetConstant("Mode", "slow"); err != nil {
		t.Fatalf("set constant: %v", err)
	}
	target.Slots().Set("a", 0)

	CopyNamespaceSlots(source, target)
	CopyConstants(source, target)

	if got, _ := target.Slots().Get("a"); got != 1 {
		t.Fatalf("expected namespace slot overwritten, got %v", got)
	}
	if got, _ := target.Slots().Get("b"); got != 2 {
		t.Fatalf("expected namespace slot copied, got %v", got)
	}
	if got, _ := target.Constants().Get("Limit"); got != 10 {
		t.Fatalf("expected constant copied, got %v", got)
	}
	if got, _ := target.Constants().Get("Mode"); got != "slow" {
		t.Fatalf("expected existing constant kept, got %v", got)
	}
}

func TestNewScopeWithSeedsValues(t *testing.T) {
	globals := NewGlobals()
	scope, err := NewScopeWith(nil, map[string]any{
		"title":       "notes",
		"@repository": map[string]any{"user_name": "alice"},
		"$env":        "prod",
	}, WithGlobals(globals))
	if err != nil {
		t.Fatalf("new scope: %v", err)
	}
	for _, name := range []string{"title", "@repository", "$env"} {
		if !scope.HasSymbol(name) {
			t.Fatalf("expected %s to be seeded", name)
		}
	}
	if _, err := NewScopeWith(nil, map[string]any{"bad-name": 1}); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestEvalStatement(t *testing.T) {
	scope := newTestScope()
	if err := scope.Set("@price", 10); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := scope.Set("qty", 3); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := EvalStatement("@price * qty", scope)
	if err != nil || got != 30 {
		t.Fatalf("expected 30, got %v %v", got, err)
	}
	got, err = EvalStatementWith(NewJSEvaluator(), "@price * qty", scope)
	if err != nil || got != int64(30) {
		t.Fatalf("expected 30 from js, got %v (%T) %v", got, got, err)
	}
	if _, err := EvalStatement("nope", scope); !errors.Is(err, ErrUndefinedSymbol) {
		t.Fatalf("expected ErrUndefinedSymbol, got %v", err)
	}
}
