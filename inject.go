package binding

import "fmt"

// Mirror returns a second handle on scope's receiver. Instance and namespace
// slots written through either handle are visible through the other; locals
// are never shared.
func Mirror(scope *Scope) *Scope {
	return scope.derive(scope.receiver)
}

// InjectByIdentity binds name in target to value itself, not a copy. The
// slot category follows name's prefix; "$name" sets a global.
func InjectByIdentity(name string, value any, target *Scope) error {
	if target == nil {
		return &InvalidConfigurationError{Field: "scope", Reason: "target scope must not be nil"}
	}
	return target.Set(name, value)
}

// CopyLocalVariables creates a scope on a fresh receiver holding the current
// values of names read from source's local frame. The copies are independent:
// later writes to either scope are not reflected in the other.
func CopyLocalVariables(names []string, source *Scope) (*Scope, error) {
	if source == nil {
		return nil, &InvalidConfigurationError{Field: "scope", Reason: "source scope must not be nil"}
	}
	target := source.derive(NewObject(MainObject, nil))
	for _, name := range names {
		if Classify(name) != KindCallable {
			return nil, &InvalidConfigurationError{Field: "local", Reason: fmt.Sprintf("%q is not a local variable name", name)}
		}
		value, ok := source.locals.Get(name)
		if !ok {
			return nil, &UndefinedLocalSlotError{Name: name}
		}
		target.locals.Set(name, value)
	}
	return target, nil
}

// CopySlot writes value into target by name's classification. Globals are
// visible from every scope, so a global name is left untouched.
func CopySlot(name string, value any, target *Scope) error {
	if Classify(name) == KindGlobalSlot {
		return nil
	}
	return InjectByIdentity(name, value, target)
}

// CopyNamespaceSlots copies every namespace slot of source's receiver type
// into target, overwriting existing entries.
func CopyNamespaceSlots(source *Scope, target *Namespace) {
	from := source.receiver.Namespace().Slots()
	for _, name := range from.Names() {
		value, _ := from.Get(name)
		target.Slots().Set(name, value)
	}
}

// CopyConstants copies the constants of source's receiver type into target.
// Constants already defined on target are kept.
func CopyConstants(source *Scope, target *Namespace) {
	from := source.receiver.Namespace().Constants()
	for _, name := range from.Names() {
		if target.Constants().Has(name) {
			continue
		}
		value, _ := from.Get(name)
		target.Constants().Set(name, value)
	}
}

// NewScopeWith creates a scope on receiver and injects values by identity,
// in sorted name order.
func NewScopeWith(receiver *Object, values map[string]any, opts ...ScopeOption) (*Scope, error) {
	scope := NewScope(receiver, opts...)
	if err := Seed(values).Apply(scope); err != nil {
		return nil, err
	}
	return scope, nil
}

// EvalStatement evaluates code against scope alone using the expr engine.
func EvalStatement(code string, scope *Scope) (any, error) {
	return EvalStatementWith(NewExprEvaluator(), code, scope)
}

// EvalStatementWith evaluates code against scope alone using evaluator. No
// provider takes part, so only scope symbols resolve.
func EvalStatementWith(evaluator Evaluator, code string, scope *Scope) (any, error) {
	registry, err := NewRegistry(scope, nil, nil)
	if err != nil {
		return nil, err
	}
	ctx := EvalContext{Surface: NewSurface(registry)}
	value, err := evaluator.Evaluate(ctx, code)
	if err != nil {
		return nil, evalError(evaluatorEngineName(evaluator), code, ctx.scopeLabel(), err)
	}
	return value, nil
}

// Eval evaluates one expression against the binding's providers and scope.
func (b *Binding) Eval(code string) (any, error) {
	ctx := EvalContext{Surface: b.Surface(), ScopeName: b.scopeName}
	value, err := b.evaluator.Evaluate(ctx, code)
	if err != nil {
		return nil, evalError(evaluatorEngineName(b.evaluator), code, ctx.scopeLabel(), err)
	}
	return value, nil
}
