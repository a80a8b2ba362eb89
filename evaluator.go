package binding

// Evaluator executes one template expression against a Surface. A free
// identifier resolves through the surface when the program reads or calls
// it, never before; "@name", "@@name" and "$name" address scope slots.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
}

// EvalContext carries the inputs needed when evaluating an expression.
type EvalContext struct {
	Surface *Surface
	// ScopeName labels errors and log events. Defaults to the receiver name.
	ScopeName string
}

func (ctx EvalContext) scopeLabel() string {
	if ctx.ScopeName != "" {
		return ctx.ScopeName
	}
	if ctx.Surface != nil && ctx.Surface.Scope() != nil {
		return ctx.Surface.Scope().Receiver().Name()
	}
	return "unknown"
}

// errorTrap keeps the first error raised by a bound callable. Engines rewrap
// errors returned by host functions; the trapped error is surfaced instead so
// callers can still match *AmbiguousSymbolError and friends.
type errorTrap struct {
	err error
}

func (t *errorTrap) record(err error) error {
	if t.err == nil {
		t.err = err
	}
	return err
}

func (t *errorTrap) pick(err error) error {
	if t.err != nil {
		return t.err
	}
	return err
}

// catch records err and passes the pair through, for host functions
// returning (value, error).
func (t *errorTrap) catch(value any, err error) (any, error) {
	if err != nil {
		return nil, t.record(err)
	}
	return value, nil
}

// lazyRef resolves name through surface each time it runs. Engines bind
// every free identifier to one, so a name costs nothing until the program
// reaches it.
func lazyRef(surface *Surface, name string, trap *errorTrap) Function {
	return func(block Block, args ...any) (any, error) {
		return trap.catch(surface.Invoke(name, block, args...))
	}
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch e.(type) {
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	case *jsEvaluator:
		return "js"
	default:
		return "custom"
	}
}
