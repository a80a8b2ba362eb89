package binding

import (
	"fmt"
	"reflect"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	"github.com/google/cel-go/interpreter"

	"github.com/goliatone/go-binding/internal/sigil"
)

const defaultCELMaxArity = 4

// Identifiers the CEL checker reserves for type names.
var celTypeNames = map[string]bool{
	"int": true, "uint": true, "double": true, "bool": true, "string": true,
	"bytes": true, "list": true, "map": true, "null_type": true, "type": true,
	"dyn": true,
}

var celProviderType = types.NewObjectType("binding.Provider", traits.IndexerType)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithMaxArity sets how many positional arguments a bound callable
// accepts. CEL overloads have fixed arity, so one overload is declared per
// count from zero to n.
func CELWithMaxArity(n int) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if n >= 0 {
			e.maxArity = n
		}
	}
}

// CELWithEnvOptions appends cel-go environment options, e.g. extension
// libraries, to every environment the evaluator builds.
func CELWithEnvOptions(options ...celgo.EnvOption) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.envOptions = append(e.envOptions, options...)
	}
}

type celEvaluator struct {
	maxArity   int
	envOptions []celgo.EnvOption
	// builtins holds functions and macros the base environment already
	// declares; calls to them are never routed through the surface.
	builtins map[string]bool
}

// NewCELEvaluator constructs an Evaluator backed by cel-go. Bound callables
// receive no block.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{maxArity: defaultCELMaxArity, builtins: map[string]bool{}}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if base, err := celgo.NewEnv(e.envOptions...); err == nil {
		for name := range base.Functions() {
			e.builtins[name] = true
		}
		for _, macro := range base.Macros() {
			e.builtins[macro.Function()] = true
		}
	}
	return e
}

// Evaluate declares every bare reference as a dyn variable and every called
// reference as a function. Values are fetched through the activation only
// when the interpreter reads them.
func (e *celEvaluator) Evaluate(ctx EvalContext, expression string) (any, error) {
	scope := ctx.scopeLabel()
	fail := func(err error) (any, error) {
		return nil, evalError("cel", expression, scope, err)
	}
	if strings.TrimSpace(expression) == "" {
		return fail(ErrEmptyExpression)
	}
	rewritten := sigil.Rewrite(expression)

	trap := &errorTrap{}
	options := append([]celgo.EnvOption{}, e.envOptions...)
	activation := &celActivation{surface: ctx.Surface, trap: trap, names: map[string]string{}}
	for _, r := range rewritten.Refs {
		if r.Call && !e.builtins[r.Mangled] {
			options = append(options, e.function(r.Mangled, ctx.Surface.Func(r.Name), trap))
		}
		if r.Bare && !celTypeNames[r.Mangled] {
			options = append(options, celgo.Variable(r.Mangled, celgo.DynType))
			activation.names[r.Mangled] = r.Name
		}
	}

	env, err := celgo.NewEnv(options...)
	if err != nil {
		return fail(err)
	}
	checked, issues := env.Compile(rewritten.Code)
	if issues != nil && issues.Err() != nil {
		return fail(issues.Err())
	}
	program, err := env.Program(checked)
	if err != nil {
		return fail(err)
	}
	out, _, err := program.Eval(activation)
	if err != nil {
		return fail(trap.pick(err))
	}
	if types.IsError(out) {
		return fail(trap.pick(fmt.Errorf("%v", out)))
	}
	return out.Value(), nil
}

func (e *celEvaluator) function(name string, fn Function, trap *errorTrap) celgo.EnvOption {
	binding := celgo.FunctionBinding(func(values ...ref.Val) ref.Val {
		arguments := make([]any, len(values))
		for i, value := range values {
			arguments[i] = value.Value()
		}
		result, err := fn(nil, arguments...)
		if err != nil {
			return types.WrapErr(trap.record(err))
		}
		return celValue(result, trap)
	})

	overloads := make([]celgo.FunctionOpt, 0, e.maxArity+1)
	for arity := 0; arity <= e.maxArity; arity++ {
		params := make([]*celgo.Type, arity)
		for i := range params {
			params[i] = celgo.DynType
		}
		overloads = append(overloads, celgo.Overload(fmt.Sprintf("%s_dyn_%d", name, arity), params, celgo.DynType, binding))
	}
	return celgo.Function(name, overloads...)
}

// celActivation resolves declared variables through the surface on demand.
type celActivation struct {
	surface *Surface
	trap    *errorTrap
	names   map[string]string
}

func (a *celActivation) ResolveName(mangled string) (any, bool) {
	name, ok := a.names[mangled]
	if !ok {
		return nil, false
	}
	value, err := a.surface.Invoke(name, nil)
	if err != nil {
		return types.WrapErr(a.trap.record(err)), true
	}
	return celValue(value, a.trap), true
}

func (a *celActivation) Parent() interpreter.Activation {
	return nil
}

func celValue(value any, trap *errorTrap) ref.Val {
	switch v := value.(type) {
	case nil:
		return types.NullValue
	case ref.Val:
		return v
	case Provider:
		return celProvider{provider: v, trap: trap}
	}
	return types.DefaultTypeAdapter.NativeToValue(value)
}

// celProvider exposes a provider to CEL field selection. Selecting a field
// calls the provider's method of that name without arguments.
type celProvider struct {
	provider Provider
	trap     *errorTrap
}

func (p celProvider) Get(index ref.Val) ref.Val {
	name, ok := index.(types.String)
	if !ok {
		return types.NewErr("no such key: %v", index)
	}
	value, err := memberOf(p.provider, string(name))
	if err != nil {
		return types.WrapErr(p.trap.record(err))
	}
	return celValue(value, p.trap)
}

func (p celProvider) ConvertToNative(typeDesc reflect.Type) (any, error) {
	if reflect.TypeOf(p.provider).AssignableTo(typeDesc) {
		return p.provider, nil
	}
	return nil, fmt.Errorf("type conversion error from %s to '%v'", p.provider.SourceName(), typeDesc)
}

func (p celProvider) ConvertToType(typeVal ref.Type) ref.Val {
	switch typeVal {
	case celProviderType:
		return p
	case types.TypeType:
		return celProviderType
	case types.StringType:
		return types.String(p.provider.SourceName())
	}
	return types.NewErr("type conversion error from '%s' to '%s'", celProviderType, typeVal)
}

func (p celProvider) Equal(other ref.Val) ref.Val {
	o, ok := other.(celProvider)
	return types.Bool(ok && o.provider == p.provider)
}

func (p celProvider) Type() ref.Type {
	return celProviderType
}

func (p celProvider) Value() any {
	return p.provider
}
