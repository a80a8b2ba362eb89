package binding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/goliatone/go-binding/internal/sigil"
)

type jsEvaluator struct {
	cache    ProgramCache
	fieldTag string
}

// NewJSEvaluator constructs an Evaluator backed by goja. A function passed as
// the last argument of a bound callable is delivered as its Block:
//
//	<%= each_item(x => x.toUpperCase()) %>
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	cfg := applyJSEvaluatorOptions(opts)
	return &jsEvaluator{
		cache:    cfg.cache,
		fieldTag: cfg.fieldTag,
	}
}

// Evaluate installs a forwarding function for every called name and a
// getter for every name read bare. Names the surface does not know stay
// undefined, so only a reached reference raises.
func (e *jsEvaluator) Evaluate(ctx EvalContext, expression string) (any, error) {
	scope := ctx.scopeLabel()
	fail := func(err error) (any, error) {
		return nil, evalError("js", expression, scope, err)
	}
	if strings.TrimSpace(expression) == "" {
		return fail(ErrEmptyExpression)
	}
	rewritten := sigil.Rewrite(expression)
	if mixed := rewritten.Mixed(); len(mixed) > 0 {
		rewritten = sigil.SplitCalls(expression, mixed...)
	}
	program, err := e.loadOrCompile(rewritten.Code)
	if err != nil {
		return fail(err)
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper(e.fieldTag, true))
	trap := &errorTrap{}
	var unbound []sigil.Ref
	for _, r := range rewritten.Refs {
		if !ctx.Surface.Exists(r.Name) {
			unbound = append(unbound, r)
			continue
		}
		if r.Call {
			err = vm.Set(r.Mangled, jsFunction(vm, ctx.Surface.Func(r.Name), trap))
		} else {
			err = vm.GlobalObject().DefineAccessorProperty(r.Mangled, vm.ToValue(jsGetter(vm, ctx.Surface, r.Name, trap)), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
		}
		if err != nil {
			return fail(err)
		}
	}

	value, err := vm.RunProgram(program)
	if err != nil {
		if trap.err != nil {
			return fail(trap.err)
		}
		return fail(jsUndeclared(unbound, err))
	}
	return jsExport(value), nil
}

func (e *jsEvaluator) loadOrCompile(code string) (*goja.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(code); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", e.wrapExpression(code), false)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(code, program)
	}
	return program, nil
}

func (e *jsEvaluator) wrapExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}

func jsFunction(vm *goja.Runtime, fn Function, trap *errorTrap) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		arguments := call.Arguments
		var block Block
		if n := len(arguments); n > 0 {
			if callable, ok := goja.AssertFunction(arguments[n-1]); ok {
				block = jsBlock(vm, callable)
				arguments = arguments[:n-1]
			}
		}
		native := make([]any, len(arguments))
		for i, argument := range arguments {
			native[i] = argument.Export()
		}
		result, err := fn(block, native...)
		if err != nil {
			trap.record(err)
			panic(vm.NewGoError(err))
		}
		return jsValue(vm, result, trap)
	}
}

func jsGetter(vm *goja.Runtime, surface *Surface, name string, trap *errorTrap) func(goja.FunctionCall) goja.Value {
	return func(goja.FunctionCall) goja.Value {
		result, err := surface.Invoke(name, nil)
		if err != nil {
			trap.record(err)
			panic(vm.NewGoError(err))
		}
		return jsValue(vm, result, trap)
	}
}

func jsValue(vm *goja.Runtime, value any, trap *errorTrap) goja.Value {
	if provider, ok := value.(Provider); ok {
		return vm.NewDynamicObject(&jsProvider{vm: vm, provider: provider, trap: trap})
	}
	return vm.ToValue(value)
}

func jsExport(value goja.Value) any {
	out := value.Export()
	if p, ok := out.(*jsProvider); ok {
		return p.provider
	}
	return out
}

// Keys inherited from Object.prototype; a provider never answers them.
var jsPrototypeKeys = map[string]bool{
	"toString": true, "valueOf": true, "toLocaleString": true, "hasOwnProperty": true,
	"isPrototypeOf": true, "propertyIsEnumerable": true, "constructor": true,
	"__proto__": true, "toJSON": true,
}

// jsProvider exposes a provider as a read-only object. Reading a property
// calls the provider's method of that name without arguments.
type jsProvider struct {
	vm       *goja.Runtime
	provider Provider
	trap     *errorTrap
}

func (p *jsProvider) Get(key string) goja.Value {
	if jsPrototypeKeys[key] {
		return nil
	}
	value, err := memberOf(p.provider, key)
	if err != nil {
		p.trap.record(err)
		panic(p.vm.NewGoError(err))
	}
	return jsValue(p.vm, value, p.trap)
}

func (p *jsProvider) Set(string, goja.Value) bool { return false }

func (p *jsProvider) Delete(string) bool { return false }

func (p *jsProvider) Has(key string) bool {
	_, ok := p.provider.Method(key)
	return ok
}

func (p *jsProvider) Keys() []string {
	switch v := p.provider.(type) {
	case *Object:
		return v.Methods().Names()
	case *Namespace:
		return v.Functions().Names()
	}
	return nil
}

func (p *jsProvider) String() string {
	return p.provider.SourceName()
}

func jsBlock(vm *goja.Runtime, callable goja.Callable) Block {
	return func(args ...any) (any, error) {
		values := make([]goja.Value, len(args))
		for i, arg := range args {
			values[i] = vm.ToValue(arg)
		}
		out, err := callable(goja.Undefined(), values...)
		if err != nil {
			return nil, err
		}
		return out.Export(), nil
	}
}

// jsUndeclared converts a ReferenceError for a name the surface does not
// know into *UndefinedSymbolError.
func jsUndeclared(unbound []sigil.Ref, err error) error {
	var exception *goja.Exception
	if !errors.As(err, &exception) {
		return err
	}
	message := exception.Error()
	if !strings.Contains(message, "ReferenceError") {
		return err
	}
	for _, r := range unbound {
		if strings.Contains(message, r.Mangled+" is not defined") {
			return &UndefinedSymbolError{Name: r.Name}
		}
	}
	return err
}
