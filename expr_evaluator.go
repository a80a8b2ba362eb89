package binding

import (
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprast "github.com/expr-lang/expr/ast"
	exprconf "github.com/expr-lang/expr/conf"
	exprparser "github.com/expr-lang/expr/parser"

	"github.com/goliatone/go-binding/internal/sigil"
)

// Helper functions the lazy patcher routes member access through.
const (
	exprMemberHelper = "_bind_member"
	exprSendHelper   = "_bind_send"
)

// ExprEvaluatorOption configures an expr evaluator instance.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithCompileOptions appends expr compile options applied to every
// expression. Functions declared with expr.Function are called directly and
// take no part in resolution.
func ExprWithCompileOptions(options ...exprlang.Option) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.options = append(e.options, options...)
	}
}

// exprEvaluator executes template expressions using github.com/expr-lang/expr.
type exprEvaluator struct {
	options   []exprlang.Option
	functions map[string]bool
}

// NewExprEvaluator constructs an Evaluator backed by expr-lang/expr. It is
// the default engine.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	cfg := exprconf.CreateNew()
	for _, opt := range e.options {
		opt(cfg)
	}
	e.functions = make(map[string]bool, len(cfg.Functions))
	for name := range cfg.Functions {
		e.functions[name] = true
	}
	return e
}

// Evaluate binds every free identifier to a lazy forwarding function and
// patches the tree so bare reads become calls of it. Resolution happens only
// for the branches the program takes.
func (e *exprEvaluator) Evaluate(ctx EvalContext, expression string) (any, error) {
	scope := ctx.scopeLabel()
	fail := func(err error) (any, error) {
		return nil, evalError("expr", expression, scope, err)
	}
	if strings.TrimSpace(expression) == "" {
		return fail(ErrEmptyExpression)
	}
	rewritten := sigil.Rewrite(expression)
	tree, err := exprparser.Parse(rewritten.Code)
	if err != nil {
		return fail(err)
	}

	trap := &errorTrap{}
	env := map[string]any{
		exprMemberHelper: func(args ...any) (any, error) {
			return trap.catch(memberOf(args[0], args[1].(string)))
		},
		exprSendHelper: func(args ...any) (any, error) {
			return trap.catch(sendTo(args[0], args[1].(string), nil, args[2:]...))
		},
	}
	patcher := &lazyPatcher{lazy: map[string]bool{}, wrapped: map[*exprast.CallNode]bool{}}
	for _, ref := range freeIdentifiers(tree.Node, rewritten) {
		if e.functions[ref.Mangled] {
			continue
		}
		patcher.lazy[ref.Mangled] = true
		fn := lazyRef(ctx.Surface, ref.Name, trap)
		env[ref.Mangled] = func(args ...any) (any, error) {
			return fn(nil, args...)
		}
	}

	options := append([]exprlang.Option{exprlang.Env(env), exprlang.Patch(patcher)}, e.options...)
	program, err := exprlang.Compile(rewritten.Code, options...)
	if err != nil {
		return fail(err)
	}
	result, err := exprlang.Run(program, env)
	if err != nil {
		return fail(trap.pick(err))
	}
	return result, nil
}

// lazyPatcher turns every bare read of a bound identifier into a call of its
// forwarding function, and member access into calls of the member helpers.
// ast.Walk visits children first, so a callee identifier is wrapped before
// its CallNode is seen; the CallNode then unwraps it again.
type lazyPatcher struct {
	lazy    map[string]bool
	wrapped map[*exprast.CallNode]bool
}

func (p *lazyPatcher) Visit(node *exprast.Node) {
	switch n := (*node).(type) {
	case *exprast.IdentifierNode:
		if !p.lazy[n.Value] {
			return
		}
		call := &exprast.CallNode{Callee: &exprast.IdentifierNode{Value: n.Value}}
		p.wrapped[call] = true
		exprast.Patch(node, call)
	case *exprast.MemberNode:
		property, ok := n.Property.(*exprast.StringNode)
		if !ok || n.Method || n.Optional {
			return
		}
		exprast.Patch(node, &exprast.CallNode{
			Callee:    &exprast.IdentifierNode{Value: exprMemberHelper},
			Arguments: []exprast.Node{n.Node, &exprast.StringNode{Value: property.Value}},
		})
	case *exprast.CallNode:
		if inner, ok := n.Callee.(*exprast.CallNode); ok && p.wrapped[inner] {
			n.Callee = inner.Callee
			return
		}
		member, ok := n.Callee.(*exprast.MemberNode)
		if !ok || !member.Method || member.Optional {
			return
		}
		property, ok := member.Property.(*exprast.StringNode)
		if !ok {
			return
		}
		args := append([]exprast.Node{member.Node, &exprast.StringNode{Value: property.Value}}, n.Arguments...)
		exprast.Patch(node, &exprast.CallNode{
			Callee:    &exprast.IdentifierNode{Value: exprSendHelper},
			Arguments: args,
		})
	}
}

// identifierCollector gathers identifiers in first-seen order. Names
// introduced by let declarations are local to the expression.
type identifierCollector struct {
	order    []string
	seen     map[string]bool
	declared map[string]bool
}

func (c *identifierCollector) Visit(node *exprast.Node) {
	switch n := (*node).(type) {
	case *exprast.IdentifierNode:
		if !c.seen[n.Value] {
			c.seen[n.Value] = true
			c.order = append(c.order, n.Value)
		}
	case *exprast.VariableDeclaratorNode:
		c.declared[n.Name] = true
	}
}

func freeIdentifiers(root exprast.Node, rewritten sigil.Result) []sigil.Ref {
	collector := &identifierCollector{seen: map[string]bool{}, declared: map[string]bool{}}
	exprast.Walk(&root, collector)
	refs := make([]sigil.Ref, 0, len(collector.order))
	for _, mangled := range collector.order {
		if collector.declared[mangled] {
			continue
		}
		refs = append(refs, sigil.Ref{Name: rewritten.Original(mangled), Mangled: mangled})
	}
	return refs
}
