package binding

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyExpression reports a tag or statement with nothing to evaluate.
var ErrEmptyExpression = errors.New("expression must not be empty")

// EvaluationError reports a template tag or statement that failed. Err is
// the cause; *UndefinedSymbolError and *AmbiguousSymbolError stay reachable
// through errors.As.
type EvaluationError struct {
	Engine string
	Expr   string
	Scope  string
	// Line is the 1-based template line of the tag. Zero outside templates.
	Line int
	Err  error
}

func (e *EvaluationError) Error() string {
	var b strings.Builder
	b.WriteString("binding: ")
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Engine)
	if e.Expr != "" {
		fmt.Fprintf(&b, " %q", e.Expr)
	}
	if e.Scope != "" {
		b.WriteString(" in ")
		b.WriteString(e.Scope)
	}
	b.WriteString(": ")
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// evalError attaches engine, expression and scope to err. Errors that are
// already evaluation errors pass through untouched.
func evalError(engine, expr, scope string, err error) error {
	if err == nil {
		return nil
	}
	var existing *EvaluationError
	if errors.As(err, &existing) {
		return err
	}
	return &EvaluationError{Engine: engine, Expr: expr, Scope: scope, Err: err}
}

// atLine stamps the template line on err when it does not carry one yet.
func atLine(err error, line int) error {
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) && evalErr.Line == 0 {
		evalErr.Line = line
	}
	return err
}
