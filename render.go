package binding

import (
	"fmt"
	"strings"
	"time"
)

// Template tags:
//
//	<%= expr %>   output the value of expr
//	<% expr %>    evaluate expr, discard the result
//	<%# text %>   comment
//	<%%           literal "<%"
//	-%>           drop the newline that immediately follows the tag
//	<%-           drop the indentation that precedes the tag
const (
	tagOpen  = "<%"
	tagClose = "%>"
)

type segmentKind int

const (
	segmentText segmentKind = iota
	segmentOutput
	segmentStatement
)

type segment struct {
	kind segmentKind
	text string
	line int
}

// Template is a parsed template. It holds no resolution state and can be
// rendered against any number of surfaces.
type Template struct {
	source   string
	segments []segment
}

// Source returns the template text.
func (t *Template) Source() string {
	return t.source
}

// Expressions lists the expressions of output and statement tags in order.
func (t *Template) Expressions() []string {
	var out []string
	for _, seg := range t.segments {
		if seg.kind != segmentText {
			out = append(out, seg.text)
		}
	}
	return out
}

// ParseTemplate splits src into text and tag segments.
func ParseTemplate(src string) (*Template, error) {
	tmpl := &Template{source: src}
	var text strings.Builder
	line := 1
	flush := func() {
		if text.Len() > 0 {
			tmpl.segments = append(tmpl.segments, segment{kind: segmentText, text: text.String()})
			text.Reset()
		}
	}

	rest := src
	for {
		open := strings.Index(rest, tagOpen)
		if open < 0 {
			text.WriteString(rest)
			break
		}
		text.WriteString(rest[:open])
		line += strings.Count(rest[:open], "\n")
		rest = rest[open+len(tagOpen):]

		if strings.HasPrefix(rest, "%") {
			text.WriteString(tagOpen)
			rest = rest[1:]
			continue
		}
		if strings.HasPrefix(rest, "-") {
			trimIndentation(&text)
			rest = rest[1:]
		}

		kind := segmentStatement
		comment := false
		switch {
		case strings.HasPrefix(rest, "="):
			kind = segmentOutput
			rest = rest[1:]
		case strings.HasPrefix(rest, "#"):
			comment = true
			rest = rest[1:]
		}

		end := strings.Index(rest, tagClose)
		if end < 0 {
			return nil, &TemplateSyntaxError{Line: line, Reason: "unterminated tag"}
		}
		body := rest[:end]
		trimNewline := strings.HasSuffix(body, "-")
		if trimNewline {
			body = body[:len(body)-1]
		}
		tagLine := line
		line += strings.Count(rest[:end], "\n")
		rest = rest[end+len(tagClose):]
		if trimNewline && strings.HasPrefix(rest, "\n") {
			rest = rest[1:]
			line++
		}

		if comment {
			continue
		}
		expr := strings.TrimSpace(body)
		if expr == "" {
			if kind == segmentOutput {
				return nil, &TemplateSyntaxError{Line: tagLine, Reason: "empty output tag"}
			}
			continue
		}
		flush()
		tmpl.segments = append(tmpl.segments, segment{kind: kind, text: expr, line: tagLine})
	}
	flush()
	return tmpl, nil
}

// trimIndentation removes trailing spaces and tabs back to the start of the
// current line, but only when nothing else precedes the tag on that line.
func trimIndentation(text *strings.Builder) {
	current := text.String()
	start := strings.LastIndex(current, "\n") + 1
	if strings.Trim(current[start:], " \t") != "" {
		return
	}
	text.Reset()
	text.WriteString(current[:start])
}

// renderer expands templates against one surface.
type renderer struct {
	evaluator Evaluator
	logger    EvaluatorLogger
	scope     string
}

func (r renderer) render(tmpl *Template, surface *Surface) (string, error) {
	var out strings.Builder
	engine := evaluatorEngineName(r.evaluator)
	ctx := EvalContext{Surface: surface, ScopeName: r.scope}
	for _, seg := range tmpl.segments {
		if seg.kind == segmentText {
			out.WriteString(seg.text)
			continue
		}
		start := time.Now()
		value, err := r.evaluator.Evaluate(ctx, seg.text)
		err = atLine(evalError(engine, seg.text, ctx.scopeLabel(), err), seg.line)
		if r.logger != nil {
			r.logger.LogEvaluation(EvaluatorLogEvent{
				Engine:   engine,
				Expr:     seg.text,
				Scope:    ctx.scopeLabel(),
				Line:     seg.line,
				Output:   seg.kind == segmentOutput,
				Duration: time.Since(start),
				Err:      err,
			})
		}
		if err != nil {
			return "", err
		}
		if seg.kind == segmentOutput && value != nil {
			out.WriteString(fmt.Sprint(value))
		}
	}
	return out.String(), nil
}
