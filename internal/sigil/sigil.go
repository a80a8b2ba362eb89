// Package sigil rewrites slot sigils ("@name", "@@name", "$name") inside an
// expression into plain identifiers every expression engine accepts, and
// reports the free identifiers the expression references.
package sigil

import "strings"

const (
	InstancePrefix  = "_iv_"
	NamespacePrefix = "_nv_"
	GlobalPrefix    = "_gv_"
	// CallPrefix renames called occurrences selected by SplitCalls.
	CallPrefix = "_fn_"
)

// Ref is one free identifier referenced by an expression.
type Ref struct {
	// Name is the identifier as written, sigil included.
	Name string
	// Mangled is the identifier as the engine sees it.
	Mangled string
	// Call is set when at least one reference is immediately called.
	Call bool
	// Bare is set when at least one reference is not called.
	Bare bool
}

// Result is a rewritten expression.
type Result struct {
	Code string
	Refs []Ref
}

// Original maps an engine identifier back to the name as written.
func (r Result) Original(mangled string) string {
	for _, ref := range r.Refs {
		if ref.Mangled == mangled {
			return ref.Name
		}
	}
	return Demangle(mangled)
}

// Mixed lists the names that are both called and read bare.
func (r Result) Mixed() []string {
	var names []string
	for _, ref := range r.Refs {
		if ref.Call && ref.Bare {
			names = append(names, ref.Name)
		}
	}
	return names
}

// Mangle converts a sigil name into an engine identifier.
func Mangle(name string) string {
	switch {
	case strings.HasPrefix(name, "@@"):
		return NamespacePrefix + name[2:]
	case strings.HasPrefix(name, "@"):
		return InstancePrefix + name[1:]
	case strings.HasPrefix(name, "$"):
		return GlobalPrefix + name[1:]
	default:
		return name
	}
}

// Demangle reverses Mangle. A CallPrefix is dropped.
func Demangle(mangled string) string {
	mangled = strings.TrimPrefix(mangled, CallPrefix)
	switch {
	case strings.HasPrefix(mangled, NamespacePrefix):
		return "@@" + strings.TrimPrefix(mangled, NamespacePrefix)
	case strings.HasPrefix(mangled, InstancePrefix):
		return "@" + strings.TrimPrefix(mangled, InstancePrefix)
	case strings.HasPrefix(mangled, GlobalPrefix):
		return "$" + strings.TrimPrefix(mangled, GlobalPrefix)
	default:
		return mangled
	}
}

// Rewrite scans src once. String literals are copied untouched; identifiers
// following "." are member accesses and are not reported.
func Rewrite(src string) Result {
	return rewrite(src, nil)
}

// SplitCalls rewrites src like Rewrite, but called occurrences of names are
// renamed with CallPrefix and reported as separate refs. Engines that cannot
// tell a call from a read at lookup time bind the two forms apart.
func SplitCalls(src string, names ...string) Result {
	split := make(map[string]bool, len(names))
	for _, name := range names {
		split[name] = true
	}
	return rewrite(src, split)
}

func rewrite(src string, split map[string]bool) Result {
	var out strings.Builder
	out.Grow(len(src) + 8)
	var refs []Ref
	index := map[string]int{}

	emit := func(name string, start, end int) {
		text := Mangle(name)
		if !isMember(src, start) {
			call := followedByParen(src, end)
			if call && split[name] {
				text = CallPrefix + text
			}
			if i, ok := index[text]; ok {
				refs[i].Call = refs[i].Call || call
				refs[i].Bare = refs[i].Bare || !call
			} else {
				index[text] = len(refs)
				refs = append(refs, Ref{Name: name, Mangled: text, Call: call, Bare: !call})
			}
		}
		out.WriteString(text)
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := skipString(src, i)
			out.WriteString(src[i:end])
			i = end
		case c == '@' && i+2 < len(src) && src[i+1] == '@' && isIdentStart(src[i+2]):
			end := scanIdent(src, i+2)
			emit(src[i:end], i, end)
			i = end
		case (c == '@' || c == '$') && i+1 < len(src) && isIdentStart(src[i+1]):
			end := scanIdent(src, i+1)
			emit(src[i:end], i, end)
			i = end
		case isIdentStart(c):
			end := scanIdent(src, i)
			emit(src[i:end], i, end)
			i = end
		case isDigit(c):
			end := scanIdent(src, i)
			out.WriteString(src[i:end])
			i = end
		default:
			out.WriteByte(c)
			i++
		}
	}
	return Result{Code: out.String(), Refs: refs}
}

func skipString(src string, start int) int {
	quote := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(src)
}

func scanIdent(src string, start int) int {
	i := start
	for i < len(src) && (isIdentStart(src[i]) || isDigit(src[i])) {
		i++
	}
	return i
}

func isMember(src string, start int) bool {
	for i := start - 1; i >= 0; i-- {
		switch src[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case '.':
			// ".." is a range operator, not member access.
			return i == 0 || src[i-1] != '.'
		default:
			return false
		}
	}
	return false
}

func followedByParen(src string, end int) bool {
	for i := end; i < len(src); i++ {
		switch src[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case '(':
			return true
		default:
			return false
		}
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
