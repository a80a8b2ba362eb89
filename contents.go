package binding

import (
	"fmt"
	"strings"
)

// Contents lists what a scope currently defines. Instance, namespace and
// global names carry their sigil.
type Contents struct {
	Locals         []string `json:"locals,omitempty"`
	InstanceSlots  []string `json:"instance_vars,omitempty"`
	NamespaceSlots []string `json:"class_vars,omitempty"`
	Globals        []string `json:"globals,omitempty"`
	Methods        []string `json:"methods,omitempty"`
}

// Contents reports the scope's definitions. The "_" local and hidden globals
// are left out; methods are the receiver's own public methods.
func (s *Scope) Contents() Contents {
	var c Contents
	for _, name := range s.locals.Names() {
		if name != "_" {
			c.Locals = append(c.Locals, name)
		}
	}
	c.InstanceSlots = prefixed("@", s.receiver.Slots().Names())
	c.NamespaceSlots = prefixed("@@", s.receiver.Namespace().Slots().Names())
	c.Globals = prefixed("$", s.visibleGlobals())
	c.Methods = s.receiver.Methods().Names()
	return c
}

// Empty reports whether nothing is defined.
func (c Contents) Empty() bool {
	return len(c.Locals)+len(c.InstanceSlots)+len(c.NamespaceSlots)+len(c.Globals)+len(c.Methods) == 0
}

// String renders one "category: names" line per non-empty category.
func (c Contents) String() string {
	var lines []string
	add := func(label string, names []string) {
		if len(names) > 0 {
			lines = append(lines, label+": "+strings.Join(names, ", "))
		}
	}
	add("class_vars", c.NamespaceSlots)
	add("globals", c.Globals)
	add("instance_vars", c.InstanceSlots)
	add("locals", c.Locals)
	add("methods", c.Methods)
	return strings.Join(lines, "\n")
}

// String describes the scope and its contents.
func (s *Scope) String() string {
	contents := s.Contents()
	if contents.Empty() {
		return fmt.Sprintf("#<Scope %s>", s.receiver.Name())
	}
	body := strings.ReplaceAll(contents.String(), "\n", "\n  ")
	return fmt.Sprintf("#<Scope %s\n  %s\n>", s.receiver.Name(), body)
}

func prefixed(sigil string, names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = sigil + name
	}
	return out
}
