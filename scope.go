package binding

import (
	"fmt"
	"strings"
)

// MainObject names the receiver of scopes created without one.
const MainObject = "main"

// Scope is the fallback lexical context consulted after every provider. It
// pairs a receiver Object (instance slots, namespace slots through the
// receiver's type, own methods) with a private local frame and a Globals
// table.
//
// Local slots belong to this handle only. Instance and namespace slots live on
// the receiver and are shared with every Scope wrapping the same receiver.
type Scope struct {
	receiver *Object
	locals   *Slots
	globals  *Globals
	skip     []string
	hidden   map[string]struct{}
}

// ScopeOption configures a Scope on creation.
type ScopeOption func(*scopeConfig)

type scopeConfig struct {
	globals *Globals
	skip    []string
	hidden  []string
}

// WithGlobals replaces DefaultGlobals for the scope.
func WithGlobals(globals *Globals) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.globals = globals
	}
}

// WithScopeSkipNamespaces hides receivers whose namespace name starts with
// any of prefixes, e.g. a test framework's own namespace.
func WithScopeSkipNamespaces(prefixes ...string) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.skip = append(cfg.skip, prefixes...)
	}
}

// WithHiddenGlobals hides global names (with or without "$") from lookups and
// listings.
func WithHiddenGlobals(names ...string) ScopeOption {
	return func(cfg *scopeConfig) {
		cfg.hidden = append(cfg.hidden, names...)
	}
}

// NewScope creates a scope executing against receiver. A nil receiver gets a
// fresh "main" object.
func NewScope(receiver *Object, opts ...ScopeOption) *Scope {
	cfg := scopeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if receiver == nil {
		receiver = NewObject(MainObject, nil)
	}
	if cfg.globals == nil {
		cfg.globals = DefaultGlobals
	}
	hidden := make(map[string]struct{}, len(cfg.hidden))
	for _, name := range cfg.hidden {
		hidden[bareName(name)] = struct{}{}
	}
	return &Scope{
		receiver: receiver,
		locals:   NewSlots(),
		globals:  cfg.globals,
		skip:     normalizePrefixes(cfg.skip),
		hidden:   hidden,
	}
}

// derive returns a new handle on receiver that keeps s's globals and guards
// but starts with an empty local frame.
func (s *Scope) derive(receiver *Object) *Scope {
	hidden := make(map[string]struct{}, len(s.hidden))
	for name := range s.hidden {
		hidden[name] = struct{}{}
	}
	return &Scope{
		receiver: receiver,
		locals:   NewSlots(),
		globals:  s.globals,
		skip:     append([]string(nil), s.skip...),
		hidden:   hidden,
	}
}

// Receiver returns the object the scope executes against.
func (s *Scope) Receiver() *Object {
	return s.receiver
}

// Globals returns the global table visible from the scope.
func (s *Scope) Globals() *Globals {
	return s.globals
}

// Locals exposes the local frame.
func (s *Scope) Locals() *Slots {
	return s.locals
}

// Classify maps name onto its slot category.
func (s *Scope) Classify(name string) SymbolKind {
	return Classify(name)
}

// guarded returns a handle on the same receiver, locals and globals with
// extra skip prefixes and hidden globals. s itself is left unchanged.
func (s *Scope) guarded(skip, hidden []string) *Scope {
	if len(skip) == 0 && len(hidden) == 0 {
		return s
	}
	g := s.derive(s.receiver)
	g.locals = s.locals
	g.skip = append(g.skip, normalizePrefixes(skip)...)
	for _, name := range hidden {
		if name = strings.TrimSpace(name); name != "" {
			g.hidden[bareName(name)] = struct{}{}
		}
	}
	return g
}

// Skipped reports whether namespace matches the skip list.
func (s *Scope) Skipped(namespace string) bool {
	for _, prefix := range s.skip {
		if strings.HasPrefix(namespace, prefix) {
			return true
		}
	}
	return false
}

// HasSymbol reports whether name is currently defined in the scope. It never
// fails: malformed names are simply not found.
func (s *Scope) HasSymbol(name string) bool {
	if s == nil || s.Skipped(s.receiver.NamespaceName()) {
		return false
	}
	switch s.Classify(name) {
	case KindCallable:
		if s.locals.Has(name) {
			return true
		}
		_, ok := s.receiver.Method(name)
		return ok
	case KindInstanceSlot:
		return s.receiver.Slots().Has(bareName(name))
	case KindNamespaceSlot:
		return s.receiver.Namespace().Slots().Has(bareName(name))
	case KindConstantSlot:
		_, ok := s.constant(name)
		return ok
	case KindGlobalSlot:
		_, ok := s.global(bareName(name))
		return ok
	default:
		return false
	}
}

// Lookup returns the stored value of a slot. Callable names only match local
// slots; receiver methods are not invoked.
func (s *Scope) Lookup(name string) (any, bool) {
	switch s.Classify(name) {
	case KindCallable:
		return s.locals.Get(name)
	case KindInstanceSlot:
		return s.receiver.Slots().Get(bareName(name))
	case KindNamespaceSlot:
		return s.receiver.Namespace().Slots().Get(bareName(name))
	case KindConstantSlot:
		return s.constant(name)
	case KindGlobalSlot:
		return s.global(bareName(name))
	default:
		return nil, false
	}
}

// Value evaluates name in the scope. Slots return their current value; a
// callable name returns its local slot, calling it when it holds a Function,
// or else invokes the receiver's own method with block and args.
func (s *Scope) Value(name string, block Block, args ...any) (any, error) {
	if !s.HasSymbol(name) {
		return nil, &UndefinedSymbolError{Name: name}
	}
	if s.Classify(name) != KindCallable {
		value, _ := s.Lookup(name)
		return value, nil
	}
	if local, ok := s.locals.Get(name); ok {
		if fn, ok := local.(Function); ok {
			return fn(block, args...)
		}
		if len(args) > 0 || block != nil {
			return nil, fmt.Errorf("binding: local variable %q is not callable", name)
		}
		return local, nil
	}
	fn, _ := s.receiver.Method(name)
	return fn(block, args...)
}

// Set writes value into the slot category selected by name's prefix.
func (s *Scope) Set(name string, value any) error {
	switch s.Classify(name) {
	case KindCallable:
		if !validIdentifier(name) {
			return &InvalidConfigurationError{Field: "identifier", Reason: fmt.Sprintf("%q is not a valid name", name)}
		}
		s.locals.Set(name, value)
	case KindInstanceSlot:
		s.receiver.Slots().Set(bareName(name), value)
	case KindNamespaceSlot:
		s.receiver.Namespace().Slots().Set(bareName(name), value)
	case KindConstantSlot:
		return s.receiver.Namespace().SetConstant(name, value)
	case KindGlobalSlot:
		s.globals.Set(bareName(name), value)
	default:
		return &InvalidConfigurationError{Field: "identifier", Reason: fmt.Sprintf("%q is not a valid name", name)}
	}
	return nil
}

func (s *Scope) constant(name string) (any, bool) {
	if !validConstantName(name) {
		return nil, false
	}
	if value, ok := s.receiver.Namespace().Constants().Get(name); ok {
		return value, true
	}
	return s.globals.Constant(name)
}

func (s *Scope) global(name string) (any, bool) {
	if _, hidden := s.hidden[name]; hidden {
		return nil, false
	}
	return s.globals.Get(name)
}

func (s *Scope) visibleGlobals() []string {
	var names []string
	for _, name := range s.globals.Names() {
		if _, hidden := s.hidden[name]; !hidden {
			names = append(names, name)
		}
	}
	return names
}

func normalizePrefixes(prefixes []string) []string {
	var out []string
	for _, prefix := range prefixes {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" {
			out = append(out, prefix)
		}
	}
	return out
}
