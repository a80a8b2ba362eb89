package binding

import (
	"fmt"
	"sort"
	"sync"
)

// Visibility controls whether a registered function takes part in resolution.
type Visibility int

const (
	// Public functions are resolvable and callable through a Surface.
	Public Visibility = iota
	// Private functions are only reachable through the owning provider.
	Private
)

type registeredFunction struct {
	fn         Function
	visibility Visibility
}

// FunctionRegistry stores the callables one provider declares for itself.
// Lookups are live: functions defined or removed after a Binding was built
// are observed by the next resolution.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]registeredFunction
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]registeredFunction),
	}
}

// Register stores a public fn under name guarding against duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	return r.register(name, fn, Public, false)
}

// RegisterPrivate stores fn under name without exposing it to resolution.
func (r *FunctionRegistry) RegisterPrivate(name string, fn Function) error {
	return r.register(name, fn, Private, false)
}

// Define stores fn under name, replacing any existing definition.
func (r *FunctionRegistry) Define(name string, fn Function) error {
	return r.register(name, fn, Public, true)
}

func (r *FunctionRegistry) register(name string, fn Function, visibility Visibility, replace bool) error {
	if fn == nil {
		return fmt.Errorf("binding: function %q is nil", name)
	}
	if Classify(name) != KindCallable || !validIdentifier(name) {
		return fmt.Errorf("binding: invalid function name %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]registeredFunction)
	}
	if _, exists := r.functions[name]; exists && !replace {
		return fmt.Errorf("binding: function %q already registered", name)
	}
	r.functions[name] = registeredFunction{fn: fn, visibility: visibility}
	return nil
}

// Remove deletes name, reporting whether it was present.
func (r *FunctionRegistry) Remove(name string) bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.functions[name]; !ok {
		return false
	}
	delete(r.functions, name)
	return true
}

// Lookup returns the public function registered under name.
func (r *FunctionRegistry) Lookup(name string) (Function, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	entry, ok := r.functions[name]
	r.mu.RUnlock()
	if !ok || entry.visibility != Public {
		return nil, false
	}
	return entry.fn, true
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]registeredFunction, len(r.functions)),
	}
	for name, entry := range r.functions {
		clone.functions[name] = entry
	}
	return clone
}

// Call executes the function registered for name regardless of visibility.
func (r *FunctionRegistry) Call(name string, block Block, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("binding: function registry is nil")
	}
	r.mu.RLock()
	entry, ok := r.functions[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &UndefinedSymbolError{Name: name}
	}
	return entry.fn(block, args...)
}

// Names returns public function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name, entry := range r.functions {
		if entry.visibility == Public {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
