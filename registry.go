package binding

import (
	"fmt"
	"reflect"
)

// Registry is the immutable, ordered set of providers and the fallback scope a
// Resolver consults. It keeps references: provider capability sets are never
// copied, so later Define/Undefine calls on a provider are observed.
type Registry struct {
	scope      *Scope
	objects    []Provider
	namespaces []Provider
}

// NewRegistry validates and stores the given providers. The slices are copied
// so the registry cannot be mutated through the caller's backing arrays.
func NewRegistry(scope *Scope, objects, namespaces []Provider) (*Registry, error) {
	if scope == nil {
		return nil, &InvalidConfigurationError{Field: "scope", Reason: "scope must not be nil"}
	}
	if err := validateProviders("objects", objects); err != nil {
		return nil, err
	}
	if err := validateProviders("namespaces", namespaces); err != nil {
		return nil, err
	}
	return &Registry{
		scope:      scope,
		objects:    append([]Provider(nil), objects...),
		namespaces: append([]Provider(nil), namespaces...),
	}, nil
}

func validateProviders(field string, providers []Provider) error {
	for i, provider := range providers {
		if isNilProvider(provider) {
			return &InvalidConfigurationError{Field: field, Reason: fmt.Sprintf("entry %d is nil", i)}
		}
	}
	return nil
}

func isNilProvider(provider Provider) bool {
	if provider == nil {
		return true
	}
	rv := reflect.ValueOf(provider)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// Scope returns the fallback scope.
func (r *Registry) Scope() *Scope {
	return r.scope
}

// Objects returns a copy of the object providers in registration order.
func (r *Registry) Objects() []Provider {
	return append([]Provider(nil), r.objects...)
}

// Namespaces returns a copy of the namespace providers in registration order.
func (r *Registry) Namespaces() []Provider {
	return append([]Provider(nil), r.namespaces...)
}
