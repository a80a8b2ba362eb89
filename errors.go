package binding

import (
	"errors"
	"fmt"
)

var (
	// ErrUndefinedSymbol matches *UndefinedSymbolError.
	ErrUndefinedSymbol = errors.New("binding: undefined symbol")
	// ErrAmbiguousSymbol matches *AmbiguousSymbolError.
	ErrAmbiguousSymbol = errors.New("binding: ambiguous symbol")
	// ErrInvalidConfiguration matches *InvalidConfigurationError.
	ErrInvalidConfiguration = errors.New("binding: invalid configuration")
	// ErrUndefinedLocalSlot matches *UndefinedLocalSlotError.
	ErrUndefinedLocalSlot = errors.New("binding: undefined local slot")
)

// UndefinedSymbolError reports a name no source can satisfy.
type UndefinedSymbolError struct {
	Name string
}

func (e *UndefinedSymbolError) Error() string {
	return fmt.Sprintf("%s is undefined", e.Name)
}

// Is matches ErrUndefinedSymbol.
func (e *UndefinedSymbolError) Is(target error) bool {
	return target == ErrUndefinedSymbol
}

// AmbiguousSymbolError reports a name satisfied by two or more sources.
// Sources are listed objects first, then namespaces, then the scope.
type AmbiguousSymbolError struct {
	Name    string
	Sources []Source
}

func (e *AmbiguousSymbolError) Error() string {
	return fmt.Sprintf("Ambiguous method '%s' is multiply defined in %s", e.Name, describeSources(e.Sources))
}

// Is matches ErrAmbiguousSymbol.
func (e *AmbiguousSymbolError) Is(target error) bool {
	return target == ErrAmbiguousSymbol
}

// InvalidConfigurationError reports malformed construction input.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("binding: invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("binding: invalid %s: %s", e.Field, e.Reason)
}

// Is matches ErrInvalidConfiguration.
func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// UndefinedLocalSlotError reports a local slot missing from a source scope.
type UndefinedLocalSlotError struct {
	Name string
}

func (e *UndefinedLocalSlotError) Error() string {
	return fmt.Sprintf("local variable '%s' is not defined", e.Name)
}

// Is matches ErrUndefinedLocalSlot and, being a missing symbol, ErrUndefinedSymbol.
func (e *UndefinedLocalSlotError) Is(target error) bool {
	return target == ErrUndefinedLocalSlot || target == ErrUndefinedSymbol
}

// ErrTemplateSyntax matches *TemplateSyntaxError.
var ErrTemplateSyntax = errors.New("binding: template syntax")

// TemplateSyntaxError reports a malformed template. Line is 1-based.
type TemplateSyntaxError struct {
	Line   int
	Reason string
}

func (e *TemplateSyntaxError) Error() string {
	return fmt.Sprintf("binding: template line %d: %s", e.Line, e.Reason)
}

// Is matches ErrTemplateSyntax.
func (e *TemplateSyntaxError) Is(target error) bool {
	return target == ErrTemplateSyntax
}
