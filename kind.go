package binding

import "strings"

// SymbolKind identifies which slot category an identifier addresses. The kind
// is derived purely from the identifier's leading characters.
type SymbolKind int

const (
	// KindUnknown guards against empty or malformed identifiers.
	KindUnknown SymbolKind = iota
	// KindCallable is a bare name: a local slot or a receiver method.
	KindCallable
	// KindInstanceSlot is an "@name" slot owned by the scope's receiver.
	KindInstanceSlot
	// KindNamespaceSlot is an "@@name" slot owned by the receiver's namespace.
	KindNamespaceSlot
	// KindGlobalSlot is a "$name" slot visible from every scope.
	KindGlobalSlot
	// KindConstantSlot is a capitalised name.
	KindConstantSlot
)

func (k SymbolKind) String() string {
	switch k {
	case KindCallable:
		return "callable"
	case KindInstanceSlot:
		return "instance"
	case KindNamespaceSlot:
		return "namespace"
	case KindGlobalSlot:
		return "global"
	case KindConstantSlot:
		return "constant"
	default:
		return "unknown"
	}
}

// ParseSymbolKind converts a string representation into the corresponding
// SymbolKind. Returns KindUnknown for unrecognised values.
func ParseSymbolKind(value string) SymbolKind {
	switch strings.ToLower(value) {
	case "callable":
		return KindCallable
	case "instance":
		return KindInstanceSlot
	case "namespace":
		return KindNamespaceSlot
	case "global":
		return KindGlobalSlot
	case "constant":
		return KindConstantSlot
	default:
		return KindUnknown
	}
}

// Symbol is a name together with its inferred kind.
type Symbol struct {
	Name string
	Kind SymbolKind
}

// NewSymbol classifies name.
func NewSymbol(name string) Symbol {
	return Symbol{Name: name, Kind: Classify(name)}
}

// Bare returns the name without its sigil ("@@count" -> "count").
func (s Symbol) Bare() string {
	return bareName(s.Name)
}

// Classify maps an identifier onto its slot category.
func Classify(name string) SymbolKind {
	switch {
	case name == "":
		return KindUnknown
	case strings.HasPrefix(name, "@@"):
		if !validIdentifier(name[2:]) {
			return KindUnknown
		}
		return KindNamespaceSlot
	case strings.HasPrefix(name, "@"):
		if !validIdentifier(name[1:]) {
			return KindUnknown
		}
		return KindInstanceSlot
	case strings.HasPrefix(name, "$"):
		if !validIdentifier(name[1:]) {
			return KindUnknown
		}
		return KindGlobalSlot
	case name[0] >= 'A' && name[0] <= 'Z':
		return KindConstantSlot
	default:
		return KindCallable
	}
}

func bareName(name string) string {
	switch {
	case strings.HasPrefix(name, "@@"):
		return name[2:]
	case strings.HasPrefix(name, "@"), strings.HasPrefix(name, "$"):
		return name[1:]
	default:
		return name
	}
}

func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// validConstantName reports whether name can be looked up as a constant.
func validConstantName(name string) bool {
	if name == "" || name[0] < 'A' || name[0] > 'Z' {
		return false
	}
	return validIdentifier(name)
}
