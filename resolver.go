package binding

// ResolutionState tags the outcome of resolving a symbol.
type ResolutionState int

const (
	// Undefined means no source owns the symbol.
	Undefined ResolutionState = iota
	// Single means exactly one source owns the symbol.
	Single
	// Ambiguous means two or more sources own the symbol.
	Ambiguous
)

func (s ResolutionState) String() string {
	switch s {
	case Single:
		return "single"
	case Ambiguous:
		return "ambiguous"
	default:
		return "undefined"
	}
}

// Resolution is the outcome of one Resolve call. Sources are ordered objects
// first, then namespaces, then ScopeTag.
type Resolution struct {
	Symbol  Symbol
	Sources []Source
}

// State derives the tag from the number of sources.
func (r Resolution) State() ResolutionState {
	switch len(r.Sources) {
	case 0:
		return Undefined
	case 1:
		return Single
	default:
		return Ambiguous
	}
}

// Resolver decides which sources own a name. Nothing is cached: every call
// re-examines the live capability sets of the registry's providers.
type Resolver struct {
	registry *Registry
}

// NewResolver builds a resolver over registry.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// candidate is one source examined during resolution.
type candidate struct {
	source Source
	role   string
	found  bool
}

func (r *Resolver) examine(name string) []candidate {
	scope := r.registry.scope
	var out []candidate
	seen := map[Source]struct{}{}
	visit := func(role string, provider Provider) {
		found := false
		if !scope.Skipped(provider.NamespaceName()) {
			_, found = provider.Method(name)
		}
		if _, dup := seen[provider]; dup {
			found = false
		} else if found {
			seen[provider] = struct{}{}
		}
		out = append(out, candidate{source: provider, role: role, found: found})
	}
	for _, provider := range r.registry.objects {
		visit("object", provider)
	}
	for _, provider := range r.registry.namespaces {
		visit("namespace", provider)
	}
	out = append(out, candidate{source: ScopeTag, role: "scope", found: scope.HasSymbol(name)})
	return out
}

// Resolve computes the sources currently owning name.
func (r *Resolver) Resolve(name string) Resolution {
	resolution := Resolution{Symbol: NewSymbol(name)}
	for _, c := range r.examine(name) {
		if c.found {
			resolution.Sources = append(resolution.Sources, c.source)
		}
	}
	return resolution
}

// Exists reports whether at least one source owns name. An ambiguous name
// exists even though invoking it fails.
func (r *Resolver) Exists(name string) bool {
	return r.Resolve(name).State() != Undefined
}

// ResolveStrict returns the sole owner of name or fails with
// *UndefinedSymbolError or *AmbiguousSymbolError.
func (r *Resolver) ResolveStrict(name string) (Source, error) {
	resolution := r.Resolve(name)
	switch resolution.State() {
	case Undefined:
		return nil, &UndefinedSymbolError{Name: name}
	case Ambiguous:
		return nil, &AmbiguousSymbolError{Name: name, Sources: resolution.Sources}
	default:
		return resolution.Sources[0], nil
	}
}
