package binding

// Surface is the dispatch facade built from a Resolver. It keeps a table of
// forwarding closures, one per name requested through Func, but never caches a
// resolution: every call resolves again.
type Surface struct {
	resolver   *Resolver
	scope      *Scope
	forwarders map[string]Function
}

// NewSurface builds a surface over registry.
func NewSurface(registry *Registry) *Surface {
	return &Surface{
		resolver:   NewResolver(registry),
		scope:      registry.Scope(),
		forwarders: map[string]Function{},
	}
}

// Scope returns the fallback scope.
func (s *Surface) Scope() *Scope {
	return s.scope
}

// Exists reports whether name has at least one owner.
func (s *Surface) Exists(name string) bool {
	return s.resolver.Exists(name)
}

// ResolveOwner returns the sole owner of name, failing with
// *UndefinedSymbolError or *AmbiguousSymbolError.
func (s *Surface) ResolveOwner(name string) (Source, error) {
	return s.resolver.ResolveStrict(name)
}

// ResolveOwners lists every owner of name without failing. The result is
// empty, never nil, when no source matches.
func (s *Surface) ResolveOwners(name string) []Source {
	sources := s.resolver.Resolve(name).Sources
	if sources == nil {
		return []Source{}
	}
	return sources
}

// Trace reports how every source answered name.
func (s *Surface) Trace(name string) Trace {
	return s.resolver.Trace(name)
}

// Invoke resolves name strictly and evaluates it. Scope-owned names are
// evaluated in the scope; anything else is forwarded with the same block and
// arguments to the owning provider, whose result is returned unmodified.
func (s *Surface) Invoke(name string, block Block, args ...any) (any, error) {
	owner, err := s.ResolveOwner(name)
	if err != nil {
		return nil, err
	}
	if owner == ScopeTag {
		return s.scope.Value(name, block, args...)
	}
	provider := owner.(Provider)
	fn, ok := provider.Method(name)
	if !ok {
		return nil, &UndefinedSymbolError{Name: name}
	}
	return fn(block, args...)
}

// Func returns the forwarding closure for name. The closure is created once
// per surface and calls Invoke, so it always sees the current owner.
func (s *Surface) Func(name string) Function {
	if fn, ok := s.forwarders[name]; ok {
		return fn
	}
	fn := func(block Block, args ...any) (any, error) {
		return s.Invoke(name, block, args...)
	}
	s.forwarders[name] = fn
	return fn
}
