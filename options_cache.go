package binding

// ProgramCache stores parsed templates keyed by their source text.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a template cache on the Binding. Parsed
// templates carry no resolution results, so a cached entry stays valid when
// providers change between renders.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *bindingConfig) {
		cfg.programCache = cache
	}
}

// MapProgramCache is an unsynchronized ProgramCache backed by a map.
type MapProgramCache map[string]any

// Get implements ProgramCache.
func (c MapProgramCache) Get(key string) (any, bool) {
	value, ok := c[key]
	return value, ok
}

// Set implements ProgramCache.
func (c MapProgramCache) Set(key string, value any) {
	c[key] = value
}
