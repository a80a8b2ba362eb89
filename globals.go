package binding

// Globals holds process-global slots ("$name") and top-level constants. Every
// Scope sees the same Globals unless configured otherwise.
type Globals struct {
	slots     *Slots
	constants *Slots
}

// DefaultGlobals is shared by scopes created without WithGlobals.
var DefaultGlobals = NewGlobals()

// NewGlobals constructs an empty global table.
func NewGlobals() *Globals {
	return &Globals{
		slots:     NewSlots(),
		constants: NewSlots(),
	}
}

// Get returns a global by bare name.
func (g *Globals) Get(name string) (any, bool) {
	if g == nil {
		return nil, false
	}
	return g.slots.Get(name)
}

// Set stores a global by bare name.
func (g *Globals) Set(name string, value any) {
	g.slots.Set(name, value)
}

// Delete removes a global by bare name.
func (g *Globals) Delete(name string) bool {
	return g.slots.Delete(name)
}

// Constant returns a top-level constant.
func (g *Globals) Constant(name string) (any, bool) {
	if g == nil {
		return nil, false
	}
	return g.constants.Get(name)
}

// SetConstant stores a top-level constant.
func (g *Globals) SetConstant(name string, value any) error {
	if !validConstantName(name) {
		return &InvalidConfigurationError{Field: "constant", Reason: "invalid constant name " + name}
	}
	g.constants.Set(name, value)
	return nil
}

// Names returns global names sorted alphabetically.
func (g *Globals) Names() []string {
	if g == nil {
		return nil
	}
	return g.slots.Names()
}
