package binding

// Namespace is a namespace provider: a named container of its own functions,
// namespace slots ("@@name") and constants. Objects reference a Namespace as
// their type, so every object of that type shares its slots.
type Namespace struct {
	name      string
	functions *FunctionRegistry
	slots     *Slots
	constants *Slots
}

// NewNamespace builds an empty namespace called name.
func NewNamespace(name string) *Namespace {
	return &Namespace{
		name:      name,
		functions: NewFunctionRegistry(),
		slots:     NewSlots(),
		constants: NewSlots(),
	}
}

// Name returns the namespace name.
func (n *Namespace) Name() string {
	if n == nil {
		return ""
	}
	return n.name
}

// SourceName implements Source.
func (n *Namespace) SourceName() string {
	return n.Name()
}

// NamespaceName implements Provider.
func (n *Namespace) NamespaceName() string {
	return n.Name()
}

func (n *Namespace) String() string {
	return n.Name()
}

// Method implements Provider. Only functions defined directly on the
// namespace are reported.
func (n *Namespace) Method(name string) (Function, bool) {
	if n == nil {
		return nil, false
	}
	return n.functions.Lookup(name)
}

// Functions exposes the namespace's function table.
func (n *Namespace) Functions() *FunctionRegistry {
	return n.functions
}

// Define registers or replaces a public function and returns n for chaining.
// It panics on an invalid name so fixtures can be built inline.
func (n *Namespace) Define(name string, fn Function) *Namespace {
	if err := n.functions.Define(name, fn); err != nil {
		panic(err)
	}
	return n
}

// Undefine removes a function, reporting whether it existed.
func (n *Namespace) Undefine(name string) bool {
	return n.functions.Remove(name)
}

// Call invokes a function of the namespace, private ones included.
func (n *Namespace) Call(name string, block Block, args ...any) (any, error) {
	return n.functions.Call(name, block, args...)
}

// Slots exposes the namespace slot table, keyed by bare name.
func (n *Namespace) Slots() *Slots {
	return n.slots
}

// Constants exposes the constant table.
func (n *Namespace) Constants() *Slots {
	return n.constants
}

// SetConstant stores a constant. Invalid constant names are rejected.
func (n *Namespace) SetConstant(name string, value any) error {
	if !validConstantName(name) {
		return &InvalidConfigurationError{Field: "constant", Reason: "invalid constant name " + name}
	}
	n.constants.Set(name, value)
	return nil
}
