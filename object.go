package binding

// DefaultNamespace is the type assigned to objects created without one.
const DefaultNamespace = "Object"

// Object is an object provider. Its methods are bound to this one instance;
// functions of its namespace are considered inherited and never count as the
// object's own.
type Object struct {
	name      string
	namespace *Namespace
	methods   *FunctionRegistry
	slots     *Slots
}

// NewObject creates an object named name whose type is namespace. A nil
// namespace gets a fresh DefaultNamespace.
func NewObject(name string, namespace *Namespace) *Object {
	if namespace == nil {
		namespace = NewNamespace(DefaultNamespace)
	}
	return &Object{
		name:      name,
		namespace: namespace,
		methods:   NewFunctionRegistry(),
		slots:     NewSlots(),
	}
}

// Name returns the object's descriptive name.
func (o *Object) Name() string {
	if o == nil {
		return ""
	}
	return o.name
}

// SourceName implements Source.
func (o *Object) SourceName() string {
	return o.Name()
}

// NamespaceName implements Provider.
func (o *Object) NamespaceName() string {
	if o == nil {
		return ""
	}
	return o.namespace.Name()
}

func (o *Object) String() string {
	return o.Name()
}

// Namespace returns the object's type.
func (o *Object) Namespace() *Namespace {
	if o == nil {
		return nil
	}
	return o.namespace
}

// Method implements Provider.
func (o *Object) Method(name string) (Function, bool) {
	if o == nil {
		return nil, false
	}
	return o.methods.Lookup(name)
}

// Methods exposes the object's own method table.
func (o *Object) Methods() *FunctionRegistry {
	return o.methods
}

// Define registers or replaces a public method and returns o for chaining.
// It panics on an invalid name so fixtures can be built inline.
func (o *Object) Define(name string, fn Function) *Object {
	if err := o.methods.Define(name, fn); err != nil {
		panic(err)
	}
	return o
}

// Undefine removes a method, reporting whether it existed.
func (o *Object) Undefine(name string) bool {
	return o.methods.Remove(name)
}

// Call invokes a method of the object, private ones included.
func (o *Object) Call(name string, block Block, args ...any) (any, error) {
	return o.methods.Call(name, block, args...)
}

// Slots exposes the instance slot table, keyed by bare name.
func (o *Object) Slots() *Slots {
	return o.slots
}
