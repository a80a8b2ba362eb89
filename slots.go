package binding

import "sort"

// Slots is a named storage table. Presence is tracked independently of the
// stored value, so a slot holding nil still counts as set.
//
// Slots carry no internal locking. Callers sharing a receiver between
// goroutines must serialise access themselves.
type Slots struct {
	values map[string]any
}

// NewSlots constructs an empty table.
func NewSlots() *Slots {
	return &Slots{values: map[string]any{}}
}

// Get returns the value stored under name and whether it is set.
func (s *Slots) Get(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	value, ok := s.values[name]
	return value, ok
}

// Has reports whether name is set.
func (s *Slots) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Set stores value under name.
func (s *Slots) Set(name string, value any) {
	if s.values == nil {
		s.values = map[string]any{}
	}
	s.values[name] = value
}

// Delete removes name, reporting whether it was set.
func (s *Slots) Delete(name string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.values[name]; !ok {
		return false
	}
	delete(s.values, name)
	return true
}

// Names returns set slot names sorted alphabetically.
func (s *Slots) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of set slots.
func (s *Slots) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}
