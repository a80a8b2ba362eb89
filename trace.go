package binding

import (
	"encoding/json"
)

// Trace captures every source examined while resolving one symbol, matched
// or not, for diagnostics.
type Trace struct {
	Symbol string       `json:"symbol"`
	Kind   string       `json:"kind"`
	State  string       `json:"state"`
	Layers []Provenance `json:"layers"`
}

// Provenance details how one source answered the lookup.
type Provenance struct {
	Source string `json:"source"`
	Role   string `json:"role"`
	Found  bool   `json:"found"`
}

// Owners returns the names of the sources that matched.
func (t Trace) Owners() []string {
	var owners []string
	for _, layer := range t.Layers {
		if layer.Found {
			owners = append(owners, layer.Source)
		}
	}
	return owners
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// Trace records how each registered source answers name.
func (r *Resolver) Trace(name string) Trace {
	symbol := NewSymbol(name)
	trace := Trace{
		Symbol: name,
		Kind:   symbol.Kind.String(),
	}
	matched := 0
	for _, c := range r.examine(name) {
		if c.found {
			matched++
		}
		trace.Layers = append(trace.Layers, Provenance{
			Source: describeSource(c.source),
			Role:   c.role,
			Found:  c.found,
		})
	}
	trace.State = Resolution{Sources: make([]Source, matched)}.State().String()
	return trace
}
