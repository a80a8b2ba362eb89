package binding

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-binding/internal/layering"
)

// Seed maps scope names (sigils included) to values, e.g.
//
//	"@repository": {user_name: alice}
//	"$env": production
//	title: Release notes
type Seed map[string]any

// ParseSeed decodes a YAML document into a Seed.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("binding: parse seed: %w", err)
	}
	if seed == nil {
		seed = Seed{}
	}
	return seed, nil
}

// MergeSeeds combines seeds ordered from strongest to weakest. Nested maps
// are merged key by key; other values from stronger seeds win.
func MergeSeeds(seeds ...Seed) Seed {
	layers := make([]map[string]any, len(seeds))
	for i, seed := range seeds {
		layers[i] = seed
	}
	merged := layering.Merge(layers...)
	if merged == nil {
		return Seed{}
	}
	return Seed(merged)
}

// Names returns the seeded names in sorted order.
func (s Seed) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply writes every entry into scope, routed by name classification, in
// sorted name order. It stops at the first invalid name.
func (s Seed) Apply(scope *Scope) error {
	for _, name := range s.Names() {
		if err := InjectByIdentity(name, s[name], scope); err != nil {
			return err
		}
	}
	return nil
}
