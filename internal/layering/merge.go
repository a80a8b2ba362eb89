// Package layering merges decoded documents (maps, slices and scalars as
// produced by YAML or JSON decoders) where stronger layers win.
package layering

// Merge composes layers ordered from strongest to weakest. Nested maps are
// merged key by key; any other value from a stronger layer replaces the
// weaker one wholesale. Inputs are never modified.
func Merge(layers ...map[string]any) map[string]any {
	if len(layers) == 0 {
		return nil
	}
	merged := cloneMap(layers[len(layers)-1])
	for i := len(layers) - 2; i >= 0; i-- {
		merged = mergeMaps(layers[i], merged)
	}
	return merged
}

func mergeMaps(strong, weak map[string]any) map[string]any {
	if strong == nil {
		return cloneMap(weak)
	}
	result := make(map[string]any, len(strong)+len(weak))
	for key, value := range weak {
		result[key] = Clone(value)
	}
	for key, value := range strong {
		result[key] = mergeValue(value, result[key])
	}
	return result
}

func mergeValue(strong, weak any) any {
	strongMap, ok := asMap(strong)
	if !ok {
		return Clone(strong)
	}
	weakMap, ok := asMap(weak)
	if !ok {
		return cloneMap(strongMap)
	}
	return mergeMaps(strongMap, weakMap)
}

// Clone deep-copies maps and slices; other values are returned as is.
func Clone(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneMap(v)
	case map[any]any:
		if m, ok := asMap(v); ok {
			return cloneMap(m)
		}
		return v
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	default:
		return value
	}
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = Clone(value)
	}
	return out
}

// asMap accepts string-keyed maps, including map[any]any whose keys are all
// strings.
func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, v != nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			s, ok := key.(string)
			if !ok {
				return nil, false
			}
			out[s] = item
		}
		return out, true
	default:
		return nil, false
	}
}
