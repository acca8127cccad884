package types

// Metadata is the free-form JSON object attached to products, variants and
// line items. Packaging options live under the PackagingOptionsKey key.
type Metadata map[string]any

const PackagingOptionsKey = "packaging_options"

// Value returns the raw value stored under key, or nil.
func (m Metadata) Value(key string) any {
	if m == nil {
		return nil
	}
	return m[key]
}

// Clone returns a shallow copy so callers can annotate without mutating the source.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
