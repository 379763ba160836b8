package types

// Metadata stores additional custom key-value pairs on a domain entity
type Metadata map[string]string

// Copy returns an independent copy of the metadata; nil stays nil.
func (m Metadata) Copy() Metadata {
	if m == nil {
		return nil
	}
	cp := make(Metadata, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
