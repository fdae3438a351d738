package featureset

// Lookup returns the field with the given name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Has reports whether a field with the given name is declared.
func (s Schema) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Without returns a copy of the schema with every field named in names removed.
func (s Schema) Without(names ...string) Schema {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}

	out := make(Schema, 0, len(s))
	for _, f := range s {
		if _, ok := drop[f.Name]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Names returns the field names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}
