package gen

import (
	"maps"
	"slices"
	"strings"
)

// TypeMap maps the type names of one database dialect to the type names of
// an ORM language. Keys are matched case-insensitively on the full type
// first ("tinyint(1)") and then on its base name ("tinyint").
type TypeMap struct {
	dialect  string
	fallback string
	types    map[string]string
}

// NewTypeMap creates a TypeMap for the dialect. Unknown types resolve to
// fallback.
func NewTypeMap(dialect, fallback string, types map[string]string) *TypeMap {
	m := &TypeMap{dialect: dialect, fallback: fallback, types: make(map[string]string, len(types))}
	for k, v := range types {
		m.types[strings.ToLower(k)] = v
	}
	return m
}

// Dialect returns the dialect the map belongs to.
func (m *TypeMap) Dialect() string { return m.dialect }

// Set adds or replaces a mapping.
func (m *TypeMap) Set(dbType, ormType string) *TypeMap {
	m.types[strings.ToLower(strings.TrimSpace(dbType))] = ormType
	return m
}

// Lookup returns the ORM type of dbType, if known.
func (m *TypeMap) Lookup(dbType string) (string, bool) {
	full := strings.ToLower(strings.TrimSpace(dbType))
	if t, ok := m.types[full]; ok {
		return t, true
	}
	base, _ := BaseType(full)
	t, ok := m.types[base]
	return t, ok
}

// Resolve returns the ORM type of dbType, or the fallback type.
func (m *TypeMap) Resolve(dbType string) string {
	if t, ok := m.Lookup(dbType); ok {
		return t
	}
	return m.fallback
}

// Keys returns the mapped type names in sorted order.
func (m *TypeMap) Keys() []string {
	return slices.Sorted(maps.Keys(m.types))
}

// BaseType splits a dialect type into its lower-cased base name and its
// argument list, e.g. "NVARCHAR(50)" -> ("nvarchar", "50").
func BaseType(dbType string) (base, args string) {
	t := strings.TrimSpace(dbType)
	if i := strings.IndexByte(t, '('); i > 0 {
		args = strings.TrimSuffix(strings.TrimSpace(t[i+1:]), ")")
		t = t[:i]
	}
	return strings.ToLower(strings.TrimSpace(t)), strings.TrimSpace(args)
}
