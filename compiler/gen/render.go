package gen

import (
	"fmt"
	"strings"
)

// Comment renders lines as a comment block: every line is prefixed with
// indent and marker ("-- ", "# ", "// "). Empty lines keep the bare marker.
func Comment(indent, marker string, lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(indent)
		if l == "" {
			b.WriteString(strings.TrimRight(marker, " "))
		} else {
			b.WriteString(marker)
			b.WriteString(l)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Indent prefixes every non-empty line of s with indent.
func Indent(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = indent + l
		}
	}
	return strings.Join(lines, "\n")
}

// ResolveType returns the parts of a member type, with relation names
// replaced by the class name the writer gives them.
func ResolveType(res Resolver, class func(*Relation) string, t Value) []string {
	parts := t.Union()
	for i, p := range parts {
		if rel, ok := res.Table(p); ok {
			parts[i] = class(rel)
		} else if rel, ok := res.View(p); ok {
			parts[i] = class(rel)
		}
	}
	return parts
}

// ShadowColumns returns the names of the two bookkeeping columns of the
// change tracking table. It fails when they collide with a table column.
func ShadowColumns(r *Relation) (id, at string, err error) {
	prefix := r.shadowPrefix()
	id, at = prefix+"id", prefix+"at"
	for _, n := range []string{id, at} {
		if _, ok := r.Column(n); ok {
			return "", "", fmt.Errorf("column %q of %s collides with the change tracking table columns", n, r.Name)
		}
	}
	return id, at, nil
}

// KeyName returns a constraint name such as "PK_Statuses" or
// "FK_Users_status_id".
func KeyName(kind string, r *Relation, cols ...*Column) string {
	parts := []string{kind, r.Name.String()}
	for _, c := range cols {
		parts = append(parts, c.Name.String())
	}
	return strings.Join(parts, "_")
}
