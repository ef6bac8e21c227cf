package gen

import (
	"regexp"
	"strings"
)

// ValueKind tags the rule a Value was validated against.
type ValueKind uint8

// Value kinds.
const (
	KindName ValueKind = iota + 1
	KindTitle
	KindDescription
	KindTypeName
	KindDefault
	KindForeignKey
)

var kindNames = [...]string{
	KindName:        "name",
	KindTitle:       "title",
	KindDescription: "description",
	KindTypeName:    "type name",
	KindDefault:     "default",
	KindForeignKey:  "foreign key",
}

// String returns the kind name.
func (k ValueKind) String() string {
	if k == 0 || int(k) >= len(kindNames) {
		return "value"
	}
	return kindNames[k]
}

var identRE = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Value is an immutable, validated scalar of the schema. The zero Value is
// "absent" and is used for optional attributes such as titles and defaults.
type Value struct {
	kind ValueKind
	raw  string
}

// NewValue trims raw and validates it against the rule of kind.
func NewValue(kind ValueKind, raw string) (Value, error) {
	v := Value{kind: kind, raw: strings.TrimSpace(raw)}
	if msg := v.check(); msg != "" {
		return Value{}, NewValueError(kind, raw, msg)
	}
	return v, nil
}

// NewName returns a validated identifier.
func NewName(raw string) (Value, error) { return NewValue(KindName, raw) }

// NewTitle returns a validated single line title.
func NewTitle(raw string) (Value, error) { return NewValue(KindTitle, raw) }

// NewDescription returns a validated description.
func NewDescription(raw string) (Value, error) { return NewValue(KindDescription, raw) }

// NewTypeName returns a validated type name.
func NewTypeName(raw string) (Value, error) { return NewValue(KindTypeName, raw) }

// NewDefault returns a validated default literal.
func NewDefault(raw string) (Value, error) { return NewValue(KindDefault, raw) }

// NewForeignKey returns a validated "Relation.Column" reference.
func NewForeignKey(raw string) (Value, error) { return NewValue(KindForeignKey, raw) }

// optional builds a value only when raw holds something. An empty input
// yields the zero (absent) Value.
func optional(kind ValueKind, raw string) (Value, error) {
	if strings.TrimSpace(raw) == "" {
		return Value{}, nil
	}
	return NewValue(kind, raw)
}

// optionalPtr is like optional, for attributes whose absence is a nil pointer.
func optionalPtr(kind ValueKind, raw *string) (Value, error) {
	if raw == nil {
		return Value{}, nil
	}
	return NewValue(kind, *raw)
}

func (v Value) check() string {
	if v.raw == "" {
		return "value cannot be empty"
	}
	switch v.kind {
	case KindName:
		if !identRE.MatchString(v.raw) {
			return "must start with a letter or underscore and contain only letters, digits and underscores"
		}
	case KindTitle:
		if strings.ContainsAny(v.raw, "\r\n") {
			return "must be a single line"
		}
	case KindTypeName:
		if strings.ContainsAny(v.raw, "\r\n") {
			return "must be a single line"
		}
		for _, p := range strings.Split(v.raw, ",") {
			if strings.TrimSpace(p) == "" {
				return "union contains an empty type"
			}
		}
	case KindForeignKey:
		parts := strings.Split(v.raw, ".")
		if len(parts) != 2 {
			return `must have the form "Relation.Column"`
		}
		for _, p := range parts {
			if !identRE.MatchString(p) {
				return `must have the form "Relation.Column" with identifier parts`
			}
		}
	case KindDescription, KindDefault:
	default:
		return "unknown value kind"
	}
	return ""
}

// Validate reports whether v satisfies its kind rule. The zero Value is
// not valid.
func (v Value) Validate() bool {
	return v.kind != 0 && v.check() == ""
}

// Kind returns the kind of v.
func (v Value) Kind() ValueKind { return v.kind }

// String returns the trimmed raw string.
func (v Value) String() string { return v.raw }

// IsZero reports whether v is absent.
func (v Value) IsZero() bool { return v.raw == "" }

// Equal reports whether v and o hold the same kind and content.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.raw == o.raw
}

// Reference splits a foreign key into its relation and column names.
// It returns empty strings for values of other kinds.
func (v Value) Reference() (relation, column string) {
	if v.kind != KindForeignKey {
		return "", ""
	}
	relation, column, _ = strings.Cut(v.raw, ".")
	return relation, column
}

// Union returns the trimmed parts of a comma separated type name. A plain
// type name returns a single element.
func (v Value) Union() []string {
	if v.kind != KindTypeName || v.raw == "" {
		return nil
	}
	parts := strings.Split(v.raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Lines returns the text of v split into trimmed lines, for comment blocks.
func (v Value) Lines() []string {
	if v.raw == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(v.raw, "\r\n", "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return lines
}
