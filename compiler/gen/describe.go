package gen

import (
	"fmt"
	"strconv"
	"strings"
)

// Verbosity selects how much of an element Describe prints.
type Verbosity uint8

const (
	// Short prints the kind and name on a single line.
	Short Verbosity = iota
	// Long adds one line per attribute.
	Long
	// All adds the nested elements (columns, members, parameters).
	All
)

// ParseVerbosity parses "short", "long" or "all".
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(s) {
	case "short", "":
		return Short, nil
	case "long":
		return Long, nil
	case "all":
		return All, nil
	}
	return 0, fmt.Errorf("unknown verbosity %q, expect short, long or all", s)
}

type description struct {
	kind     string
	name     string
	flags    []string
	attrs    [][2]string
	children []interface{ Describe(Verbosity) string }
}

func describe(kind, name string) *description {
	return &description{kind: kind, name: name}
}

func (d *description) flag(name string, set bool) *description {
	if set {
		d.flags = append(d.flags, name)
	}
	return d
}

func (d *description) attr(key string, v Value) *description {
	if !v.IsZero() {
		d.attrs = append(d.attrs, [2]string{key, strconv.Quote(v.String())})
	}
	return d
}

func (d *description) child(c ...interface{ Describe(Verbosity) string }) *description {
	d.children = append(d.children, c...)
	return d
}

func (d *description) render(v Verbosity) string {
	var b strings.Builder
	b.WriteString(d.kind)
	b.WriteByte(' ')
	b.WriteString(d.name)
	if len(d.flags) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(d.flags, " "))
	}
	if v == Short {
		return b.String()
	}
	for _, a := range d.attrs {
		fmt.Fprintf(&b, "\n  %s: %s", a[0], a[1])
	}
	if v < All {
		return b.String()
	}
	for _, c := range d.children {
		for _, line := range strings.Split(c.Describe(All), "\n") {
			b.WriteString("\n  ")
			b.WriteString(line)
		}
	}
	return b.String()
}

// Describe returns the value text, prefixed by its kind beyond Short.
func (v Value) Describe(verb Verbosity) string {
	if verb == Short {
		return v.raw
	}
	return v.kind.String() + " " + strconv.Quote(v.raw)
}

// Describe returns a description of the column.
func (c *Column) Describe(v Verbosity) string {
	return describe("column", c.Name.String()).
		flag("pk", c.PK).
		flag("identity", c.Identity).
		flag("unique", c.Unique).
		flag("nullable", c.Nullable).
		attr("type", c.Type).
		attr("title", c.Title).
		attr("desc", c.Desc).
		attr("fk", c.FK).
		render(v)
}

// Describe implements Member.
func (c *Constant) Describe(v Verbosity) string {
	return describe("constant", c.Name.String()).
		attr("type", c.Type).
		attr("title", c.Title).
		attr("desc", c.Desc).
		attr("default", c.Default).
		render(v)
}

// Describe implements Member.
func (p *Property) Describe(v Verbosity) string {
	return describe("property", p.Name.String()).
		flag("readonly", p.Readonly).
		attr("type", p.Type).
		attr("title", p.Title).
		attr("desc", p.Desc).
		attr("default", p.Default).
		render(v)
}

// Describe implements Member.
func (p *Parameter) Describe(v Verbosity) string {
	return describe("parameter", p.Name.String()).
		flag("keyword", p.Keyword()).
		attr("type", p.Type).
		attr("desc", p.Desc).
		attr("default", p.Default).
		render(v)
}

// Describe implements Member.
func (m *Method) Describe(v Verbosity) string {
	d := describe("method", m.Name.String()).
		flag(m.Kind.String(), true).
		flag("constructor", m.Constructor).
		attr("type", m.Type).
		attr("title", m.Title).
		attr("desc", m.Desc).
		attr("default", m.Default)
	for _, p := range m.Params {
		d.child(p)
	}
	return d.render(v)
}

// Describe returns a description of the relation; All includes its columns
// and members.
func (r *Relation) Describe(v Verbosity) string {
	d := describe(r.Kind.String(), r.Name.String()).
		flag("trigger_update", r.TriggerUpdate).
		attr("title", r.Title).
		attr("desc", r.Desc)
	for _, c := range r.Columns {
		d.child(c)
	}
	for _, c := range r.Constants {
		d.child(c)
	}
	for _, m := range r.Methods {
		d.child(m)
	}
	for _, p := range r.Props {
		d.child(p)
	}
	return d.render(v)
}

// Describe returns a summary of the registry; Long lists the relations and
// All describes each of them fully.
func (r *Registry) Describe(v Verbosity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "registry (%d tables, %d views)", len(r.Tables), len(r.Views))
	if v == Short {
		return b.String()
	}
	inner := Short
	if v == All {
		inner = All
	}
	for _, rel := range r.Relations() {
		for _, line := range strings.Split(rel.Describe(inner), "\n") {
			b.WriteString("\n  ")
			b.WriteString(line)
		}
	}
	return b.String()
}
