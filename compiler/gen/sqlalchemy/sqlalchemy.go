// Package sqlalchemy renders SQLAlchemy 2.0 declarative models for the
// relations of a registry.
//
// Each relation becomes one module holding one mapped class, named after the
// class it declares (DB_Users.py). The classes derive from a shared
// declarative base in base.py, returned by SupportFiles.
package sqlalchemy

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/syssam/dbmodel/compiler/gen"
)

// Writer is the SQLAlchemy OrmWriter.
type Writer struct {
	header  string
	dialect *dialect
}

var (
	_ gen.OrmWriter     = (*Writer)(nil)
	_ gen.TypeMapper    = (*Writer)(nil)
	_ gen.SupportWriter = (*Writer)(nil)
)

// New returns a SQLAlchemy writer mapping the types of the given database
// dialect.
func New(c *gen.Config, db string) (*Writer, error) {
	d, ok := dialects[db]
	if !ok {
		return nil, gen.UnsupportedDialect(gen.LangPythonSQLAlchemy, db, supported())
	}
	return &Writer{header: c.Header, dialect: d}, nil
}

// Factory is the gen.OrmFactory of the language.
func Factory(c *gen.Config, db string) (gen.OrmWriter, error) {
	return New(c, db)
}

// Name implements gen.Writer.
func (w *Writer) Name() string { return gen.LangPythonSQLAlchemy }

// Ext implements gen.Writer.
func (w *Writer) Ext() string { return ".py" }

// ClassName implements gen.OrmWriter.
func (w *Writer) ClassName(r *gen.Relation) string { return r.ClassName() }

// TypeMap implements gen.TypeMapper.
func (w *Writer) TypeMap() *gen.TypeMap { return w.dialect.python }

// SupportFiles implements gen.SupportWriter.
func (w *Writer) SupportFiles() map[string]string {
	var b strings.Builder
	w.writeHeader(&b)
	b.WriteString("from sqlalchemy.orm import DeclarativeBase\n\n\n")
	b.WriteString("class Base(DeclarativeBase):\n    pass\n")
	return map[string]string{"base.py": b.String()}
}

func (w *Writer) writeHeader(b *strings.Builder) {
	if w.header != "" {
		fmt.Fprintf(b, "# %s\n\n", w.header)
	}
}

var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true, "assert": true,
	"async": true, "await": true, "break": true, "class": true, "continue": true,
	"def": true, "del": true, "elif": true, "else": true, "except": true,
	"finally": true, "for": true, "from": true, "global": true, "if": true,
	"import": true, "in": true, "is": true, "lambda": true, "nonlocal": true,
	"not": true, "or": true, "pass": true, "raise": true, "return": true,
	"try": true, "while": true, "with": true, "yield": true,
}

// attr returns the Python attribute name of a schema name.
func attr(name string) string {
	if keywords[name] {
		return name + "_"
	}
	return name
}

// WriteColumn renders the mapped attribute of a column:
//
//	name: Mapped[int] = mapped_column(mssql.BIGINT(), primary_key=True)
func (w *Writer) WriteColumn(c *gen.Column, comment bool) (string, error) {
	return w.column(c, false, comment), nil
}

func (w *Writer) column(c *gen.Column, key, comment bool) string {
	var (
		b    strings.Builder
		name = c.Name.String()
		typ  = w.dialect.python.Resolve(c.Type.String())
		args []string
	)
	if comment {
		b.WriteString(gen.Comment("", "# ", c.Comment()))
	}
	if attr(name) != name {
		args = append(args, quote(name))
	}
	args = append(args, w.dialect.columnType(c.Type.String()))
	if c.IsForeignKey() {
		args = append(args, fmt.Sprintf("ForeignKey(%s)", quote(c.FK.String())))
	}
	switch {
	case c.PK || key:
		args = append(args, "primary_key=True")
		if c.PK {
			args = append(args, fmt.Sprintf("autoincrement=%s", pyBool(c.Identity)))
		}
	case c.Nullable:
		typ = "typing.Optional[" + typ + "]"
		args = append(args, "nullable=True")
	default:
		args = append(args, "nullable=False")
	}
	if c.Unique {
		args = append(args, "unique=True")
	}
	fmt.Fprintf(&b, "%s: Mapped[%s] = mapped_column(%s)", attr(name), typ, strings.Join(args, ", "))
	return b.String()
}

// WriteRelation renders the module of the relation class, with its members
// in this order: columns, constants, constructor, methods, properties.
func (w *Writer) WriteRelation(res gen.Resolver, r *gen.Relation, comment bool) (string, error) {
	var body strings.Builder
	if comment {
		body.WriteString(gen.Indent(docstring(r.Comment(), nil), "    "))
		body.WriteByte('\n')
	}
	fmt.Fprintf(&body, "    __tablename__ = %s\n", quote(r.Name.String()))
	if r.IsView() {
		body.WriteString("    __table_args__ = {'info': {'is_view': True}}\n")
	}
	body.WriteByte('\n')

	// Keyless views map every column into the identity of the mapper.
	key := r.IsView() && len(r.PrimaryKey()) == 0
	for _, c := range r.Columns {
		body.WriteString(gen.Indent(w.column(c, key, comment), "    "))
		body.WriteByte('\n')
	}
	t := &types{res: res, self: r}
	if len(r.Constants) > 0 {
		body.WriteByte('\n')
	}
	for _, c := range r.Constants {
		if comment {
			body.WriteString(gen.Comment("    ", "# ", append(c.Title.Lines(), c.Desc.Lines()...)))
		}
		def := "None"
		if !c.Default.IsZero() {
			def = c.Default.String()
		}
		fmt.Fprintf(&body, "    %s: typing.ClassVar[%s] = %s\n", attr(c.Name.String()), t.resolve(c.Type), def)
	}
	body.WriteByte('\n')
	w.constructor(&body, r, t, comment)
	for _, m := range r.RegularMethods() {
		body.WriteByte('\n')
		w.method(&body, m, t, comment)
	}
	for _, p := range r.Props {
		body.WriteByte('\n')
		w.property(&body, p, t, comment)
	}

	var b strings.Builder
	w.writeHeader(&b)
	w.imports(&b, r, t)
	fmt.Fprintf(&b, "\n\nclass %s(Base):\n", r.ClassName())
	b.WriteString(body.String())
	return b.String(), nil
}

// imports writes the import block of the module. It runs after the body
// was rendered, so that the types collected all the names in use.
func (w *Writer) imports(b *strings.Builder, r *gen.Relation, t *types) {
	b.WriteString("from __future__ import annotations\n\n")
	std := []string{"typing"}
	for _, c := range r.Columns {
		t.module(w.dialect.python.Resolve(c.Type.String()))
	}
	for m := range t.modules {
		if m != "typing" && m != "sqlalchemy" {
			std = append(std, m)
		}
	}
	slices.Sort(std)
	for _, m := range std {
		fmt.Fprintf(b, "import %s\n", m)
	}
	b.WriteByte('\n')
	for _, c := range r.Columns {
		if strings.HasPrefix(w.dialect.columnType(c.Type.String()), "sqlalchemy.") {
			b.WriteString("import sqlalchemy\n")
			break
		}
	}
	if len(r.ForeignKeys()) > 0 {
		b.WriteString("from sqlalchemy import ForeignKey\n")
	}
	fmt.Fprintf(b, "from sqlalchemy.dialects import %s\n", w.dialect.module)
	b.WriteString("from sqlalchemy.orm import Mapped, mapped_column\n\n")
	b.WriteString("from .base import Base\n")
	if len(t.classes) > 0 {
		b.WriteString("\nif typing.TYPE_CHECKING:\n")
		for _, c := range slices.Sorted(maps.Keys(t.classes)) {
			fmt.Fprintf(b, "    from .%s import %s\n", c, c)
		}
	}
}

// constructor writes __init__: the flagged constructor method when the
// relation has one, otherwise one taking every column, required columns
// first, then every writable property.
func (w *Writer) constructor(b *strings.Builder, r *gen.Relation, t *types, comment bool) {
	if m := r.Constructor(); m != nil {
		fmt.Fprintf(b, "    def __init__(%s) -> None:\n", t.params("self", m))
		if comment {
			b.WriteString(gen.Indent(docstring(methodLines(m), m.Signature()), "        "))
			b.WriteByte('\n')
		}
		b.WriteString("        super().__init__()\n")
		for _, p := range m.Signature() {
			if _, ok := r.Column(p.Name.String()); ok {
				fmt.Fprintf(b, "        self.%s = %s\n", attr(p.Name.String()), attr(p.Name.String()))
			}
		}
		return
	}
	var required, optional []*gen.Column
	for _, c := range r.Columns {
		if c.Nullable || c.Identity {
			optional = append(optional, c)
		} else {
			required = append(required, c)
		}
	}
	b.WriteString("    def __init__(\n        self,\n")
	for _, c := range required {
		fmt.Fprintf(b, "        %s: %s,\n", attr(c.Name.String()), w.dialect.python.Resolve(c.Type.String()))
	}
	for _, c := range optional {
		fmt.Fprintf(b, "        %s: typing.Optional[%s] = None,\n", attr(c.Name.String()), w.dialect.python.Resolve(c.Type.String()))
	}
	props := r.WritableProps()
	for _, p := range props {
		if p.Default.IsZero() {
			fmt.Fprintf(b, "        %s: typing.Optional[%s] = None,\n", attr(p.Name.String()), t.resolve(p.Type))
		} else {
			fmt.Fprintf(b, "        %s: %s = %s,\n", attr(p.Name.String()), t.resolve(p.Type), p.Default)
		}
	}
	b.WriteString("    ) -> None:\n        super().__init__()\n")
	for _, c := range r.Columns {
		fmt.Fprintf(b, "        self.%s = %s\n", attr(c.Name.String()), attr(c.Name.String()))
	}
	for _, p := range props {
		fmt.Fprintf(b, "        self._%s = %s\n", p.Name, attr(p.Name.String()))
	}
}

func (w *Writer) method(b *strings.Builder, m *gen.Method, t *types, comment bool) {
	self := "self"
	switch m.Kind {
	case gen.MethodStatic:
		b.WriteString("    @staticmethod\n")
		self = ""
	case gen.MethodClass:
		b.WriteString("    @classmethod\n")
		self = "cls"
	}
	fmt.Fprintf(b, "    def %s(%s) -> %s:\n", attr(m.Name.String()), t.params(self, m), t.resolve(m.Type))
	if comment {
		b.WriteString(gen.Indent(docstring(methodLines(m), m.Signature()), "        "))
		b.WriteByte('\n')
	}
	if m.Implemented() {
		fmt.Fprintf(b, "        return %s\n", m.Default)
	} else {
		b.WriteString("        raise NotImplementedError\n")
	}
}

func (w *Writer) property(b *strings.Builder, p *gen.Property, t *types, comment bool) {
	var (
		name = attr(p.Name.String())
		typ  = t.resolve(p.Type)
		def  = "None"
	)
	if !p.Default.IsZero() {
		def = p.Default.String()
	}
	fmt.Fprintf(b, "    @property\n    def %s(self) -> %s:\n", name, typ)
	if comment {
		b.WriteString(gen.Indent(docstring(append(p.Title.Lines(), p.Desc.Lines()...), nil), "        "))
		b.WriteByte('\n')
	}
	switch {
	case !p.Readonly && p.Default.IsZero():
		fmt.Fprintf(b, "        value = getattr(self, '_%s', None)\n", p.Name)
		b.WriteString("        if value is None:\n            raise NotImplementedError\n        return value\n")
	case !p.Readonly:
		fmt.Fprintf(b, "        return getattr(self, '_%s', %s)\n", p.Name, def)
	case p.Default.IsZero():
		b.WriteString("        raise NotImplementedError\n")
	default:
		fmt.Fprintf(b, "        return %s\n", def)
	}
	if p.Readonly {
		return
	}
	fmt.Fprintf(b, "\n    @%s.setter\n    def %s(self, value: %s) -> None:\n", name, name, typ)
	fmt.Fprintf(b, "        self._%s = value\n", p.Name)
}

func methodLines(m *gen.Method) []string {
	return append(m.Title.Lines(), m.Desc.Lines()...)
}

// docstring renders a triple quoted docstring: the first line, a dash rule,
// the remaining lines and the parameter list.
func docstring(lines []string, params []*gen.Parameter) string {
	var b strings.Builder
	b.WriteString("'''\n")
	for i, l := range lines {
		b.WriteString(strings.ReplaceAll(l, "'''", `\'\'\'`))
		b.WriteByte('\n')
		if i == 0 {
			b.WriteString("-\n")
		}
	}
	if len(params) > 0 {
		if len(lines) > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Parameters\n-\n")
		for _, p := range params {
			fmt.Fprintf(&b, "- %s : `%s`\n", p.Name, p.Type)
			for _, l := range p.Desc.Lines() {
				fmt.Fprintf(&b, "    - %s\n", l)
			}
		}
	}
	b.WriteString("'''")
	return b.String()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), "'", `\'`) + "'"
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// types resolves member types and records the modules and the classes of
// other relations they use.
type types struct {
	res     gen.Resolver
	self    *gen.Relation
	modules map[string]bool
	classes map[string]bool
}

func (t *types) resolve(v gen.Value) string {
	parts := gen.ResolveType(t.res, func(r *gen.Relation) string {
		if r != t.self {
			if t.classes == nil {
				t.classes = make(map[string]bool)
			}
			t.classes[r.ClassName()] = true
		}
		return r.ClassName()
	}, v)
	for _, p := range parts {
		t.module(p)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "typing.Union[" + strings.Join(parts, ", ") + "]"
}

var stdModules = map[string]bool{"datetime": true, "decimal": true, "uuid": true, "typing": true}

// module records the standard module a dotted type name belongs to.
func (t *types) module(typ string) {
	m, _, ok := strings.Cut(typ, ".")
	if !ok || !stdModules[m] {
		return
	}
	if t.modules == nil {
		t.modules = make(map[string]bool)
	}
	t.modules[m] = true
}

// params renders the parameter list of m, preceded by the receiver when
// self is not empty.
func (t *types) params(self string, m *gen.Method) string {
	var ps []string
	if self != "" {
		ps = append(ps, self)
	}
	for _, p := range m.Signature() {
		s := attr(p.Name.String()) + ": " + t.resolve(p.Type)
		if p.Keyword() {
			s += " = " + p.Default.String()
		}
		ps = append(ps, s)
	}
	return strings.Join(ps, ", ")
}
