// Package golang renders Go model structs for the relations of a registry.
//
// Each relation becomes one file declaring a struct with db and json tagged
// fields, a TableName method, its constants, a constructor, its methods as
// methods (instance) or functions (static and class), and getter and setter
// pairs for its properties. Nullable columns map to pointer fields.
package golang

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/dbmodel/compiler/gen"
)

// Writer is the Go OrmWriter.
type Writer struct {
	header string
	pkg    string
	types  *gen.TypeMap
}

var (
	_ gen.OrmWriter  = (*Writer)(nil)
	_ gen.TypeMapper = (*Writer)(nil)
)

// New returns a Go writer mapping the types of the given database dialect.
func New(c *gen.Config, db string) (*Writer, error) {
	tm, ok := typeMaps[db]
	if !ok {
		return nil, gen.UnsupportedDialect(gen.LangGo, db, supported())
	}
	pkg := c.Package
	if pkg == "" {
		pkg = gen.DefaultPackage
	}
	return &Writer{header: c.Header, pkg: pkg, types: tm}, nil
}

// Factory is the gen.OrmFactory of the language.
func Factory(c *gen.Config, db string) (gen.OrmWriter, error) {
	return New(c, db)
}

// Name implements gen.Writer.
func (w *Writer) Name() string { return gen.LangGo }

// Ext implements gen.Writer.
func (w *Writer) Ext() string { return ".go" }

// ClassName returns the struct name of the relation (DB_Users -> DBUsers).
func (w *Writer) ClassName(r *gen.Relation) string { return gen.Pascal(r.ClassName()) }

// TypeMap implements gen.TypeMapper.
func (w *Writer) TypeMap() *gen.TypeMap { return w.types }

// field returns the struct field of a column, preceded by its comment.
func (w *Writer) field(c *gen.Column, comment bool) []jen.Code {
	var code []jen.Code
	if comment {
		for _, l := range c.Comment() {
			code = append(code, jen.Comment(l))
		}
	}
	name := c.Name.String()
	typ := typeCode(w.types.Resolve(c.Type.String()))
	json := name
	if c.Nullable {
		typ = jen.Op("*").Add(typ)
		json += ",omitempty"
	}
	return append(code, jen.Id(gen.Pascal(name)).Add(typ).Tag(map[string]string{
		"db":   name,
		"json": json,
	}))
}

// WriteColumn renders the struct field of a column:
//
//	UserID int64 `db:"user_id" json:"user_id"`
func (w *Writer) WriteColumn(c *gen.Column, comment bool) (string, error) {
	var buf bytes.Buffer
	if err := jen.Type().Id("_").Struct(w.field(c, comment)...).Render(&buf); err != nil {
		return "", err
	}
	src := buf.String()
	start, end := strings.IndexByte(src, '{'), strings.LastIndexByte(src, '}')
	if start < 0 || end < start {
		return "", fmt.Errorf("unexpected field rendering %q", src)
	}
	lines := strings.Split(strings.Trim(src[start+1:end], "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(l, "\t")
	}
	return strings.Join(lines, "\n"), nil
}

// WriteRelation renders the Go file of the relation. It fails when two
// members of the relation map to the same Go identifier.
func (w *Writer) WriteRelation(res gen.Resolver, r *gen.Relation, comment bool) (string, error) {
	if err := w.checkNames(r); err != nil {
		return "", err
	}
	var (
		f    = jen.NewFile(w.pkg)
		name = w.ClassName(r)
		recv = gen.Receiver(name)
		m    = &members{w: w, res: res, self: r}
	)
	if w.header != "" {
		f.HeaderComment(w.header)
	}
	f.ImportName(uuidType[:strings.LastIndexByte(uuidType, '.')], "uuid")

	if comment {
		lines := r.Comment()
		f.Comment(fmt.Sprintf("%s maps the %s %s.", name, r.Name, r.Kind))
		f.Comment("")
		for _, l := range lines {
			f.Comment(l)
		}
	}
	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		for _, c := range r.Columns {
			for _, code := range w.field(c, comment) {
				g.Add(code)
			}
		}
		for _, p := range r.WritableProps() {
			g.Id(ident(p.Name.String())).Op("*").Add(m.typ(p.Type))
		}
	})

	f.Comment(fmt.Sprintf("TableName returns the name of the %s.", r.Kind))
	f.Func().Params(jen.Id(name)).Id("TableName").Params().String().Block(
		jen.Return(jen.Lit(r.Name.String())),
	)

	m.constants(f, name, r.Constants, comment)
	m.constructor(f, name, comment)
	for _, fn := range r.RegularMethods() {
		m.method(f, name, recv, fn, comment)
	}
	for _, p := range r.Props {
		m.property(f, name, recv, p, comment)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// members renders the members of one relation.
type members struct {
	w    *Writer
	res  gen.Resolver
	self *gen.Relation
}

// typ resolves a member type: relation names become pointers to their
// structs and unions become any.
func (m *members) typ(v gen.Value) *jen.Statement {
	parts := gen.ResolveType(m.res, func(r *gen.Relation) string {
		return "*" + m.w.ClassName(r)
	}, v)
	if len(parts) != 1 {
		return jen.Id("any")
	}
	return typeCode(memberType(parts[0]))
}

// result returns the result type of a method, nil for None.
func (m *members) result(v gen.Value) *jen.Statement {
	if s := v.String(); s == "None" || s == "void" {
		return nil
	}
	return m.typ(v)
}

func (m *members) constants(f *jen.File, class string, cs []*gen.Constant, comment bool) {
	if len(cs) == 0 {
		return
	}
	var consts, vars []jen.Code
	for _, c := range cs {
		var code []jen.Code
		if comment {
			for _, l := range append(c.Title.Lines(), c.Desc.Lines()...) {
				code = append(code, jen.Comment(l))
			}
		}
		id := jen.Id(class + gen.Pascal(c.Name.String()))
		typ := memberType(c.Type.String())
		switch {
		case c.Default.IsZero():
			vars = append(vars, append(code, id.Add(m.typ(c.Type)))...)
		case basic[typ]:
			consts = append(consts, append(code, id.Id(typ).Op("=").Add(literal(c.Default.String())))...)
		default:
			vars = append(vars, append(code, id.Add(m.typ(c.Type)).Op("=").Add(literal(c.Default.String())))...)
		}
	}
	if len(consts) > 0 {
		f.Const().Defs(consts...)
	}
	if len(vars) > 0 {
		f.Var().Defs(vars...)
	}
}

// params returns the parameters of fn, positional first, with the keyword
// defaults listed for the doc comment.
func (m *members) params(fn *gen.Method) ([]jen.Code, []string) {
	var (
		params   []jen.Code
		defaults []string
	)
	for _, p := range fn.Signature() {
		params = append(params, jen.Id(ident(p.Name.String())).Add(m.typ(p.Type)))
		if p.Keyword() {
			defaults = append(defaults, fmt.Sprintf("%s defaults to %s.", ident(p.Name.String()), p.Default))
		}
	}
	return params, defaults
}

func (m *members) doc(f *jen.File, head string, lines, extra []string, comment bool) {
	f.Comment(head)
	if !comment {
		return
	}
	if len(lines)+len(extra) > 0 {
		f.Comment("")
	}
	for _, l := range append(lines, extra...) {
		f.Comment(l)
	}
}

// constructor writes New<Class>. The flagged constructor method sets the
// fields named after its parameters; the default one takes every column,
// then every writable property.
func (m *members) constructor(f *jen.File, class string, comment bool) {
	ctor := "New" + class
	if fn := m.self.Constructor(); fn != nil {
		params, defaults := m.params(fn)
		m.doc(f, fmt.Sprintf("%s returns a new %s.", ctor, class), append(fn.Title.Lines(), fn.Desc.Lines()...), defaults, comment)
		f.Func().Id(ctor).Params(params...).Op("*").Id(class).BlockFunc(func(g *jen.Group) {
			g.Id("v").Op(":=").Op("&").Id(class).Values()
			for _, p := range fn.Signature() {
				c, ok := m.self.Column(p.Name.String())
				if !ok {
					continue
				}
				val := jen.Id(ident(p.Name.String()))
				if c.Nullable {
					val = jen.Op("&").Add(val)
				}
				g.Id("v").Dot(gen.Pascal(c.Name.String())).Op("=").Add(val)
			}
			g.Return(jen.Id("v"))
		})
		return
	}
	props := m.self.WritableProps()
	f.Comment(fmt.Sprintf("%s returns a new %s with every column and writable property set.", ctor, class))
	f.Func().Id(ctor).ParamsFunc(func(g *jen.Group) {
		for _, c := range m.self.Columns {
			typ := typeCode(m.w.types.Resolve(c.Type.String()))
			if c.Nullable {
				typ = jen.Op("*").Add(typ)
			}
			g.Id(ident(c.Name.String())).Add(typ)
		}
		for _, p := range props {
			g.Id(ident(p.Name.String())).Op("*").Add(m.typ(p.Type))
		}
	}).Op("*").Id(class).Block(
		jen.Return(jen.Op("&").Id(class).ValuesFunc(func(g *jen.Group) {
			for _, c := range m.self.Columns {
				g.Id(gen.Pascal(c.Name.String())).Op(":").Id(ident(c.Name.String()))
			}
			for _, p := range props {
				g.Id(ident(p.Name.String())).Op(":").Id(ident(p.Name.String()))
			}
		})),
	)
}

// body returns the statement returning the default value, or a panic when
// there is none.
func body(name string, def gen.Value, result *jen.Statement) jen.Code {
	if def.IsZero() {
		return jen.Panic(jen.Lit(name + " is not implemented"))
	}
	if result == nil {
		return jen.Return()
	}
	return jen.Return(literal(def.String()))
}

func (m *members) method(f *jen.File, class, recv string, fn *gen.Method, comment bool) {
	var (
		params, defaults = m.params(fn)
		result           = m.result(fn.Type)
		name             = gen.Pascal(fn.Name.String())
		lines            = append(fn.Title.Lines(), fn.Desc.Lines()...)
	)
	if fn.Kind == gen.MethodInstance {
		m.doc(f, fmt.Sprintf("%s of %s.", name, class), lines, defaults, comment)
		s := f.Func().Params(jen.Id(recv).Op("*").Id(class)).Id(name).Params(params...)
		if result != nil {
			s.Add(result)
		}
		s.Block(body(class+"."+name, fn.Default, result))
		return
	}
	name = class + name
	m.doc(f, fmt.Sprintf("%s is the %s method %s of %s.", name, fn.Kind, fn.Name, class), lines, defaults, comment)
	s := f.Func().Id(name).Params(params...)
	if result != nil {
		s.Add(result)
	}
	s.Block(body(name, fn.Default, result))
}

func (m *members) property(f *jen.File, class, recv string, p *gen.Property, comment bool) {
	var (
		name  = gen.Pascal(p.Name.String())
		field = ident(p.Name.String())
		typ   = m.typ(p.Type)
		lines = append(p.Title.Lines(), p.Desc.Lines()...)
	)
	m.doc(f, fmt.Sprintf("%s returns the %s property.", name, p.Name), lines, nil, comment)
	f.Func().Params(jen.Id(recv).Op("*").Id(class)).Id(name).Params().Add(typ.Clone()).BlockFunc(func(g *jen.Group) {
		if !p.Readonly {
			g.If(jen.Id(recv).Dot(field).Op("!=").Nil()).Block(
				jen.Return(jen.Op("*").Id(recv).Dot(field)),
			)
		}
		if p.Default.IsZero() {
			g.Panic(jen.Lit(class + "." + name + " is not implemented"))
		} else {
			g.Return(literal(p.Default.String()))
		}
	})
	if p.Readonly {
		return
	}
	f.Comment(fmt.Sprintf("Set%s sets the %s property.", name, p.Name))
	f.Func().Params(jen.Id(recv).Op("*").Id(class)).Id("Set"+name).Params(jen.Id("v").Add(typ.Clone())).Block(
		jen.Id(recv).Dot(field).Op("=").Op("&").Id("v"),
	)
}
