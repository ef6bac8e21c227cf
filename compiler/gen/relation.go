package gen

import (
	"fmt"

	"github.com/syssam/dbmodel/compiler/load"
)

// RelationKind tags a Relation as a table or a view.
type RelationKind uint8

// Relation kinds.
const (
	RelationTable RelationKind = iota + 1
	RelationView
)

// String returns "table" or "view".
func (k RelationKind) String() string {
	if k == RelationView {
		return "view"
	}
	return "table"
}

// Resolver looks up relations by name. The Registry implements it; writers
// and referential validation use it instead of holding pointers between
// relations.
type Resolver interface {
	Table(name string) (*Relation, bool)
	View(name string) (*Relation, bool)
}

// Relation is a table or a view of the schema, with its ordered columns and
// the members of its ORM object.
type Relation struct {
	*Config
	Kind          RelationKind
	Name          Value
	Title         Value
	Desc          Value
	TriggerUpdate bool
	Columns       []*Column
	Constants     []*Constant
	Methods       []*Method
	Props         []*Property
}

// NewTable creates a table relation from its loaded definition.
func NewTable(c *Config, r *load.Relation) (*Relation, error) {
	return newRelation(c, RelationTable, r)
}

// NewView creates a view relation from its loaded definition.
func NewView(c *Config, r *load.Relation) (*Relation, error) {
	return newRelation(c, RelationView, r)
}

func newRelation(c *Config, kind RelationKind, r *load.Relation) (*Relation, error) {
	if c == nil {
		c = DefaultConfig()
	}
	var (
		rel = &Relation{
			Config:        c,
			Kind:          kind,
			TriggerUpdate: r.TriggerUpdate,
		}
		err error
	)
	if rel.Name, err = NewName(r.Name); err != nil {
		return nil, withField(err, r.Name, "name")
	}
	name := rel.Name.String()
	if rel.Title, err = optional(KindTitle, r.Title); err != nil {
		return nil, withField(err, name, "title")
	}
	if rel.Desc, err = optional(KindDescription, r.Desc); err != nil {
		return nil, withField(err, name, "desc")
	}
	for _, lc := range r.Columns {
		col, err := NewColumn(lc)
		if err != nil {
			return nil, withField(err, name, "")
		}
		rel.Columns = append(rel.Columns, col)
	}
	for _, lc := range r.Constants {
		m, err := NewConstant(lc)
		if err != nil {
			return nil, withField(err, name, "")
		}
		rel.Constants = append(rel.Constants, m)
	}
	for _, lm := range r.Methods {
		m, err := NewMethod(lm)
		if err != nil {
			return nil, withField(err, name, "")
		}
		rel.Methods = append(rel.Methods, m)
	}
	for _, lp := range r.Props {
		m, err := NewProperty(lp)
		if err != nil {
			return nil, withField(err, name, "")
		}
		rel.Props = append(rel.Props, m)
	}
	return rel, nil
}

// IsView reports whether the relation is a view.
func (r *Relation) IsView() bool { return r.Kind == RelationView }

// Column returns the column with the given name.
func (r *Relation) Column(name string) (*Column, bool) {
	for _, c := range r.Columns {
		if c.Name.String() == name {
			return c, true
		}
	}
	return nil, false
}

// PrimaryKey returns the primary key columns in declaration order.
func (r *Relation) PrimaryKey() []*Column {
	var pk []*Column
	for _, c := range r.Columns {
		if c.PK {
			pk = append(pk, c)
		}
	}
	return pk
}

// ForeignKeys returns the columns that reference another relation.
func (r *Relation) ForeignKeys() []*Column {
	var fks []*Column
	for _, c := range r.Columns {
		if c.IsForeignKey() {
			fks = append(fks, c)
		}
	}
	return fks
}

// UniqueColumns returns the columns flagged unique.
func (r *Relation) UniqueColumns() []*Column {
	var uc []*Column
	for _, c := range r.Columns {
		if c.Unique {
			uc = append(uc, c)
		}
	}
	return uc
}

// Constructor returns the method flagged as constructor, or nil when the
// default constructor should be generated.
func (r *Relation) Constructor() *Method {
	for _, m := range r.Methods {
		if m.Constructor {
			return m
		}
	}
	return nil
}

// RegularMethods returns the methods that are not the constructor.
func (r *Relation) RegularMethods() []*Method {
	methods := make([]*Method, 0, len(r.Methods))
	for _, m := range r.Methods {
		if !m.Constructor {
			methods = append(methods, m)
		}
	}
	return methods
}

// WritableProps returns the properties that have a setter.
func (r *Relation) WritableProps() []*Property {
	var props []*Property
	for _, p := range r.Props {
		if !p.Readonly {
			props = append(props, p)
		}
	}
	return props
}

// ShadowName returns the name of the change tracking table.
func (r *Relation) ShadowName() string {
	return r.shadowPrefix() + r.Name.String()
}

// TriggerName returns the name of the update trigger of the table.
func (r *Relation) TriggerName() string {
	return "trg_" + r.Name.String() + "_update"
}

// ClassName returns the ORM class name of the relation.
func (r *Relation) ClassName() string {
	return r.className(r.Kind, r.Name.String())
}

// Comment returns the title and description lines used for comment blocks.
// The relation name stands in for a missing title.
func (r *Relation) Comment() []string {
	lines := r.Title.Lines()
	if len(lines) == 0 {
		lines = []string{fmt.Sprintf("%s %s", r.Name, r.Kind)}
	}
	return append(lines, r.Desc.Lines()...)
}

// CheckStructure runs the checks that need no other relation: column and
// member names are unique, tables have a primary key, identity is only set on
// a single primary key column, at most one constructor exists, and views carry
// no keys nor update trigger.
func (r *Relation) CheckStructure() error {
	name := r.Name.String()
	if len(r.Columns) == 0 {
		return NewConstraintError(name, "", "relation must have at least one column")
	}
	seen := make(map[string]struct{}, len(r.Columns))
	identity := 0
	for _, c := range r.Columns {
		cn := c.Name.String()
		if _, ok := seen[cn]; ok {
			return NewDuplicateNameError("column", name, cn)
		}
		seen[cn] = struct{}{}
		if c.Identity {
			if !c.PK {
				return NewConstraintError(name, cn, "identity is only allowed on primary key columns")
			}
			identity++
		}
		if c.PK && c.Nullable {
			return NewConstraintError(name, cn, "primary key column cannot be nullable")
		}
		if c.PK && c.Unique {
			return NewConstraintError(name, cn, "primary key column cannot be flagged unique")
		}
	}
	if identity > 1 {
		return NewConstraintError(name, "", "at most one identity column is allowed")
	}
	if err := r.checkMembers(); err != nil {
		return err
	}
	switch r.Kind {
	case RelationTable:
		if len(r.PrimaryKey()) == 0 {
			return NewConstraintError(name, "", "table must have at least one primary key column")
		}
	case RelationView:
		if r.TriggerUpdate {
			return NewConstraintError(name, "trigger_update", "views cannot have an update trigger")
		}
		if r.allowViewKeys() {
			break
		}
		for _, c := range r.Columns {
			if c.PK {
				return NewConstraintError(name, c.Name.String(), "views cannot declare primary key columns")
			}
			if c.IsForeignKey() {
				return NewConstraintError(name, c.Name.String(), "views cannot declare foreign key columns")
			}
		}
	}
	return nil
}

func (r *Relation) checkMembers() error {
	name := r.Name.String()
	unique := func(kind MemberKind, members []Member) error {
		seen := make(map[string]struct{}, len(members))
		for _, m := range members {
			if _, ok := seen[m.MemberName()]; ok {
				return NewDuplicateNameError(kind.String(), name, m.MemberName())
			}
			seen[m.MemberName()] = struct{}{}
		}
		return nil
	}
	if err := unique(MemberConstant, members(r.Constants)); err != nil {
		return err
	}
	if err := unique(MemberMethod, members(r.Methods)); err != nil {
		return err
	}
	if err := unique(MemberProperty, members(r.Props)); err != nil {
		return err
	}
	var ctor *Method
	for _, m := range r.Methods {
		if err := unique(MemberParameter, members(m.Params)); err != nil {
			dup := err.(*DuplicateNameError)
			dup.Name = m.Name.String() + "." + dup.Name
			return dup
		}
		if !m.Constructor {
			continue
		}
		if ctor != nil {
			return NewConstraintError(name, m.Name.String(),
				fmt.Sprintf("at most one constructor is allowed (already flagged on %s)", ctor.Name))
		}
		ctor = m
	}
	return nil
}

func members[M Member](ms []M) []Member {
	out := make([]Member, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}

// CheckReferences resolves every foreign key of the relation: the referenced
// relation must be a table, and the referenced column must exist and be part
// of its primary key. The change tracking table of a table with an update
// trigger must not share its name with another relation.
func (r *Relation) CheckReferences(res Resolver) error {
	name := r.Name.String()
	if r.TriggerUpdate {
		shadow := r.ShadowName()
		_, isTable := res.Table(shadow)
		_, isView := res.View(shadow)
		if isTable || isView {
			return NewDuplicateNameError(RelationTable.String(), name, shadow)
		}
	}
	for _, c := range r.ForeignKeys() {
		ref, col := c.Ref()
		t, ok := res.Table(ref)
		if !ok {
			msg := fmt.Sprintf("table %q does not exist", ref)
			if _, isView := res.View(ref); isView {
				msg = fmt.Sprintf("%q is a view, foreign keys must reference a table", ref)
			}
			return NewForeignKeyError(name, c.Name.String(), c.FK.String(), msg)
		}
		target, ok := t.Column(col)
		if !ok {
			return NewForeignKeyError(name, c.Name.String(), c.FK.String(),
				fmt.Sprintf("column %q does not exist in table %s", col, ref))
		}
		if !target.PK {
			return NewForeignKeyError(name, c.Name.String(), c.FK.String(),
				fmt.Sprintf("column %s.%s is not a primary key column", ref, col))
		}
	}
	return nil
}

// Validate runs the structural and then the referential checks on this
// relation alone. The Registry runs the two passes over the whole batch.
func (r *Relation) Validate(res Resolver) error {
	if err := r.CheckStructure(); err != nil {
		return err
	}
	return r.CheckReferences(res)
}

// WriteDb renders the DDL of the relation with the given dialect writer.
func (r *Relation) WriteDb(w DbWriter, res Resolver, comment bool) (string, error) {
	return w.WriteRelation(res, r, comment)
}

// WriteOrm renders the ORM source of the relation with the given writer.
func (r *Relation) WriteOrm(w OrmWriter, res Resolver, comment bool) (string, error) {
	return w.WriteRelation(res, r, comment)
}
