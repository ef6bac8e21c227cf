package gen

import (
	"github.com/syssam/dbmodel/compiler/load"
)

// Column is one column of a relation.
//
// The constructor applies the key policy: a primary key column is never
// nullable nor unique, and identity is only kept on primary key columns.
type Column struct {
	Name     Value
	Type     Value // dialect type name, e.g. "nvarchar(50)"
	Title    Value
	Desc     Value
	Nullable bool
	PK       bool
	Identity bool
	Unique   bool
	FK       Value // optional "Relation.Column" reference
}

// NewColumn creates a Column from its loaded definition.
func NewColumn(c *load.Column) (*Column, error) {
	var (
		col = &Column{
			PK:       c.PK,
			Identity: c.PK && c.Identity,
			Unique:   c.Unique && !c.PK,
			Nullable: !c.PK,
		}
		err error
	)
	if col.Name, err = NewName(c.Name); err != nil {
		return nil, withField(err, "", c.Name)
	}
	if col.Type, err = NewTypeName(c.Type); err != nil {
		return nil, withField(err, "", c.Name+".type_")
	}
	if col.Title, err = optional(KindTitle, c.Title); err != nil {
		return nil, withField(err, "", c.Name+".title")
	}
	if col.Desc, err = optional(KindDescription, c.Desc); err != nil {
		return nil, withField(err, "", c.Name+".desc")
	}
	if col.FK, err = optional(KindForeignKey, c.FK); err != nil {
		return nil, withField(err, "", c.Name+".fk")
	}
	if c.Nullable != nil && !c.PK {
		col.Nullable = *c.Nullable
	}
	return col, nil
}

// IsForeignKey reports whether the column references another relation.
func (c *Column) IsForeignKey() bool { return !c.FK.IsZero() }

// Ref returns the relation and column names of the foreign key reference.
func (c *Column) Ref() (relation, column string) { return c.FK.Reference() }

// Comment returns the title and description lines used for comment blocks.
func (c *Column) Comment() []string {
	return append(c.Title.Lines(), c.Desc.Lines()...)
}

// WriteDb renders the column clause with the given dialect writer.
func (c *Column) WriteDb(w DbWriter, comment bool) (string, error) {
	return w.WriteColumn(c, comment)
}

// WriteOrm renders the column declaration with the given ORM writer.
func (c *Column) WriteOrm(w OrmWriter, comment bool) (string, error) {
	return w.WriteColumn(c, comment)
}
