package gen

// =============================================================================
// Writer strategies: one per database dialect and one per ORM language
// =============================================================================

// ColumnWriter renders a single column.
type ColumnWriter interface {
	// WriteColumn renders the column clause or declaration, optionally
	// preceded by a comment block.
	WriteColumn(c *Column, comment bool) (string, error)
}

// RelationWriter renders a complete relation unit.
type RelationWriter interface {
	// WriteRelation renders the relation. The resolver is used to look up
	// other relations by name, never to mutate them.
	WriteRelation(res Resolver, r *Relation, comment bool) (string, error)
}

// Writer is the part shared by both strategy kinds.
type Writer interface {
	// Name returns the registered language identifier, e.g. "mssql".
	Name() string
	// Ext returns the file extension of the rendered units, e.g. ".sql".
	Ext() string
	ColumnWriter
	RelationWriter
}

// DbWriter renders the DDL of a database dialect.
type DbWriter interface {
	Writer
	// Quote quotes an identifier for the dialect.
	Quote(ident string) string
}

// OrmWriter renders the ORM source of a host language.
type OrmWriter interface {
	Writer
	// ClassName returns the name of the ORM object of the relation.
	ClassName(r *Relation) string
}

// TypeMapper is implemented by ORM writers that map dialect types through
// a TypeMap, and allows extending the mapping.
type TypeMapper interface {
	// TypeMap returns the mapping used for the database dialect.
	TypeMap() *TypeMap
}

// SupportWriter is implemented by ORM writers whose units import shared
// files, such as the declarative base of SQLAlchemy models.
type SupportWriter interface {
	// SupportFiles returns the shared files keyed by file name.
	SupportFiles() map[string]string
}
