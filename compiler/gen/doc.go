// Package gen holds the schema model of dbmodel and drives its two
// code generation backends.
//
// A run turns a loaded model file into DDL for a database dialect and ORM
// source for a host language:
//
//	load.Schema (JSON, YAML or XML)
//	        ↓
//	NewTable / NewView (values validated on construction)
//	        ↓
//	Registry.Load (name indices, duplicate detection)
//	        ↓
//	Registry.Validate (structural pass, then referential pass)
//	        ↓
//	Registry.Generate (DbWriter + OrmWriter per relation)
//	        ↓
//	[]*Artifact
//
// # Key Types
//
//   - Value: an immutable, validated scalar tagged with its ValueKind
//   - Column: a relation column with its key flags
//   - Constant, Property, Method, Parameter: the members of the ORM object
//   - Relation: a table or a view, tagged with its RelationKind
//   - Registry: all relations of one run and the phase bookkeeping
//   - Config: the run context (prefixes, comments, languages, logger)
//
// # Writer Strategies
//
// The writers follow the Interface Segregation Principle:
//
//	Writer
//	├── Name() string
//	├── Ext() string
//	├── ColumnWriter    WriteColumn(c, comment)
//	└── RelationWriter  WriteRelation(res, r, comment)
//
//	DbWriter  = Writer + Quote(ident)
//	OrmWriter = Writer + ClassName(r)
//
// Writers are registered by name in a Languages set carried by the Config.
// The subpackages mssql and postgres provide database dialects, and
// sqlalchemy and golang provide ORM languages.
package gen
