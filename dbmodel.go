// Package dbmodel generates database DDL and ORM source code from a single
// model file describing the tables and views of a database.
//
// A model file (JSON, YAML or XML) names the database dialect and the ORM
// language of the run, then lists the relations with their columns and the
// members of their ORM classes:
//
//	m, err := dbmodel.Load("model.json")
//	if err != nil {
//		return err
//	}
//	arts, err := m.Generate()
//
// Generate returns one artifact per relation, holding its DDL and its ORM
// source, or an error and no artifacts.
package dbmodel

import (
	"github.com/syssam/dbmodel/compiler/gen"
	"github.com/syssam/dbmodel/compiler/gen/golang"
	"github.com/syssam/dbmodel/compiler/gen/mssql"
	"github.com/syssam/dbmodel/compiler/gen/postgres"
	"github.com/syssam/dbmodel/compiler/gen/sqlalchemy"
	"github.com/syssam/dbmodel/compiler/load"
)

// DefaultLanguages returns the writers shipped with dbmodel: the mssql and
// postgres dialects, and the python-sqlalchemy and go ORM languages.
func DefaultLanguages() *gen.Languages {
	l := gen.NewLanguages()
	for name, f := range map[string]gen.DbFactory{
		gen.LangMSSQL:    mssql.Factory,
		gen.LangPostgres: postgres.Factory,
	} {
		if err := l.RegisterDb(name, f); err != nil {
			panic(err)
		}
	}
	for name, f := range map[string]gen.OrmFactory{
		gen.LangPythonSQLAlchemy: sqlalchemy.Factory,
		gen.LangGo:               golang.Factory,
	} {
		if err := l.RegisterOrm(name, f); err != nil {
			panic(err)
		}
	}
	return l
}

// NewConfig returns the configuration of a run using the default languages,
// modified by opts.
func NewConfig(opts ...gen.Option) (*gen.Config, error) {
	return gen.NewConfig(append([]gen.Option{gen.WithLanguages(DefaultLanguages())}, opts...)...)
}

// Model is a loaded model file.
type Model struct {
	// Path of the model file, empty for models built in memory.
	Path string
	// Schema is the decoded file.
	Schema *load.Schema
	// Registry holds the relations of the schema.
	Registry *gen.Registry
}

// Load reads the model file at path and loads its relations into a new
// registry configured by opts.
func Load(path string, opts ...gen.Option) (*Model, error) {
	s, err := load.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := New(s, opts...)
	if err != nil {
		return nil, err
	}
	m.Path = path
	return m, nil
}

// New loads a decoded schema into a new registry configured by opts.
func New(s *load.Schema, opts ...gen.Option) (*Model, error) {
	c, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	reg := gen.NewRegistry(c)
	if err := reg.LoadSchema(s); err != nil {
		return nil, err
	}
	return &Model{Schema: s, Registry: reg}, nil
}

// Validate validates the relations of the model.
func (m *Model) Validate() error {
	return m.Registry.Validate()
}

// Generate renders the model with the languages the file declares.
func (m *Model) Generate() ([]*gen.Artifact, error) {
	return m.GenerateWith(m.Schema.LangDB, m.Schema.LangORM)
}

// GenerateWith renders the model with the given database dialect and ORM
// language. An empty name selects the language the file declares.
func (m *Model) GenerateWith(db, orm string) ([]*gen.Artifact, error) {
	db, orm = m.Languages(db, orm)
	return m.Registry.Generate(db, orm)
}

// SupportFiles returns the shared files the ORM language needs next to the
// generated classes.
func (m *Model) SupportFiles(db, orm string) (map[string]string, error) {
	db, orm = m.Languages(db, orm)
	return m.Registry.SupportFiles(db, orm)
}

// Languages returns the database dialect and the ORM language of a run,
// falling back to the languages the file declares for empty names.
func (m *Model) Languages(db, orm string) (string, string) {
	if db == "" {
		db = m.Schema.LangDB
	}
	if orm == "" {
		orm = m.Schema.LangORM
	}
	return db, orm
}
