package gen

import (
	"fmt"
	"maps"
	"slices"
)

// Language identifiers of the writers shipped with dbmodel.
const (
	LangMSSQL            = "mssql"
	LangPostgres         = "postgres"
	LangPythonSQLAlchemy = "python-sqlalchemy"
	LangGo               = "go"
)

// DbFactory creates the writer of a database dialect for one run.
type DbFactory func(c *Config) (DbWriter, error)

// OrmFactory creates the writer of an ORM language for one run. The dialect
// is the database language of the same run; factories return a
// LanguageError when they have no type mapping for it.
type OrmFactory func(c *Config, dialect string) (OrmWriter, error)

// Languages is the set of writers a run can select from. It is an explicit
// value owned by the Config rather than a package level table.
type Languages struct {
	db  map[string]DbFactory
	orm map[string]OrmFactory
}

// NewLanguages returns an empty set.
func NewLanguages() *Languages {
	return &Languages{
		db:  make(map[string]DbFactory),
		orm: make(map[string]OrmFactory),
	}
}

// RegisterDb registers a database dialect.
func (l *Languages) RegisterDb(name string, f DbFactory) error {
	if name == "" || f == nil {
		return NewConfigError("Languages", name, "dialect name and factory are required")
	}
	if _, ok := l.db[name]; ok {
		return NewConfigError("Languages", name, "dialect already registered")
	}
	l.db[name] = f
	return nil
}

// RegisterOrm registers an ORM language.
func (l *Languages) RegisterOrm(name string, f OrmFactory) error {
	if name == "" || f == nil {
		return NewConfigError("Languages", name, "ORM language name and factory are required")
	}
	if _, ok := l.orm[name]; ok {
		return NewConfigError("Languages", name, "ORM language already registered")
	}
	l.orm[name] = f
	return nil
}

// DbNames returns the registered dialects in sorted order.
func (l *Languages) DbNames() []string {
	return slices.Sorted(maps.Keys(l.db))
}

// OrmNames returns the registered ORM languages in sorted order.
func (l *Languages) OrmNames() []string {
	return slices.Sorted(maps.Keys(l.orm))
}

// Resolve creates the writer pair for a run.
func (l *Languages) Resolve(c *Config, db, orm string) (DbWriter, OrmWriter, error) {
	if l == nil {
		return nil, nil, NewLanguageError("lang_db", db, nil)
	}
	df, ok := l.db[db]
	if !ok {
		return nil, nil, NewLanguageError("lang_db", db, l.DbNames())
	}
	of, ok := l.orm[orm]
	if !ok {
		return nil, nil, NewLanguageError("lang_orm", orm, l.OrmNames())
	}
	dw, err := df(c)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s writer: %w", db, err)
	}
	ow, err := of(c, db)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s writer: %w", orm, err)
	}
	return dw, ow, nil
}

// UnsupportedDialect returns the error an OrmFactory reports for a dialect
// it has no type mapping for.
func UnsupportedDialect(orm, dialect string, supported []string) *LanguageError {
	return &LanguageError{
		Option:    "lang_db",
		Value:     dialect,
		For:       orm,
		Supported: supported,
	}
}
