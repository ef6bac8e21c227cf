package gen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/dbmodel/compiler/load"
)

// statuses returns the definition of a small lookup table.
func statuses() *load.Relation {
	return &load.Relation{
		Name:  "Statuses",
		Title: "Statuses Table",
		Desc:  "Lookup of the user statuses.",
		Columns: []*load.Column{
			{Name: "status_id", Type: "tinyint", Title: "Status ID", PK: true, Identity: true},
			{Name: "status_name", Type: "nvarchar(50)", Title: "Status Name", Unique: true},
		},
	}
}

// users returns a table referencing Statuses, with members.
func users() *load.Relation {
	return &load.Relation{
		Name:          "Users",
		Title:         "Users Table",
		Desc:          "Registered users.",
		TriggerUpdate: true,
		Columns: []*load.Column{
			{Name: "user_id", Type: "bigint", Title: "User ID", PK: true, Identity: true},
			{Name: "user_name", Type: "nvarchar(100)", Title: "User Name"},
			{Name: "status_id", Type: "tinyint", Title: "Status ID", FK: "Statuses.status_id"},
			{Name: "email", Type: "nvarchar(255)", Nullable: load.Bool(true), Unique: true},
		},
		Constants: []*load.Constant{
			{Name: "MAX_NAME", Type: "int", Default: "100"},
		},
		Methods: []*load.Method{
			{
				Name: "rename", Type: "None", Title: "Rename",
				Params: []*load.Parameter{
					{Name: "force", Type: "bool", Default: "False"},
					{Name: "name", Type: "str"},
				},
			},
			{Name: "count", Type: "int", MethodType: "static", Default: "0"},
		},
		Props: []*load.Property{
			{Name: "display", Type: "str", Readonly: true},
		},
	}
}

// view returns a keyless view.
func view() *load.Relation {
	return &load.Relation{
		Name:  "vwTable_Users",
		Title: "Users View",
		Columns: []*load.Column{
			{Name: "user_id", Type: "bigint"},
			{Name: "status_name", Type: "nvarchar(50)"},
		},
	}
}

func testSchema() *load.Schema {
	return &load.Schema{
		LangDB:  "mock-db",
		LangORM: "mock-orm",
		Tables:  []*load.Relation{users(), statuses()},
		Views:   []*load.Relation{view()},
	}
}

// mustRelation builds a relation or fails the test.
func mustRelation(t *testing.T, kind RelationKind, r *load.Relation) *Relation {
	t.Helper()
	var (
		rel *Relation
		err error
	)
	if kind == RelationView {
		rel, err = NewView(nil, r)
	} else {
		rel, err = NewTable(nil, r)
	}
	require.NoError(t, err)
	return rel
}

// mustRegistry loads s into a new registry or fails the test.
func mustRegistry(t *testing.T, c *Config, s *load.Schema) *Registry {
	t.Helper()
	reg := NewRegistry(c)
	require.NoError(t, reg.LoadSchema(s))
	return reg
}

// mockDb renders one line per relation and can be told to fail on one.
type mockDb struct {
	failOn string
	calls  []string
}

func (m *mockDb) Name() string             { return "mock-db" }
func (m *mockDb) Ext() string              { return ".sql" }
func (m *mockDb) Quote(ident string) string { return `"` + ident + `"` }

func (m *mockDb) WriteColumn(c *Column, _ bool) (string, error) {
	return m.Quote(c.Name.String()) + " " + c.Type.String(), nil
}

func (m *mockDb) WriteRelation(_ Resolver, r *Relation, _ bool) (string, error) {
	m.calls = append(m.calls, r.Name.String())
	if r.Name.String() == m.failOn {
		return "", fmt.Errorf("cannot render %s", r.Name)
	}
	cols := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		cols[i], _ = m.WriteColumn(c, false)
	}
	return fmt.Sprintf("CREATE %s %s (%s);\n", strings.ToUpper(r.Kind.String()), r.Name, strings.Join(cols, ", ")), nil
}

// mockOrm renders the class name and its member names in render order.
type mockOrm struct {
	failOn string
}

func (m *mockOrm) Name() string                   { return "mock-orm" }
func (m *mockOrm) Ext() string                    { return ".txt" }
func (m *mockOrm) ClassName(r *Relation) string   { return r.ClassName() }
func (m *mockOrm) SupportFiles() map[string]string { return map[string]string{"base.txt": "base"} }

func (m *mockOrm) WriteColumn(c *Column, _ bool) (string, error) {
	return c.Name.String(), nil
}

func (m *mockOrm) WriteRelation(_ Resolver, r *Relation, _ bool) (string, error) {
	if r.Name.String() == m.failOn {
		return "", fmt.Errorf("cannot render %s", r.Name)
	}
	var parts []string
	for _, c := range r.Columns {
		parts = append(parts, "column:"+c.Name.String())
	}
	for _, c := range r.Constants {
		parts = append(parts, "constant:"+c.Name.String())
	}
	if ctor := r.Constructor(); ctor != nil {
		parts = append(parts, "constructor:"+ctor.Name.String())
	} else {
		parts = append(parts, "constructor:default")
	}
	for _, fn := range r.RegularMethods() {
		parts = append(parts, "method:"+fn.Name.String())
	}
	for _, p := range r.Props {
		parts = append(parts, "property:"+p.Name.String())
	}
	return "class " + m.ClassName(r) + " " + strings.Join(parts, " "), nil
}

// mockLanguages registers the mock writers. The returned db writer records
// the relations it rendered.
func mockLanguages(t *testing.T, db *mockDb, orm *mockOrm) *Languages {
	t.Helper()
	l := NewLanguages()
	require.NoError(t, l.RegisterDb("mock-db", func(*Config) (DbWriter, error) { return db, nil }))
	require.NoError(t, l.RegisterOrm("mock-orm", func(_ *Config, dialect string) (OrmWriter, error) {
		if dialect != "mock-db" {
			return nil, UnsupportedDialect("mock-orm", dialect, []string{"mock-db"})
		}
		return orm, nil
	}))
	return l
}
