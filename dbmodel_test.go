package dbmodel

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbmodel/compiler/gen"
)

func TestDefaultLanguages(t *testing.T) {
	l := DefaultLanguages()
	assert.Equal(t, []string{gen.LangMSSQL, gen.LangPostgres}, l.DbNames())
	assert.ElementsMatch(t, []string{gen.LangGo, gen.LangPythonSQLAlchemy}, l.OrmNames())
}

func TestLoad(t *testing.T) {
	for _, name := range []string{"small.json", "small.yaml", "small.xml"} {
		t.Run(name, func(t *testing.T) {
			m, err := Load(filepath.Join("compiler", "load", "testdata", name))
			require.NoError(t, err)
			require.NoError(t, m.Validate())
			assert.Equal(t, gen.LangMSSQL, m.Schema.LangDB)
			assert.Equal(t, gen.LangPythonSQLAlchemy, m.Schema.LangORM)

			var names []string
			for _, r := range m.Registry.Relations() {
				names = append(names, r.Name.String())
			}
			assert.Equal(t, []string{"Statuses", "Users", "vwTable_Users"}, names)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"tables": [`), 0o644))
		_, err := Load(path)
		assert.Equal(t, KindParse, KindOf(err))
	})
	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "model.toml")
		require.NoError(t, os.WriteFile(path, []byte(`lang_db = "mssql"`), 0o644))
		_, err := Load(path)
		assert.Equal(t, KindParse, KindOf(err))
		assert.Equal(t, 2, KindOf(err).ExitCode())
	})
	t.Run("invalid name", func(t *testing.T) {
		path := filepath.Join(dir, "name.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"tables": [{"name": "1bad", "columns": [{"name": "id", "type_": "int", "pk": true}]}]}`), 0o644))
		_, err := Load(path)
		assert.Equal(t, KindValue, KindOf(err))
	})
	t.Run("bad option", func(t *testing.T) {
		_, err := Load(filepath.Join("compiler", "load", "testdata", "small.json"), gen.WithPackage("Bad-Pkg"))
		assert.Equal(t, KindConfig, KindOf(err))
	})
}

func TestModel_Generate(t *testing.T) {
	m, err := Load(filepath.Join("compiler", "load", "testdata", "model.json"))
	require.NoError(t, err)

	arts, err := m.Generate()
	require.NoError(t, err)
	require.Len(t, arts, len(m.Registry.Relations()))
	for _, a := range arts {
		assert.Equal(t, ".sql", a.DBExt)
		assert.Equal(t, ".py", a.ORMExt)
		assert.NotEmpty(t, a.DB)
		assert.True(t, strings.Contains(a.ORM, "class "+a.Class), a.Class)
	}

	db, orm := m.Languages("", gen.LangGo)
	assert.Equal(t, gen.LangMSSQL, db)
	assert.Equal(t, gen.LangGo, orm)

	files, err := m.SupportFiles("", "")
	require.NoError(t, err)
	assert.Contains(t, files, "base.py")

	t.Run("override languages", func(t *testing.T) {
		arts, err := m.GenerateWith("", gen.LangGo)
		require.NoError(t, err)
		require.NotEmpty(t, arts)
		assert.Equal(t, ".go", arts[0].ORMExt)
		assert.Contains(t, arts[0].ORM, "package models")

		files, err := m.SupportFiles("", gen.LangGo)
		require.NoError(t, err)
		assert.Empty(t, files)
	})
	t.Run("unsupported language", func(t *testing.T) {
		arts, err := m.GenerateWith("oracle", "")
		assert.Nil(t, arts)
		assert.Equal(t, KindLanguage, KindOf(err))
		assert.Equal(t, 8, KindOf(err).ExitCode())
	})
}

func TestModel_ValidateFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
lang_db: mssql
lang_orm: go
tables:
  - name: Users
    columns:
      - {name: user_id, type_: bigint, pk: true}
      - {name: group_id, type_: int, fk: Groups.group_id}
`), 0o644))
	m, err := Load(path)
	require.NoError(t, err)

	err = m.Validate()
	assert.Equal(t, KindForeignKey, KindOf(err))
	arts, genErr := m.Generate()
	assert.Nil(t, arts)
	assert.Equal(t, err, genErr)
}

func TestModel_GenerateCollision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
lang_db: mssql
lang_orm: go
tables:
  - name: Users
    columns:
      - {name: user_id, type_: bigint, pk: true}
      - {name: User_ID, type_: bigint}
`), 0o644))
	m, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	arts, err := m.Generate()
	assert.Nil(t, arts)
	assert.True(t, gen.IsRenderError(err))
	assert.Equal(t, KindRender, KindOf(err))
	assert.Contains(t, err.Error(), "collides")

	t.Run("python", func(t *testing.T) {
		arts, err := m.GenerateWith("", gen.LangPythonSQLAlchemy)
		require.NoError(t, err)
		assert.Len(t, arts, 1)
	})
}
