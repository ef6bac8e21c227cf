package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbmodel"
	"github.com/syssam/dbmodel/compiler/load"
	"github.com/syssam/dbmodel/internal/output"
)

var smallModel = filepath.Join("..", "..", "compiler", "load", "testdata", "small.json")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLanguagesCmd(t *testing.T) {
	out, err := execute(t, "languages")
	require.NoError(t, err)
	assert.Equal(t, "lang_db:  mssql, postgres\nlang_orm: go, python-sqlalchemy\n", out)
}

func TestValidateCmd(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		out, err := execute(t, "validate", "--model", smallModel)
		require.NoError(t, err)
		assert.Contains(t, out, "2 tables, 1 views, ok\n")
	})
	t.Run("no model", func(t *testing.T) {
		_, err := execute(t, "validate")
		assert.Equal(t, dbmodel.KindConfig, dbmodel.KindOf(err))
	})
	t.Run("errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
tables:
  - name: Users
    columns:
      - {name: user_id, type_: bigint, pk: true}
      - {name: group_id, type_: int, fk: Groups.group_id}
`), 0o644))
		out, err := execute(t, "validate", "-m", path)
		require.Error(t, err)
		assert.Equal(t, dbmodel.KindForeignKey, dbmodel.KindOf(err))
		assert.Contains(t, out, "Groups")
		assert.NotContains(t, out, "ok\n")
	})
}

func TestDescribeCmd(t *testing.T) {
	out, err := execute(t, "describe", "-m", smallModel)
	require.NoError(t, err)
	assert.Contains(t, out, "Statuses")
	assert.Contains(t, out, "vwTable_Users")

	out, err = execute(t, "describe", "-m", smallModel, "--verbosity", "all", "Users")
	require.NoError(t, err)
	assert.Contains(t, out, "Users")
	assert.Contains(t, out, "status_id")
	assert.NotContains(t, out, "vwTable_Users")

	_, err = execute(t, "describe", "-m", smallModel, "Missing")
	assert.Equal(t, dbmodel.KindConfig, dbmodel.KindOf(err))

	_, err = execute(t, "describe", "-m", smallModel, "-v", "loud")
	assert.Equal(t, dbmodel.KindConfig, dbmodel.KindOf(err))

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "describe", "-m", smallModel, "--format", "json", "vwTable_Users")
		require.NoError(t, err)
		s, err := load.Read(strings.NewReader(out), load.FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, "mssql", s.LangDB)
		assert.Empty(t, s.Tables)
		require.Len(t, s.Views, 1)
		assert.Equal(t, "vwTable_Users", s.Views[0].Name)

		out, err = execute(t, "describe", "-m", smallModel, "-f", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"name": "Statuses"`)

		_, err = execute(t, "describe", "-m", smallModel, "-f", "json", "Missing")
		assert.Equal(t, dbmodel.KindConfig, dbmodel.KindOf(err))
		_, err = execute(t, "describe", "-m", smallModel, "-f", "yaml")
		assert.Equal(t, dbmodel.KindConfig, dbmodel.KindOf(err))
	})
}

func TestGenerateCmd(t *testing.T) {
	dir := t.TempDir()
	dbDir, ormDir := filepath.Join(dir, "sql"), filepath.Join(dir, "orm")
	_, err := execute(t, "generate", "-m", smallModel, "--db-dir", dbDir, "--orm-dir", ormDir, "--combined", "-w", "2")
	require.NoError(t, err)

	for _, name := range []string{"Statuses.sql", "Users.sql", "vwTable_Users.sql", "schema.sql"} {
		assert.FileExists(t, filepath.Join(dbDir, name))
	}
	assert.FileExists(t, filepath.Join(ormDir, "base.py"))
	py, err := filepath.Glob(filepath.Join(ormDir, "*.py"))
	require.NoError(t, err)
	assert.Len(t, py, 4)

	t.Run("go", func(t *testing.T) {
		ormDir := filepath.Join(dir, "go")
		_, err := execute(t, "generate", "-m", smallModel, "--db-dir", dbDir, "--orm", "go", "--orm-dir", ormDir, "--no-comments")
		require.NoError(t, err)
		src, err := filepath.Glob(filepath.Join(ormDir, "*.go"))
		require.NoError(t, err)
		assert.Len(t, src, 3)
	})
	t.Run("unsupported", func(t *testing.T) {
		_, err := execute(t, "generate", "-m", smallModel, "--db", "oracle", "--db-dir", dbDir, "--orm-dir", ormDir)
		assert.Equal(t, dbmodel.KindLanguage, dbmodel.KindOf(err))
	})
}

func TestGenerator_SkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	cfg := defaultConfig()
	cfg.Model = smallModel
	cfg.Output.DBDir = filepath.Join(dir, "sql")
	cfg.Output.ORMDir = filepath.Join(dir, "orm")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := &generator{
		cli:    &cli{cfg: cfg, logger: logger},
		writer: output.NewWriter().WithLogger(logger),
	}

	wrote, err := g.run(context.Background())
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.NotZero(t, g.last)

	wrote, err = g.run(context.Background())
	require.NoError(t, err)
	assert.False(t, wrote)

	t.Run("language change", func(t *testing.T) {
		cfg.LangORM = "go"
		wrote, err := g.run(context.Background())
		require.NoError(t, err)
		assert.True(t, wrote)
		assert.FileExists(t, filepath.Join(cfg.Output.ORMDir, "DBStatuses.go"))
	})
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(dir, "dbmodel.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
model: model.json
lang_orm: go
header: ""
comments: false
package: entities
workers: 3
output:
  db_dir: build/sql
  combined: true
`), 0o644))
		c, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "model.json", c.Model)
		assert.Equal(t, "go", c.LangORM)
		require.NotNil(t, c.Header)
		assert.Empty(t, *c.Header)
		require.NotNil(t, c.Comments)
		assert.False(t, *c.Comments)
		assert.Equal(t, 3, c.Workers)
		assert.Equal(t, output.Layout{DBDir: "build/sql", ORMDir: "output/orm", Combined: true}, c.layout())
		assert.Len(t, c.options(), 5)
	})
	t.Run("default", func(t *testing.T) {
		c, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, defaultConfig(), c)
		assert.Len(t, c.options(), 2)
	})
	t.Run("missing", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("model: [\n"), 0o644))
		_, err := loadConfig(path)
		assert.Equal(t, dbmodel.KindConfig, dbmodel.KindOf(err))
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, "debug", "json")
	require.NoError(t, err)
	l.Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	_, err = newLogger(&buf, "loud", "text")
	assert.Equal(t, dbmodel.KindConfig, dbmodel.KindOf(err))
	_, err = newLogger(&buf, "info", "xml")
	assert.Equal(t, dbmodel.KindConfig, dbmodel.KindOf(err))
}

func TestChanged(t *testing.T) {
	model, err := filepath.Abs("model.json")
	require.NoError(t, err)
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: "model.json", Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: model, Op: fsnotify.Create}, true},
		{"chmod", fsnotify.Event{Name: model, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: "other.json", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, changed(tt.ev, model))
		})
	}
}
