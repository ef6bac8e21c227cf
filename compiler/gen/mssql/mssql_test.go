package mssql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbmodel/compiler/gen"
	"github.com/syssam/dbmodel/compiler/load"
)

func registry(t *testing.T, opts ...gen.Option) *gen.Registry {
	t.Helper()
	c, err := gen.NewConfig(opts...)
	require.NoError(t, err)
	reg := gen.NewRegistry(c)
	require.NoError(t, reg.LoadSchema(&load.Schema{
		Tables: []*load.Relation{
			{
				Name:  "Statuses",
				Title: "Statuses",
				Columns: []*load.Column{
					{Name: "status_id", Type: "tinyint", Title: "Status ID", PK: true, Identity: true},
					{Name: "status_name", Type: "nvarchar(50)", Unique: true},
				},
			},
			{
				Name:          "Users",
				Title:         "Users",
				Desc:          "Registered users.",
				TriggerUpdate: true,
				Columns: []*load.Column{
					{Name: "user_id", Type: "bigint", PK: true, Identity: true},
					{Name: "status_id", Type: "tinyint", FK: "Statuses.status_id", Nullable: load.Bool(false)},
				},
			},
		},
		Views: []*load.Relation{
			{
				Name: "vwUsers",
				Columns: []*load.Column{
					{Name: "user_id", Type: "bigint", Title: "User"},
					{Name: "status_name", Type: "nvarchar(50)"},
				},
			},
		},
	}))
	require.NoError(t, reg.Validate())
	return reg
}

func relation(t *testing.T, reg *gen.Registry, name string) *gen.Relation {
	t.Helper()
	if r, ok := reg.Table(name); ok {
		return r
	}
	r, ok := reg.View(name)
	require.True(t, ok, name)
	return r
}

func TestWriter(t *testing.T) {
	w := New(gen.DefaultConfig())
	assert.Equal(t, gen.LangMSSQL, w.Name())
	assert.Equal(t, ".sql", w.Ext())
	assert.Equal(t, "[name]", w.Quote("name"))
	assert.Equal(t, "[weird]]id]", w.Quote("weird]id"))
	assert.Equal(t, "N'it''s'", literal("it's"))
}

func TestWriter_WriteColumn(t *testing.T) {
	reg := registry(t)
	w := New(reg.Config)
	tests := []struct {
		rel, col string
		comment  bool
		want     string
	}{
		{"Statuses", "status_id", false, "[status_id] tinyint NOT NULL IDENTITY(1,1)"},
		{"Statuses", "status_name", false, "[status_name] nvarchar(50) NULL"},
		{"Statuses", "status_id", true, "-- Status ID\n[status_id] tinyint NOT NULL IDENTITY(1,1)"},
		{"Users", "status_id", false, "[status_id] tinyint NOT NULL"},
	}
	for _, tt := range tests {
		t.Run(tt.rel+"."+tt.col, func(t *testing.T) {
			c, ok := relation(t, reg, tt.rel).Column(tt.col)
			require.True(t, ok)
			got, err := c.WriteDb(w, tt.comment)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriter_Table(t *testing.T) {
	reg := registry(t, gen.WithHeader(""))
	got, err := New(reg.Config).WriteRelation(reg, relation(t, reg, "Statuses"), false)
	require.NoError(t, err)
	want := `IF OBJECT_ID(N'[Statuses]', N'U') IS NULL
BEGIN
  CREATE TABLE [Statuses] (
    [status_id] tinyint NOT NULL IDENTITY(1,1),
    [status_name] nvarchar(50) NULL,
    CONSTRAINT [PK_Statuses] PRIMARY KEY ([status_id]),
    CONSTRAINT [UQ_Statuses_status_name] UNIQUE ([status_name])
  );
END;
GO
`
	assert.Equal(t, want, got)
}

func TestWriter_Comments(t *testing.T) {
	reg := registry(t)
	got, err := New(reg.Config).WriteRelation(reg, relation(t, reg, "Statuses"), true)
	require.NoError(t, err)
	assert.Contains(t, got, "-- "+gen.DefaultHeader+"\n\n")
	assert.Contains(t, got, "-- ====")
	assert.Contains(t, got, "-- Statuses\n")
	assert.Contains(t, got, "    -- Status ID\n    [status_id] tinyint NOT NULL IDENTITY(1,1),\n")
}

func TestWriter_Trigger(t *testing.T) {
	reg := registry(t, gen.WithHeader(""))
	got, err := New(reg.Config).WriteRelation(reg, relation(t, reg, "Users"), false)
	require.NoError(t, err)

	for _, want := range []string{
		"CONSTRAINT [FK_Users_status_id] FOREIGN KEY ([status_id]) REFERENCES [Statuses] ([status_id])",
		"IF OBJECT_ID(N'[upd_Users]', N'U') IS NULL",
		"    [upd_id] bigint NOT NULL IDENTITY(1,1),\n",
		"    [upd_at] datetime2 NOT NULL DEFAULT SYSUTCDATETIME(),\n",
		"    [user_id] bigint NOT NULL,\n",
		"    CONSTRAINT [PK_upd_Users] PRIMARY KEY ([upd_id])\n",
		"CREATE OR ALTER TRIGGER [trg_Users_update]\nON [Users]\nAFTER UPDATE\n",
		"  INSERT INTO [upd_Users] ([user_id], [status_id])\n  SELECT [user_id], [status_id]\n  FROM deleted;\n",
	} {
		assert.Contains(t, got, want)
	}
}

func TestWriter_ShadowCollision(t *testing.T) {
	reg := gen.NewRegistry(nil)
	require.NoError(t, reg.LoadSchema(&load.Schema{Tables: []*load.Relation{{
		Name:          "Logs",
		TriggerUpdate: true,
		Columns: []*load.Column{
			{Name: "upd_id", Type: "int", PK: true},
		},
	}}}))
	rel, _ := reg.Table("Logs")
	_, err := New(reg.Config).WriteRelation(reg, rel, false)
	assert.ErrorContains(t, err, "collides")
}

func TestWriter_View(t *testing.T) {
	reg := registry(t, gen.WithHeader(""))
	w := New(reg.Config)
	rel := relation(t, reg, "vwUsers")

	got, err := w.WriteRelation(reg, rel, false)
	require.NoError(t, err)
	want := `CREATE OR ALTER VIEW [vwUsers]
AS
SELECT
    CAST(NULL AS bigint) AS [user_id],
    CAST(NULL AS nvarchar(50)) AS [status_name]
WHERE 1 = 0;
GO
`
	assert.Equal(t, want, got)

	got, err = w.WriteRelation(reg, rel, true)
	require.NoError(t, err)
	assert.Contains(t, got, "-- vwUsers view\n")
	assert.Contains(t, got, "    -- User\n    CAST(NULL AS bigint) AS [user_id],\n")
}
