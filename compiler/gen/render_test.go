package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbmodel/compiler/load"
)

func TestComment(t *testing.T) {
	assert.Equal(t, "  -- a\n  --\n  -- b\n", Comment("  ", "-- ", []string{"a", "", "b"}))
	assert.Equal(t, "# x\n", Comment("", "# ", []string{"x"}))
	assert.Empty(t, Comment("", "// ", nil))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "    a\n\n    b", Indent("a\n\nb", "    "))
}

func TestResolveType(t *testing.T) {
	reg := mustRegistry(t, nil, testSchema())
	typ, err := NewTypeName("Users, int, vwTable_Users")
	require.NoError(t, err)
	got := ResolveType(reg, func(r *Relation) string { return r.ClassName() }, typ)
	assert.Equal(t, []string{"DB_Users", "int", "VW_vwTable_Users"}, got)
}

func TestShadowColumns(t *testing.T) {
	t.Run("default prefix", func(t *testing.T) {
		id, at, err := ShadowColumns(mustRelation(t, RelationTable, users()))
		require.NoError(t, err)
		assert.Equal(t, "upd_id", id)
		assert.Equal(t, "upd_at", at)
	})
	t.Run("custom prefix", func(t *testing.T) {
		rel, err := NewTable(MustNewConfig(WithShadowPrefix("hist_")), users())
		require.NoError(t, err)
		id, at, err := ShadowColumns(rel)
		require.NoError(t, err)
		assert.Equal(t, "hist_id", id)
		assert.Equal(t, "hist_at", at)
		assert.Equal(t, "hist_Users", rel.ShadowName())
	})
	t.Run("collision", func(t *testing.T) {
		def := users()
		def.Columns = append(def.Columns, &load.Column{Name: "upd_at", Type: "datetime"})
		_, _, err := ShadowColumns(mustRelation(t, RelationTable, def))
		assert.ErrorContains(t, err, `column "upd_at" of Users collides`)
	})
}

func TestKeyName(t *testing.T) {
	rel := mustRelation(t, RelationTable, users())
	assert.Equal(t, "PK_Users", KeyName("PK", rel))
	c, _ := rel.Column("status_id")
	assert.Equal(t, "FK_Users_status_id", KeyName("FK", rel, c))
}
