package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestRegistry_Snapshot(t *testing.T) {
	reg := mustRegistry(t, nil, testSchema())
	b, err := reg.Snapshot()
	require.NoError(t, err)

	var s snapshot
	require.NoError(t, msgpack.Unmarshal(b, &s))
	require.Len(t, s.Tables, 2)
	require.Len(t, s.Views, 1)

	u := s.Tables[0]
	assert.Equal(t, "Users", u.Name)
	assert.True(t, u.TriggerUpdate)
	require.Len(t, u.Columns, 4)
	assert.Equal(t, "Statuses.status_id", u.Columns[2].FK)
	require.Len(t, u.Methods, 2)
	assert.Equal(t, "static", u.Methods[1].Kind)
	assert.Equal(t, "rename", u.Methods[0].Name)
	require.Len(t, u.Methods[0].Params, 2)
	assert.True(t, u.Props[0].Readonly)
}

func TestRegistry_Fingerprint(t *testing.T) {
	a, err := mustRegistry(t, nil, testSchema()).Fingerprint()
	require.NoError(t, err)
	b, err := mustRegistry(t, nil, testSchema()).Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, a, b, "same model, same fingerprint")

	t.Run("content change", func(t *testing.T) {
		s := testSchema()
		s.Tables[1].Columns[1].Type = "nvarchar(60)"
		c, err := mustRegistry(t, nil, s).Fingerprint()
		require.NoError(t, err)
		assert.NotEqual(t, a, c)
	})
	t.Run("whitespace is not content", func(t *testing.T) {
		s := testSchema()
		s.Tables[1].Columns[1].Type = "  nvarchar(50) "
		c, err := mustRegistry(t, nil, s).Fingerprint()
		require.NoError(t, err)
		assert.Equal(t, a, c)
	})
	t.Run("order matters", func(t *testing.T) {
		s := testSchema()
		s.Tables[0], s.Tables[1] = s.Tables[1], s.Tables[0]
		c, err := mustRegistry(t, nil, s).Fingerprint()
		require.NoError(t, err)
		assert.NotEqual(t, a, c)
	})
}

func TestRegistry_FingerprintFor(t *testing.T) {
	reg := mustRegistry(t, nil, testSchema())
	a, err := reg.FingerprintFor("mssql", "python-sqlalchemy")
	require.NoError(t, err)
	b, err := mustRegistry(t, nil, testSchema()).FingerprintFor("mssql", "python-sqlalchemy")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	for _, langs := range [][2]string{
		{"postgres", "python-sqlalchemy"},
		{"mssql", "go"},
		{"postgres", "go"},
		{"mssqlp", "ython-sqlalchemy"},
	} {
		t.Run(langs[0]+"/"+langs[1], func(t *testing.T) {
			c, err := reg.FingerprintFor(langs[0], langs[1])
			require.NoError(t, err)
			assert.NotEqual(t, a, c)
		})
	}

	model, err := reg.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, model, a)
}
