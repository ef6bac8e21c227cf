package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbmodel/compiler/load"
)

func TestNewColumn(t *testing.T) {
	tests := []struct {
		name     string
		in       *load.Column
		nullable bool
		pk       bool
		identity bool
		unique   bool
	}{
		{
			name:     "plain column is nullable",
			in:       &load.Column{Name: "email", Type: "nvarchar(255)"},
			nullable: true,
		},
		{
			name: "explicit not null",
			in:   &load.Column{Name: "email", Type: "nvarchar(255)", Nullable: load.Bool(false)},
		},
		{
			name:     "primary key with identity",
			in:       &load.Column{Name: "user_id", Type: "bigint", PK: true, Identity: true},
			pk:       true,
			identity: true,
		},
		{
			name: "primary key ignores nullable and unique",
			in:   &load.Column{Name: "user_id", Type: "bigint", PK: true, Nullable: load.Bool(true), Unique: true},
			pk:   true,
		},
		{
			name:     "identity dropped without primary key",
			in:       &load.Column{Name: "seq", Type: "int", Identity: true},
			nullable: true,
		},
		{
			name:     "unique column",
			in:       &load.Column{Name: "email", Type: "nvarchar(255)", Unique: true},
			nullable: true,
			unique:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewColumn(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.nullable, c.Nullable, "nullable")
			assert.Equal(t, tt.pk, c.PK, "pk")
			assert.Equal(t, tt.identity, c.Identity, "identity")
			assert.Equal(t, tt.unique, c.Unique, "unique")
		})
	}
}

func TestNewColumn_Errors(t *testing.T) {
	tests := []struct {
		name  string
		in    *load.Column
		field string
		kind  ValueKind
	}{
		{"bad name", &load.Column{Name: "1id", Type: "int"}, "1id", KindName},
		{"empty type", &load.Column{Name: "status_id", Type: " "}, "status_id.type_", KindTypeName},
		{"multi line title", &load.Column{Name: "status_id", Type: "int", Title: "a\nb"}, "status_id.title", KindTitle},
		{"bad foreign key", &load.Column{Name: "status_id", Type: "int", FK: "Statuses"}, "status_id.fk", KindForeignKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewColumn(tt.in)
			var ve *ValueError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.kind, ve.Kind)
		})
	}
}

func TestColumn_Ref(t *testing.T) {
	c, err := NewColumn(&load.Column{Name: "status_id", Type: "tinyint", FK: "Statuses.status_id"})
	require.NoError(t, err)
	assert.True(t, c.IsForeignKey())
	rel, col := c.Ref()
	assert.Equal(t, "Statuses", rel)
	assert.Equal(t, "status_id", col)

	plain, err := NewColumn(&load.Column{Name: "name", Type: "text"})
	require.NoError(t, err)
	assert.False(t, plain.IsForeignKey())
}

func TestColumn_Comment(t *testing.T) {
	c, err := NewColumn(&load.Column{Name: "name", Type: "text", Title: "Name", Desc: "Full name\nof the user"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Full name", "of the user"}, c.Comment())

	bare, err := NewColumn(&load.Column{Name: "name", Type: "text"})
	require.NoError(t, err)
	assert.Empty(t, bare.Comment())
}

func TestColumn_Write(t *testing.T) {
	c, err := NewColumn(&load.Column{Name: "name", Type: "text"})
	require.NoError(t, err)

	db, err := c.WriteDb(&mockDb{}, true)
	require.NoError(t, err)
	assert.Equal(t, `"name" text`, db)

	orm, err := c.WriteOrm(&mockOrm{}, true)
	require.NoError(t, err)
	assert.Equal(t, "name", orm)
}
