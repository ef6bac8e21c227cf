package dbmodel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/dbmodel/compiler/gen"
	"github.com/syssam/dbmodel/compiler/load"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		kind ErrorKind
		name string
		code int
	}{
		{nil, KindUnknown, "unknown", 1},
		{errors.New("boom"), KindUnknown, "unknown", 1},
		{&load.ParseError{Format: load.FormatJSON, Err: errors.New("eof")}, KindParse, "parse", 2},
		{gen.NewConfigError("indent", -1, "must be positive"), KindConfig, "config", 3},
		{gen.NewValueError(gen.KindName, "1bad", "bad start"), KindValue, "value_validation", 4},
		{gen.NewDuplicateNameError("column", "Users", "id"), KindDuplicateName, "duplicate_name", 5},
		{gen.NewConstraintError("Users", "", "table must have a primary key"), KindConstraint, "constraint_violation", 6},
		{gen.NewForeignKeyError("Users", "group_id", "Groups.group_id", "no such table"), KindForeignKey, "unresolved_foreign_key", 7},
		{gen.NewLanguageError("lang_db", "oracle", nil), KindLanguage, "unsupported_language", 8},
		{gen.NewRenderError("Users", "mssql", errors.New("boom")), KindRender, "render", 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.kind, KindOf(fmt.Errorf("wrapped: %w", tt.err)))
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Equal(t, tt.code, tt.kind.ExitCode())
		})
	}
	assert.Equal(t, "unknown", ErrorKind(200).String())
}

func TestAggregateError(t *testing.T) {
	assert.NoError(t, NewAggregateError())
	assert.NoError(t, NewAggregateError(nil, nil))

	one := errors.New("one")
	assert.Equal(t, one, NewAggregateError(nil, one))

	dup := gen.NewDuplicateNameError("column", "Users", "id")
	err := NewAggregateError(one, nil, dup)
	var agg *AggregateError
	assert.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errors, 2)
	assert.ErrorIs(t, err, gen.ErrDuplicateName)
	assert.Equal(t, KindDuplicateName, KindOf(err))
	assert.Contains(t, err.Error(), "dbmodel: multiple errors:\n  [1] one\n  [2] ")

	assert.Equal(t, "dbmodel: no errors", (&AggregateError{}).Error())
	assert.Equal(t, "one", (&AggregateError{Errors: []error{one}}).Error())
}
