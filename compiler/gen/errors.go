package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes of a generation run.
var (
	// ErrInvalidValue indicates a scalar value that fails its kind rule.
	ErrInvalidValue = errors.New("dbmodel: invalid value")
	// ErrDuplicateName indicates two relations or members sharing a name.
	ErrDuplicateName = errors.New("dbmodel: duplicate name")
	// ErrUnresolvedForeignKey indicates a foreign key that does not point to a primary key.
	ErrUnresolvedForeignKey = errors.New("dbmodel: unresolved foreign key")
	// ErrConstraintViolation indicates a broken structural rule of a relation.
	ErrConstraintViolation = errors.New("dbmodel: constraint violation")
	// ErrUnsupportedLanguage indicates that no writer is registered for a language.
	ErrUnsupportedLanguage = errors.New("dbmodel: unsupported language")
	// ErrInvalidConfig indicates a configuration error.
	ErrInvalidConfig = errors.New("dbmodel: invalid configuration")
	// ErrRender indicates a writer failure while rendering a relation.
	ErrRender = errors.New("dbmodel: render failed")
)

// ValueError is returned when a Value fails the rule of its kind.
type ValueError struct {
	Kind     ValueKind
	Relation string // Relation name (if known)
	Field    string // Column or member path, e.g. "status_id.type_"
	Value    string
	Message  string
}

// Error implements the error interface.
func (e *ValueError) Error() string {
	var b strings.Builder
	b.WriteString("dbmodel: invalid ")
	b.WriteString(e.Kind.String())
	if e.Relation != "" {
		b.WriteString(" on relation ")
		b.WriteString(e.Relation)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	fmt.Fprintf(&b, " (value: %q)", e.Value)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ValueError.
func (e *ValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

// NewValueError creates a new ValueError.
func NewValueError(kind ValueKind, value, message string) *ValueError {
	return &ValueError{
		Kind:    kind,
		Value:   value,
		Message: message,
	}
}

// DuplicateNameError is returned when two relations of the same kind, or two
// members of the same kind within one relation, share a name.
type DuplicateNameError struct {
	Kind     string // "table", "view", "column", "constant", "method", "property" or "parameter"
	Relation string
	Name     string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	if e.Relation != "" && e.Kind != RelationTable.String() && e.Kind != RelationView.String() {
		return fmt.Sprintf("dbmodel: duplicate %s %q in relation %s", e.Kind, e.Name, e.Relation)
	}
	return fmt.Sprintf("dbmodel: duplicate %s %q", e.Kind, e.Name)
}

// Is reports whether the target matches the sentinel error for DuplicateNameError.
func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

// NewDuplicateNameError creates a new DuplicateNameError.
func NewDuplicateNameError(kind, relation, name string) *DuplicateNameError {
	return &DuplicateNameError{
		Kind:     kind,
		Relation: relation,
		Name:     name,
	}
}

// ForeignKeyError is returned when a foreign key reference does not resolve
// to a primary key column of an existing table.
type ForeignKeyError struct {
	Relation string
	Column   string
	Ref      string
	Message  string
}

// Error implements the error interface.
func (e *ForeignKeyError) Error() string {
	var b strings.Builder
	b.WriteString("dbmodel: unresolved foreign key")
	if e.Relation != "" {
		b.WriteString(" on relation ")
		b.WriteString(e.Relation)
	}
	if e.Column != "" {
		b.WriteString(" column ")
		b.WriteString(e.Column)
	}
	if e.Ref != "" {
		fmt.Fprintf(&b, " (%s)", e.Ref)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ForeignKeyError.
func (e *ForeignKeyError) Is(target error) bool {
	return target == ErrUnresolvedForeignKey
}

// NewForeignKeyError creates a new ForeignKeyError.
func NewForeignKeyError(relation, column, ref, message string) *ForeignKeyError {
	return &ForeignKeyError{
		Relation: relation,
		Column:   column,
		Ref:      ref,
		Message:  message,
	}
}

// ConstraintError is returned when a relation breaks one of its structural rules.
type ConstraintError struct {
	Relation string
	Field    string // Column or member name (if applicable)
	Rule     string
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	var b strings.Builder
	b.WriteString("dbmodel: constraint violation")
	if e.Relation != "" {
		b.WriteString(" on relation ")
		b.WriteString(e.Relation)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Rule != "" {
		b.WriteString(": ")
		b.WriteString(e.Rule)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ConstraintError.
func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}

// NewConstraintError creates a new ConstraintError.
func NewConstraintError(relation, field, rule string) *ConstraintError {
	return &ConstraintError{
		Relation: relation,
		Field:    field,
		Rule:     rule,
	}
}

// LanguageError is returned when no writer is registered for the requested
// database dialect or ORM language, or when the pair is not supported.
type LanguageError struct {
	Option    string // "lang_db" or "lang_orm"
	Value     string
	For       string // ORM language, when the dialect is unsupported by it
	Supported []string
}

// Error implements the error interface.
func (e *LanguageError) Error() string {
	msg := fmt.Sprintf("dbmodel: unsupported %s %q", e.Option, e.Value)
	if e.For != "" {
		msg += " for " + e.For
	}
	if len(e.Supported) > 0 {
		msg += " (supported: " + strings.Join(e.Supported, ", ") + ")"
	}
	return msg
}

// Is reports whether the target matches the sentinel error for LanguageError.
func (e *LanguageError) Is(target error) bool {
	return target == ErrUnsupportedLanguage
}

// NewLanguageError creates a new LanguageError.
func NewLanguageError(option, value string, supported []string) *LanguageError {
	return &LanguageError{
		Option:    option,
		Value:     value,
		Supported: supported,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("dbmodel: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("dbmodel: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// RenderError wraps a writer failure for one relation.
type RenderError struct {
	Relation string
	Language string
	Cause    error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	var b strings.Builder
	b.WriteString("dbmodel: render error")
	if e.Relation != "" {
		b.WriteString(" on relation ")
		b.WriteString(e.Relation)
	}
	if e.Language != "" {
		b.WriteString(" (")
		b.WriteString(e.Language)
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for RenderError.
func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}

// NewRenderError creates a new RenderError.
func NewRenderError(relation, language string, cause error) *RenderError {
	return &RenderError{
		Relation: relation,
		Language: language,
		Cause:    cause,
	}
}

// IsValueError reports whether the error is a ValueError.
func IsValueError(err error) bool {
	var valueErr *ValueError
	return errors.As(err, &valueErr)
}

// IsDuplicateNameError reports whether the error is a DuplicateNameError.
func IsDuplicateNameError(err error) bool {
	var dupErr *DuplicateNameError
	return errors.As(err, &dupErr)
}

// IsForeignKeyError reports whether the error is a ForeignKeyError.
func IsForeignKeyError(err error) bool {
	var fkErr *ForeignKeyError
	return errors.As(err, &fkErr)
}

// IsConstraintError reports whether the error is a ConstraintError.
func IsConstraintError(err error) bool {
	var consErr *ConstraintError
	return errors.As(err, &consErr)
}

// IsLanguageError reports whether the error is a LanguageError.
func IsLanguageError(err error) bool {
	var langErr *LanguageError
	return errors.As(err, &langErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsRenderError reports whether the error is a RenderError.
func IsRenderError(err error) bool {
	var renderErr *RenderError
	return errors.As(err, &renderErr)
}

// withField attaches the relation and field path to a ValueError produced
// while constructing a nested value. Other errors pass through.
func withField(err error, relation, field string) error {
	var valueErr *ValueError
	if !errors.As(err, &valueErr) {
		return err
	}
	c := *valueErr
	if c.Relation == "" {
		c.Relation = relation
	}
	switch {
	case c.Field == "":
		c.Field = field
	case field != "":
		c.Field = field + "." + c.Field
	}
	return &c
}
