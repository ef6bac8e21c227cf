// Package load holds the intermediate representation produced by the schema
// readers, and the readers for JSON, YAML and XML model files.
package load

import (
	"encoding/json"
	"encoding/xml"
)

// Schema is the root of a model file: the target languages and every
// table and view of the run.
type Schema struct {
	XMLName xml.Name    `json:"-" yaml:"-" xml:"database"`
	LangDB  string      `json:"lang_db" yaml:"lang_db" xml:"lang_db"`
	LangORM string      `json:"lang_orm" yaml:"lang_orm" xml:"lang_orm"`
	Tables  []*Relation `json:"tables,omitempty" yaml:"tables,omitempty" xml:"tables>table"`
	Views   []*Relation `json:"views,omitempty" yaml:"views,omitempty" xml:"views>view"`
}

// Relation is a table or view as read from the model file. The
// trigger_update flag is only meaningful for tables.
type Relation struct {
	Name          string      `json:"name" yaml:"name" xml:"name"`
	Title         string      `json:"title" yaml:"title" xml:"title"`
	Desc          string      `json:"desc" yaml:"desc" xml:"desc"`
	TriggerUpdate bool        `json:"trigger_update,omitempty" yaml:"trigger_update,omitempty" xml:"trigger_update,omitempty"`
	Columns       []*Column   `json:"columns,omitempty" yaml:"columns,omitempty" xml:"columns>column"`
	Constants     []*Constant `json:"constants,omitempty" yaml:"constants,omitempty" xml:"constants>constant"`
	Methods       []*Method   `json:"methods,omitempty" yaml:"methods,omitempty" xml:"methods>method"`
	Props         []*Property `json:"props,omitempty" yaml:"props,omitempty" xml:"props>prop"`
}

// Column is a relation column. A nil Nullable means the column is nullable
// unless it is part of the primary key.
type Column struct {
	Name     string `json:"name" yaml:"name" xml:"name"`
	Type     string `json:"type_" yaml:"type_" xml:"type_"`
	Title    string `json:"title" yaml:"title" xml:"title"`
	Desc     string `json:"desc" yaml:"desc" xml:"desc"`
	Nullable *bool  `json:"nullable,omitempty" yaml:"nullable,omitempty" xml:"nullable,omitempty"`
	PK       bool   `json:"pk,omitempty" yaml:"pk,omitempty" xml:"pk,omitempty"`
	Identity bool   `json:"identity,omitempty" yaml:"identity,omitempty" xml:"identity,omitempty"`
	FK       string `json:"fk,omitempty" yaml:"fk,omitempty" xml:"fk,omitempty"`
	Unique   bool   `json:"unique,omitempty" yaml:"unique,omitempty" xml:"unique,omitempty"`
}

// Constant is a class level constant of the generated ORM object.
type Constant struct {
	Name    string `json:"name" yaml:"name" xml:"name"`
	Type    string `json:"type_" yaml:"type_" xml:"type_"`
	Desc    string `json:"desc" yaml:"desc" xml:"desc"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty" xml:"title,omitempty"`
	Default string `json:"default,omitempty" yaml:"default,omitempty" xml:"default,omitempty"`
}

// Method is a method of the generated ORM object. MethodType is one of
// "static", "class" or "instance" (the default).
type Method struct {
	Name            string       `json:"name" yaml:"name" xml:"name"`
	Type            string       `json:"type_" yaml:"type_" xml:"type_"`
	Desc            string       `json:"desc" yaml:"desc" xml:"desc"`
	Title           string       `json:"title,omitempty" yaml:"title,omitempty" xml:"title,omitempty"`
	MethodType      string       `json:"methodtype,omitempty" yaml:"methodtype,omitempty" xml:"methodtype,omitempty"`
	Params          []*Parameter `json:"params,omitempty" yaml:"params,omitempty" xml:"params>param"`
	Default         string       `json:"default,omitempty" yaml:"default,omitempty" xml:"default,omitempty"`
	FlagConstructor bool         `json:"flag_constructor,omitempty" yaml:"flag_constructor,omitempty" xml:"flag_constructor,omitempty"`
}

// Parameter is a method parameter. A parameter with a default is a
// keyword parameter.
type Parameter struct {
	Name    string `json:"name" yaml:"name" xml:"name"`
	Type    string `json:"type_" yaml:"type_" xml:"type_"`
	Desc    string `json:"desc" yaml:"desc" xml:"desc"`
	Default string `json:"default,omitempty" yaml:"default,omitempty" xml:"default,omitempty"`
}

// Property is an accessor of the generated ORM object.
type Property struct {
	Name     string `json:"name" yaml:"name" xml:"name"`
	Type     string `json:"type_" yaml:"type_" xml:"type_"`
	Desc     string `json:"desc" yaml:"desc" xml:"desc"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty" xml:"title,omitempty"`
	Default  string `json:"default,omitempty" yaml:"default,omitempty" xml:"default,omitempty"`
	Readonly bool   `json:"readonly,omitempty" yaml:"readonly,omitempty" xml:"readonly,omitempty"`
}

// MarshalSchema encodes s into the canonical JSON form of a model file.
func MarshalSchema(s *Schema) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Bool returns a pointer to b, for optional flags such as Column.Nullable.
func Bool(b bool) *bool { return &b }
