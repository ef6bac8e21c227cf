package golang

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/dbmodel/compiler/gen"
)

const uuidType = "github.com/google/uuid.UUID"

// typeMaps maps dialect types to Go types. Qualified types are spelled
// "import/path.Name".
var typeMaps = map[string]*gen.TypeMap{
	gen.LangMSSQL: gen.NewTypeMap(gen.LangMSSQL, "any", map[string]string{
		"tinyint":          "uint8",
		"smallint":         "int16",
		"int":              "int32",
		"integer":          "int32",
		"bigint":           "int64",
		"bit":              "bool",
		"decimal":          "float64",
		"numeric":          "float64",
		"money":            "float64",
		"smallmoney":       "float64",
		"float":            "float64",
		"real":             "float32",
		"date":             "time.Time",
		"time":             "time.Time",
		"datetime":         "time.Time",
		"datetime2":        "time.Time",
		"smalldatetime":    "time.Time",
		"datetimeoffset":   "time.Time",
		"char":             "string",
		"varchar":          "string",
		"nchar":            "string",
		"nvarchar":         "string",
		"text":             "string",
		"ntext":            "string",
		"xml":              "string",
		"binary":           "[]byte",
		"varbinary":        "[]byte",
		"image":            "[]byte",
		"uniqueidentifier": uuidType,
	}),
	gen.LangPostgres: gen.NewTypeMap(gen.LangPostgres, "any", map[string]string{
		"smallint":                    "int16",
		"int2":                        "int16",
		"integer":                     "int32",
		"int":                         "int32",
		"int4":                        "int32",
		"serial":                      "int32",
		"bigint":                      "int64",
		"int8":                        "int64",
		"bigserial":                   "int64",
		"boolean":                     "bool",
		"bool":                        "bool",
		"numeric":                     "float64",
		"decimal":                     "float64",
		"money":                       "float64",
		"real":                        "float32",
		"double precision":            "float64",
		"float8":                      "float64",
		"date":                        "time.Time",
		"time":                        "time.Time",
		"timestamp":                   "time.Time",
		"timestamp without time zone": "time.Time",
		"timestamptz":                 "time.Time",
		"timestamp with time zone":    "time.Time",
		"interval":                    "time.Duration",
		"char":                        "string",
		"character":                   "string",
		"varchar":                     "string",
		"character varying":           "string",
		"text":                        "string",
		"inet":                        "string",
		"bytea":                       "[]byte",
		"uuid":                        uuidType,
		"json":                        "encoding/json.RawMessage",
		"jsonb":                       "encoding/json.RawMessage",
	}),
}

func supported() []string {
	return []string{gen.LangMSSQL, gen.LangPostgres}
}

// memberTypes translates the type names used by members of the model to
// Go types.
var memberTypes = map[string]string{
	"int":               "int",
	"str":               "string",
	"string":            "string",
	"float":             "float64",
	"bool":              "bool",
	"bytes":             "[]byte",
	"any":               "any",
	"Any":               "any",
	"typing.Any":        "any",
	"object":            "any",
	"dict":              "map[string]any",
	"list":              "[]any",
	"datetime":          "time.Time",
	"datetime.datetime": "time.Time",
	"datetime.date":     "time.Time",
	"datetime.time":     "time.Time",
	"decimal.Decimal":   "float64",
	"uuid.UUID":         uuidType,
}

// memberType translates a single member type, following the List, Optional
// and Dict generic forms.
func memberType(t string) string {
	t = strings.TrimSpace(t)
	if g, ok := memberTypes[t]; ok {
		return g
	}
	name, arg, ok := generic(t)
	if !ok {
		return t
	}
	switch strings.TrimPrefix(name, "typing.") {
	case "List", "list", "Sequence":
		return "[]" + memberType(arg)
	case "Optional":
		return "*" + memberType(arg)
	case "Dict", "dict":
		k, v, _ := strings.Cut(arg, ",")
		return "map[" + memberType(k) + "]" + memberType(v)
	}
	return "any"
}

func generic(t string) (name, arg string, ok bool) {
	i := strings.IndexByte(t, '[')
	if i <= 0 || !strings.HasSuffix(t, "]") {
		return "", "", false
	}
	return t[:i], t[i+1 : len(t)-1], true
}

// typeCode returns the jennifer code of a Go type name.
func typeCode(t string) *jen.Statement {
	switch {
	case strings.HasPrefix(t, "[]"):
		return jen.Index().Add(typeCode(t[2:]))
	case strings.HasPrefix(t, "*"):
		return jen.Op("*").Add(typeCode(t[1:]))
	case strings.HasPrefix(t, "map["):
		if i := strings.IndexByte(t, ']'); i > 0 {
			return jen.Map(typeCode(t[4:i])).Add(typeCode(t[i+1:]))
		}
	}
	if i := strings.LastIndexByte(t, '.'); i > 0 {
		return jen.Qual(t[:i], t[i+1:])
	}
	return jen.Id(t)
}

var basic = map[string]bool{
	"bool": true, "string": true, "int": true, "int8": true, "int16": true,
	"int32": true, "int64": true, "uint8": true, "uint16": true, "uint32": true,
	"uint64": true, "float32": true, "float64": true,
}

// literal translates a default literal of the model to Go code. Quoted
// strings become Go string literals and the boolean and none constants
// their Go spelling; anything else is emitted verbatim.
func literal(s string) *jen.Statement {
	switch s {
	case "None", "nil", "null":
		return jen.Nil()
	case "True", "true":
		return jen.True()
	case "False", "false":
		return jen.False()
	}
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return jen.Lit(s[1 : len(s)-1])
	}
	return jen.Op(s)
}
