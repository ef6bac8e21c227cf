package sqlalchemy

import (
	"strings"

	"github.com/syssam/dbmodel/compiler/gen"
)

// dialect holds the SQLAlchemy side of a database dialect: the module its
// column types are imported from, the SQLAlchemy type of each dialect type,
// and the Python type annotating the mapped attribute.
type dialect struct {
	module string
	column map[string]string
	python *gen.TypeMap
}

var dialects = map[string]*dialect{
	gen.LangMSSQL: {
		module: "mssql",
		column: map[string]string{
			"tinyint":          "TINYINT",
			"smallint":         "SMALLINT",
			"int":              "INTEGER",
			"integer":          "INTEGER",
			"bigint":           "BIGINT",
			"bit":              "BIT",
			"decimal":          "DECIMAL",
			"numeric":          "NUMERIC",
			"money":            "MONEY",
			"smallmoney":       "SMALLMONEY",
			"float":            "FLOAT",
			"real":             "REAL",
			"date":             "DATE",
			"time":             "TIME",
			"datetime":         "DATETIME",
			"datetime2":        "DATETIME2",
			"smalldatetime":    "SMALLDATETIME",
			"datetimeoffset":   "DATETIMEOFFSET",
			"char":             "CHAR",
			"varchar":          "VARCHAR",
			"nchar":            "NCHAR",
			"nvarchar":         "NVARCHAR",
			"text":             "TEXT",
			"ntext":            "NTEXT",
			"binary":           "BINARY",
			"varbinary":        "VARBINARY",
			"image":            "IMAGE",
			"uniqueidentifier": "UNIQUEIDENTIFIER",
			"xml":              "XML",
		},
		python: gen.NewTypeMap(gen.LangMSSQL, "typing.Any", map[string]string{
			"tinyint":          "int",
			"smallint":         "int",
			"int":              "int",
			"integer":          "int",
			"bigint":           "int",
			"bit":              "bool",
			"decimal":          "decimal.Decimal",
			"numeric":          "decimal.Decimal",
			"money":            "decimal.Decimal",
			"smallmoney":       "decimal.Decimal",
			"float":            "float",
			"real":             "float",
			"date":             "datetime.date",
			"time":             "datetime.time",
			"datetime":         "datetime.datetime",
			"datetime2":        "datetime.datetime",
			"smalldatetime":    "datetime.datetime",
			"datetimeoffset":   "datetime.datetime",
			"char":             "str",
			"varchar":          "str",
			"nchar":            "str",
			"nvarchar":         "str",
			"text":             "str",
			"ntext":            "str",
			"xml":              "str",
			"binary":           "bytes",
			"varbinary":        "bytes",
			"image":            "bytes",
			"uniqueidentifier": "uuid.UUID",
		}),
	},
	gen.LangPostgres: {
		module: "postgresql",
		column: map[string]string{
			"smallint":                    "SMALLINT",
			"int2":                        "SMALLINT",
			"integer":                     "INTEGER",
			"int":                         "INTEGER",
			"int4":                        "INTEGER",
			"serial":                      "INTEGER",
			"bigint":                      "BIGINT",
			"int8":                        "BIGINT",
			"bigserial":                   "BIGINT",
			"boolean":                     "BOOLEAN",
			"bool":                        "BOOLEAN",
			"numeric":                     "NUMERIC",
			"decimal":                     "NUMERIC",
			"money":                       "MONEY",
			"real":                        "REAL",
			"double precision":            "DOUBLE_PRECISION",
			"float8":                      "DOUBLE_PRECISION",
			"date":                        "DATE",
			"time":                        "TIME",
			"timestamp":                   "TIMESTAMP",
			"timestamp without time zone": "TIMESTAMP",
			"timestamptz":                 "TIMESTAMP(timezone=True)",
			"timestamp with time zone":    "TIMESTAMP(timezone=True)",
			"interval":                    "INTERVAL",
			"char":                        "CHAR",
			"character":                   "CHAR",
			"varchar":                     "VARCHAR",
			"character varying":           "VARCHAR",
			"text":                        "TEXT",
			"bytea":                       "BYTEA",
			"uuid":                        "UUID",
			"json":                        "JSON",
			"jsonb":                       "JSONB",
			"inet":                        "INET",
		},
		python: gen.NewTypeMap(gen.LangPostgres, "typing.Any", map[string]string{
			"smallint":                    "int",
			"int2":                        "int",
			"integer":                     "int",
			"int":                         "int",
			"int4":                        "int",
			"serial":                      "int",
			"bigint":                      "int",
			"int8":                        "int",
			"bigserial":                   "int",
			"boolean":                     "bool",
			"bool":                        "bool",
			"numeric":                     "decimal.Decimal",
			"decimal":                     "decimal.Decimal",
			"money":                       "decimal.Decimal",
			"real":                        "float",
			"double precision":            "float",
			"float8":                      "float",
			"date":                        "datetime.date",
			"time":                        "datetime.time",
			"timestamp":                   "datetime.datetime",
			"timestamp without time zone": "datetime.datetime",
			"timestamptz":                 "datetime.datetime",
			"timestamp with time zone":    "datetime.datetime",
			"interval":                    "datetime.timedelta",
			"char":                        "str",
			"character":                   "str",
			"varchar":                     "str",
			"character varying":           "str",
			"text":                        "str",
			"inet":                        "str",
			"bytea":                       "bytes",
			"uuid":                        "uuid.UUID",
			"json":                        "typing.Any",
			"jsonb":                       "typing.Any",
		}),
	},
}

// supported returns the dialects with a type mapping.
func supported() []string {
	return []string{gen.LangMSSQL, gen.LangPostgres}
}

// columnType returns the SQLAlchemy type expression of a dialect type,
// e.g. "nvarchar(50)" -> "mssql.NVARCHAR(50)". An argument of "max" is
// dropped, which SQLAlchemy renders as the unbounded length.
func (d *dialect) columnType(dbType string) string {
	base, args := gen.BaseType(dbType)
	t, ok := d.column[base]
	if !ok {
		return "sqlalchemy.types.NullType()"
	}
	if strings.Contains(t, "(") {
		return d.module + "." + t
	}
	if args == "" || strings.EqualFold(args, "max") {
		return d.module + "." + t + "()"
	}
	return d.module + "." + t + "(" + args + ")"
}
