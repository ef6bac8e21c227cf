// Package postgres renders PostgreSQL DDL for the relations of a registry.
//
// Tables are converted to Atlas schema objects and planned with the Atlas
// PostgreSQL planner, so the CREATE TABLE, CREATE INDEX and COMMENT ON
// statements follow the same formatting rules Atlas migrations use. Views,
// the change tracking trigger function and the trigger itself are rendered
// directly.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"github.com/lib/pq"

	"github.com/syssam/dbmodel/compiler/gen"
)

// Writer is the PostgreSQL DbWriter.
type Writer struct {
	header string
}

var _ gen.DbWriter = (*Writer)(nil)

// New returns a PostgreSQL writer for the run configured by c.
func New(c *gen.Config) *Writer {
	return &Writer{header: c.Header}
}

// Factory is the gen.DbFactory of the dialect.
func Factory(c *gen.Config) (gen.DbWriter, error) {
	return New(c), nil
}

// Name implements gen.Writer.
func (w *Writer) Name() string { return gen.LangPostgres }

// Ext implements gen.Writer.
func (w *Writer) Ext() string { return ".sql" }

// Quote implements gen.DbWriter.
func (w *Writer) Quote(ident string) string { return pq.QuoteIdentifier(ident) }

// columnType parses the declared type with the Atlas PostgreSQL parser.
// Types the parser does not know are passed through unchanged.
func columnType(c *gen.Column) schema.Type {
	t, err := postgres.ParseType(c.Type.String())
	if err != nil {
		return &schema.UnsupportedType{T: c.Type.String()}
	}
	return t
}

// formatType returns the canonical spelling of the column type.
func formatType(c *gen.Column) string {
	if f, err := postgres.FormatType(columnType(c)); err == nil {
		return f
	}
	return c.Type.String()
}

func identity() *postgres.Identity {
	return &postgres.Identity{
		Generation: "BY DEFAULT",
		Sequence:   &postgres.Sequence{Start: 1, Increment: 1},
	}
}

// WriteColumn renders a column definition:
//
//	"col" TYPE NULL|NOT NULL [GENERATED BY DEFAULT AS IDENTITY]
func (w *Writer) WriteColumn(c *gen.Column, comment bool) (string, error) {
	var b strings.Builder
	if comment {
		b.WriteString(gen.Comment("", "-- ", c.Comment()))
	}
	b.WriteString(w.Quote(c.Name.String()))
	b.WriteByte(' ')
	b.WriteString(formatType(c))
	if c.Nullable {
		b.WriteString(" NULL")
	} else {
		b.WriteString(" NOT NULL")
	}
	if c.Identity {
		b.WriteString(" GENERATED BY DEFAULT AS IDENTITY")
	}
	return b.String(), nil
}

// WriteRelation renders the DDL unit of a table or a view.
func (w *Writer) WriteRelation(res gen.Resolver, r *gen.Relation, comment bool) (string, error) {
	var b strings.Builder
	if w.header != "" {
		fmt.Fprintf(&b, "-- %s\n\n", w.header)
	}
	if comment {
		b.WriteString(banner(r.Comment()))
	}
	if r.IsView() {
		w.view(&b, r, comment)
		return b.String(), nil
	}
	t := w.table(res, r, comment)
	if err := plan(&b, t); err != nil {
		return "", err
	}
	if r.TriggerUpdate {
		if err := w.shadow(&b, r, comment); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func banner(lines []string) string {
	rule := "-- " + strings.Repeat("=", 77) + "\n"
	return rule + gen.Comment("", "-- ", lines) + rule
}

// table converts the relation to an Atlas table with its keys. Referenced
// tables are represented by stubs holding only the referenced column.
func (w *Writer) table(res gen.Resolver, r *gen.Relation, comment bool) *schema.Table {
	t := schema.NewTable(r.Name.String())
	if comment {
		t.SetComment(strings.Join(r.Comment(), "\n"))
	}
	cols := make(map[string]*schema.Column, len(r.Columns))
	for _, c := range r.Columns {
		col := schema.NewColumn(c.Name.String()).
			SetType(columnType(c)).
			SetNull(c.Nullable)
		if c.Identity {
			col.AddAttrs(identity())
		}
		if comment && len(c.Comment()) > 0 {
			col.SetComment(strings.Join(c.Comment(), "\n"))
		}
		cols[c.Name.String()] = col
		t.AddColumns(col)
	}
	if pk := r.PrimaryKey(); len(pk) > 0 {
		keys := make([]*schema.Column, len(pk))
		for i, c := range pk {
			keys[i] = cols[c.Name.String()]
		}
		t.SetPrimaryKey(schema.NewPrimaryKey(keys...))
	}
	for _, c := range r.UniqueColumns() {
		t.AddIndexes(schema.NewUniqueIndex(gen.KeyName("UQ", r, c)).AddColumns(cols[c.Name.String()]))
	}
	for _, c := range r.ForeignKeys() {
		ref, col := c.Ref()
		refTable, refCol := t, cols[col]
		if ref != r.Name.String() || refCol == nil {
			refCol = schema.NewColumn(col)
			refTable = schema.NewTable(ref).AddColumns(refCol)
			if rt, ok := res.Table(ref); ok {
				if rc, ok := rt.Column(col); ok {
					refCol.SetType(columnType(rc))
				}
			}
		}
		t.AddForeignKeys(
			schema.NewForeignKey(gen.KeyName("FK", r, c)).
				AddColumns(cols[c.Name.String()]).
				SetRefTable(refTable).
				AddRefColumns(refCol),
		)
	}
	return t
}

// plan writes the statements Atlas plans for creating t.
func plan(b *strings.Builder, t *schema.Table) error {
	p, err := postgres.DefaultPlan.PlanChanges(context.Background(), "create_"+t.Name, []schema.Change{
		&schema.AddTable{T: t},
	})
	if err != nil {
		return fmt.Errorf("plan table %s: %w", t.Name, err)
	}
	for _, c := range p.Changes {
		b.WriteString(c.Cmd)
		b.WriteString(";\n")
	}
	return nil
}

// view renders the view as a query stub returning no rows with the
// declared column names and types.
func (w *Writer) view(b *strings.Builder, r *gen.Relation, comment bool) {
	fmt.Fprintf(b, "CREATE OR REPLACE VIEW %s AS\nSELECT\n", w.Quote(r.Name.String()))
	for i, c := range r.Columns {
		if comment {
			b.WriteString(gen.Comment("  ", "-- ", c.Comment()))
		}
		fmt.Fprintf(b, "  CAST(NULL AS %s) AS %s", formatType(c), w.Quote(c.Name.String()))
		if i < len(r.Columns)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("WHERE false;\n")
	if comment {
		fmt.Fprintf(b, "COMMENT ON VIEW %s IS %s;\n", w.Quote(r.Name.String()), pq.QuoteLiteral(strings.Join(r.Comment(), "\n")))
	}
}

// shadow renders the change tracking table, the trigger function copying
// the pre-update row into it, and the trigger.
func (w *Writer) shadow(b *strings.Builder, r *gen.Relation, comment bool) error {
	id, at, err := gen.ShadowColumns(r)
	if err != nil {
		return err
	}
	b.WriteByte('\n')
	if comment {
		b.WriteString(banner([]string{
			fmt.Sprintf("Change tracking for %s", r.Name),
			fmt.Sprintf("Rows of %s as they were before each update.", r.Name),
		}))
	}
	idCol := schema.NewColumn(id).SetType(&schema.IntegerType{T: postgres.TypeBigInt}).AddAttrs(identity())
	t := schema.NewTable(r.ShadowName()).AddColumns(
		idCol,
		schema.NewColumn(at).
			SetType(&schema.TimeType{T: postgres.TypeTimestampWTZ}).
			SetDefault(&schema.RawExpr{X: "now()"}),
	)
	for _, c := range r.Columns {
		t.AddColumns(schema.NewColumn(c.Name.String()).SetType(columnType(c)).SetNull(c.Nullable))
	}
	t.SetPrimaryKey(schema.NewPrimaryKey(idCol))
	if err := plan(b, t); err != nil {
		return err
	}

	var (
		fn   = w.Quote(r.TriggerName())
		cols = make([]string, len(r.Columns))
		vals = make([]string, len(r.Columns))
	)
	for i, c := range r.Columns {
		cols[i] = w.Quote(c.Name.String())
		vals[i] = "OLD." + cols[i]
	}
	fmt.Fprintf(b, "\nCREATE OR REPLACE FUNCTION %s() RETURNS trigger AS $$\nBEGIN\n", fn)
	fmt.Fprintf(b, "  INSERT INTO %s (%s)\n", w.Quote(r.ShadowName()), strings.Join(cols, ", "))
	fmt.Fprintf(b, "  VALUES (%s);\n", strings.Join(vals, ", "))
	b.WriteString("  RETURN NEW;\nEND;\n$$ LANGUAGE plpgsql;\n")
	fmt.Fprintf(b, "\nCREATE TRIGGER %s\nAFTER UPDATE ON %s\nFOR EACH ROW EXECUTE FUNCTION %s();\n",
		fn, w.Quote(r.Name.String()), fn)
	return nil
}
