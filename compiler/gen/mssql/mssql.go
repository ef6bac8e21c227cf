// Package mssql renders Microsoft SQL Server (T-SQL) DDL for the relations
// of a registry.
//
// The writer:
//   - Uses SQL Server identifier quoting: [table], [col].
//   - Wraps CREATE TABLE in an IF OBJECT_ID(...) IS NULL guard since T-SQL
//     does not support CREATE TABLE IF NOT EXISTS.
//   - Renders IDENTITY(1,1) on identity primary key columns.
//   - Renders primary key, unique and foreign key constraints as named
//     table constraints after the columns.
//   - Renders views as CREATE OR ALTER VIEW stubs with the declared shape,
//     to be completed with the real query.
//   - Renders a change tracking table and an AFTER UPDATE trigger for
//     tables with trigger_update set.
package mssql

import (
	"fmt"
	"strings"

	"github.com/syssam/dbmodel/compiler/gen"
)

// Writer is the T-SQL DbWriter.
type Writer struct {
	header string
}

var _ gen.DbWriter = (*Writer)(nil)

// New returns a T-SQL writer for the run configured by c.
func New(c *gen.Config) *Writer {
	return &Writer{header: c.Header}
}

// Factory is the gen.DbFactory of the dialect.
func Factory(c *gen.Config) (gen.DbWriter, error) {
	return New(c), nil
}

// Name implements gen.Writer.
func (w *Writer) Name() string { return gen.LangMSSQL }

// Ext implements gen.Writer.
func (w *Writer) Ext() string { return ".sql" }

// Quote quotes a single identifier using bracket syntax, escaping any
// closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func (w *Writer) Quote(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// literal quotes s as an N'' string literal.
func literal(s string) string {
	return "N'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// WriteColumn renders the column clause of a CREATE TABLE statement:
//
//	[col] TYPE NULL|NOT NULL [IDENTITY(1,1)]
func (w *Writer) WriteColumn(c *gen.Column, comment bool) (string, error) {
	var b strings.Builder
	if comment {
		b.WriteString(gen.Comment("", "-- ", c.Comment()))
	}
	b.WriteString(w.Quote(c.Name.String()))
	b.WriteByte(' ')
	b.WriteString(c.Type.String())
	if c.Nullable {
		b.WriteString(" NULL")
	} else {
		b.WriteString(" NOT NULL")
	}
	if c.Identity {
		b.WriteString(" IDENTITY(1,1)")
	}
	return b.String(), nil
}

// WriteRelation renders the DDL unit of a table or a view.
func (w *Writer) WriteRelation(_ gen.Resolver, r *gen.Relation, comment bool) (string, error) {
	var b strings.Builder
	if w.header != "" {
		fmt.Fprintf(&b, "-- %s\n\n", w.header)
	}
	if comment {
		b.WriteString(banner(r.Comment()))
	}
	if r.IsView() {
		if err := w.view(&b, r, comment); err != nil {
			return "", err
		}
		return b.String(), nil
	}
	if err := w.table(&b, r, comment); err != nil {
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

// table renders the guarded CREATE TABLE statement.
func (w *Writer) table(b *strings.Builder, r *gen.Relation, comment bool) error {
	items := make([]string, 0, len(r.Columns)+3)
	for _, c := range r.Columns {
		clause, err := w.WriteColumn(c, comment)
		if err != nil {
			return err
		}
		items = append(items, clause)
	}
	items = append(items, w.constraints(r)...)
	w.create(b, r.Name.String(), items)
	return nil
}

// constraints returns the named primary key, unique and foreign key
// constraints of the table, in this order.
func (w *Writer) constraints(r *gen.Relation) []string {
	var items []string
	if pk := r.PrimaryKey(); len(pk) > 0 {
		items = append(items, fmt.Sprintf("CONSTRAINT %s PRIMARY KEY (%s)",
			w.Quote(gen.KeyName("PK", r)), w.columns(pk)))
	}
	for _, c := range r.UniqueColumns() {
		items = append(items, fmt.Sprintf("CONSTRAINT %s UNIQUE (%s)",
			w.Quote(gen.KeyName("UQ", r, c)), w.Quote(c.Name.String())))
	}
	for _, c := range r.ForeignKeys() {
		ref, col := c.Ref()
		items = append(items, fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
			w.Quote(gen.KeyName("FK", r, c)), w.Quote(c.Name.String()), w.Quote(ref), w.Quote(col)))
	}
	return items
}

func (w *Writer) columns(cols []*gen.Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = w.Quote(c.Name.String())
	}
	return strings.Join(names, ", ")
}

// create writes the IF OBJECT_ID guard and the CREATE TABLE statement. The
// items may span several lines (comment blocks); the separating comma goes
// after the last line of each item.
func (w *Writer) create(b *strings.Builder, name string, items []string) {
	quoted := w.Quote(name)
	fmt.Fprintf(b, "IF OBJECT_ID(%s, N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n", literal(quoted), quoted)
	for i, item := range items {
		b.WriteString(gen.Indent(strings.TrimRight(item, "\n"), "    "))
		if i < len(items)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("  );\nEND;\nGO\n")
}

// view renders the view as a query stub returning no rows with the
// declared column names and types.
func (w *Writer) view(b *strings.Builder, r *gen.Relation, comment bool) error {
	fmt.Fprintf(b, "CREATE OR ALTER VIEW %s\nAS\nSELECT\n", w.Quote(r.Name.String()))
	for i, c := range r.Columns {
		if comment {
			b.WriteString(gen.Comment("    ", "-- ", c.Comment()))
		}
		fmt.Fprintf(b, "    CAST(NULL AS %s) AS %s", c.Type, w.Quote(c.Name.String()))
		if i < len(r.Columns)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("WHERE 1 = 0;\nGO\n")
	return nil
}

// shadow renders the change tracking table and the trigger copying the
// pre-update rows into it.
func (w *Writer) shadow(b *strings.Builder, r *gen.Relation, comment bool) error {
	id, at, err := gen.ShadowColumns(r)
	if err != nil {
		return err
	}
	shadow := r.ShadowName()
	b.WriteByte('\n')
	if comment {
		b.WriteString(banner([]string{
			fmt.Sprintf("Change tracking for %s", r.Name),
			fmt.Sprintf("Rows of %s as they were before each update.", r.Name),
		}))
	}
	items := []string{
		fmt.Sprintf("%s bigint NOT NULL IDENTITY(1,1)", w.Quote(id)),
		fmt.Sprintf("%s datetime2 NOT NULL DEFAULT SYSUTCDATETIME()", w.Quote(at)),
	}
	for _, c := range r.Columns {
		null := " NULL"
		if !c.Nullable {
			null = " NOT NULL"
		}
		items = append(items, w.Quote(c.Name.String())+" "+c.Type.String()+null)
	}
	items = append(items, fmt.Sprintf("CONSTRAINT %s PRIMARY KEY (%s)", w.Quote("PK_"+shadow), w.Quote(id)))
	w.create(b, shadow, items)

	cols := w.columns(r.Columns)
	fmt.Fprintf(b, "\nCREATE OR ALTER TRIGGER %s\nON %s\nAFTER UPDATE\nAS\nBEGIN\n", w.Quote(r.TriggerName()), w.Quote(r.Name.String()))
	b.WriteString("  SET NOCOUNT ON;\n")
	fmt.Fprintf(b, "  INSERT INTO %s (%s)\n", w.Quote(shadow), cols)
	fmt.Fprintf(b, "  SELECT %s\n", cols)
	b.WriteString("  FROM deleted;\nEND;\nGO\n")
	return nil
}
