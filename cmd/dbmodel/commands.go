package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/dbmodel"
	"github.com/syssam/dbmodel/compiler/gen"
	"github.com/syssam/dbmodel/compiler/load"
)

func newValidateCmd(c *cli) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report every problem of the model",
		Long: `validate checks the model like generate does, but reports all errors
instead of stopping at the first one, followed by warnings about incomplete
documentation and mismatched foreign key types.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := c.load()
			if err != nil {
				return err
			}
			res := m.Registry.Lint()
			if s := res.String(); s != "" {
				fmt.Fprint(cmd.OutOrStdout(), s)
			}
			c.logger.Info("validated",
				"model", m.Path,
				"errors", len(res.Errors),
				"warnings", len(res.Warnings),
			)
			if res.HasErrors() {
				return dbmodel.NewAggregateError(res.Errors...)
			}
			if strict && res.HasWarnings() {
				return gen.NewConfigError("strict", len(res.Warnings), "model has warnings")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d tables, %d views, ok\n",
				m.Path, len(m.Registry.Tables), len(m.Registry.Views))
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on warnings")
	return cmd
}

func newDescribeCmd(c *cli) *cobra.Command {
	var verbosity, format string
	cmd := &cobra.Command{
		Use:   "describe [relation...]",
		Short: "Print a description of the model or of some relations",
		Long: `describe prints the loaded model as text, at the given verbosity, or as
the canonical JSON model file with --format json. Relation names restrict the
output to those tables and views.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := gen.ParseVerbosity(verbosity)
			if err != nil {
				return gen.NewConfigError("verbosity", verbosity, err.Error())
			}
			m, err := c.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case "text":
			case "json":
				return describeJSON(out, m.Schema, args)
			default:
				return gen.NewConfigError("format", format, "expect text or json")
			}
			if len(args) == 0 {
				fmt.Fprintln(out, m.Registry.Describe(v))
				return nil
			}
			for _, name := range args {
				rel, ok := m.Registry.Table(name)
				if !ok {
					if rel, ok = m.Registry.View(name); !ok {
						return gen.NewConfigError("relation", name, "no table or view with this name")
					}
				}
				fmt.Fprintln(out, rel.Describe(v))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&verbosity, "verbosity", "v", "short", "Verbosity: short, long or all")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	return cmd
}

// describeJSON writes the schema, or the named relations of it, in the
// canonical JSON form of a model file.
func describeJSON(out io.Writer, s *load.Schema, names []string) error {
	if len(names) > 0 {
		sub := &load.Schema{LangDB: s.LangDB, LangORM: s.LangORM}
		for _, name := range names {
			if i := slices.IndexFunc(s.Tables, named(name)); i >= 0 {
				sub.Tables = append(sub.Tables, s.Tables[i])
			} else if i := slices.IndexFunc(s.Views, named(name)); i >= 0 {
				sub.Views = append(sub.Views, s.Views[i])
			} else {
				return gen.NewConfigError("relation", name, "no table or view with this name")
			}
		}
		s = sub
	}
	buf, err := load.MarshalSchema(s)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	_, err = fmt.Fprintf(out, "%s\n", buf)
	return err
}

func named(name string) func(*load.Relation) bool {
	return func(r *load.Relation) bool { return r.Name == name }
}

func newLanguagesCmd(*cli) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the database dialects and ORM languages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			l := dbmodel.DefaultLanguages()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lang_db:  %s\n", strings.Join(l.DbNames(), ", "))
			fmt.Fprintf(out, "lang_orm: %s\n", strings.Join(l.OrmNames(), ", "))
			return nil
		},
	}
}
