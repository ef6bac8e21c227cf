package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/dbmodel"
	"github.com/syssam/dbmodel/internal/output"
)

type generateFlags struct {
	db, orm    string
	dbDir      string
	ormDir     string
	combined   bool
	noComments bool
	workers    int
	watch      bool
}

func newGenerateCmd(c *cli) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the DDL and ORM files of the model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.apply(cmd, c.cfg)
			g := &generator{cli: c, writer: output.NewWriter().WithWorkers(c.cfg.Workers).WithLogger(c.logger)}
			if f.watch {
				return g.watch(cmd.Context())
			}
			_, err := g.run(cmd.Context())
			return err
		},
	}
	cmd.Flags().StringVar(&f.db, "db", "", "Database dialect, overrides lang_db of the model")
	cmd.Flags().StringVar(&f.orm, "orm", "", "ORM language, overrides lang_orm of the model")
	cmd.Flags().StringVar(&f.dbDir, "db-dir", "", "Output directory of the DDL files")
	cmd.Flags().StringVar(&f.ormDir, "orm-dir", "", "Output directory of the ORM files")
	cmd.Flags().BoolVar(&f.combined, "combined", false, "Also write a single schema script in dependency order")
	cmd.Flags().BoolVar(&f.noComments, "no-comments", false, "Omit comment blocks")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Number of parallel file writers (default: number of CPUs)")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "Regenerate when the model file changes")
	return cmd
}

// apply overrides the configuration with the flags set on the command line.
func (f *generateFlags) apply(cmd *cobra.Command, cfg *config) {
	flags := cmd.Flags()
	if f.db != "" {
		cfg.LangDB = f.db
	}
	if f.orm != "" {
		cfg.LangORM = f.orm
	}
	if f.dbDir != "" {
		cfg.Output.DBDir = f.dbDir
	}
	if f.ormDir != "" {
		cfg.Output.ORMDir = f.ormDir
	}
	if flags.Changed("combined") {
		cfg.Output.Combined = f.combined
	}
	if flags.Changed("no-comments") {
		comments := !f.noComments
		cfg.Comments = &comments
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
}

type generator struct {
	*cli
	writer *output.Writer
	last   uint64
}

// run loads, validates and renders the model, then writes its files. It
// reports whether files were written: a model whose fingerprint did not
// change since the previous run is skipped.
func (g *generator) run(ctx context.Context) (bool, error) {
	m, err := g.load()
	if err != nil {
		return false, err
	}
	db, orm := m.Languages(g.cfg.LangDB, g.cfg.LangORM)
	fp, err := m.Registry.FingerprintFor(db, orm)
	if err != nil {
		return false, err
	}
	if g.last != 0 && fp == g.last {
		g.logger.Info("model unchanged, skipping", "model", m.Path, "fingerprint", fmt.Sprintf("%016x", fp))
		return false, nil
	}
	arts, err := m.GenerateWith(db, orm)
	if err != nil {
		return false, err
	}
	support, err := m.SupportFiles(db, orm)
	if err != nil {
		return false, err
	}
	files := output.Files(g.cfg.layout(), m.Registry, arts, support)
	if err := g.writer.Write(ctx, files); err != nil {
		return false, err
	}
	g.last = fp
	metrics := g.writer.Metrics()
	g.logger.Info("generated",
		"model", m.Path,
		"relations", len(arts),
		"files", len(files),
		"bytes", metrics.TotalBytes,
		"fingerprint", fmt.Sprintf("%016x", fp),
	)
	return true, nil
}

// watch runs the generation, then again on every change of the model file
// until ctx is done. Failed runs are logged and do not stop the loop.
func (g *generator) watch(ctx context.Context) error {
	if _, err := g.run(ctx); err != nil {
		g.logger.Error("generation failed", "error", err, "kind", dbmodel.KindOf(err).String())
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Editors replace files on save, so the directory is watched.
	model, err := filepath.Abs(g.cfg.Model)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(model)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(model), err)
	}
	g.logger.Info("watching", "model", model)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			g.logger.Warn("watch error", "error", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !changed(ev, model) {
				continue
			}
			g.logger.Debug("model changed", "op", ev.Op.String())
			if _, err := g.run(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				g.logger.Error("generation failed", "error", err, "kind", dbmodel.KindOf(err).String())
			}
		}
	}
}

// changed reports whether ev modified the file at path.
func changed(ev fsnotify.Event, path string) bool {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}
