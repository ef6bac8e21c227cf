// Package output writes the artifacts of a generation run to disk.
package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/dbmodel/compiler/gen"
)

// Layout places the generated files.
type Layout struct {
	// DBDir receives one <relation><ext> DDL file per relation.
	DBDir string
	// ORMDir receives one <Class><ext> source file per relation, and the
	// support files of the ORM language.
	ORMDir string
	// Combined also writes schema<ext> in DBDir, holding the DDL of every
	// relation in dependency order.
	Combined bool
}

// File is one file to write.
type File struct {
	Path    string
	Content []byte
}

// Files lays out the artifacts of a run, the support files of its ORM
// language and, if enabled, the combined schema script.
func Files(l Layout, reg *gen.Registry, arts []*gen.Artifact, support map[string]string) []File {
	files := make([]File, 0, 2*len(arts)+len(support)+1)
	for _, a := range arts {
		files = append(files,
			File{Path: filepath.Join(l.DBDir, a.Relation.Name.String()+a.DBExt), Content: []byte(a.DB)},
			File{Path: filepath.Join(l.ORMDir, a.Class+a.ORMExt), Content: []byte(a.ORM)},
		)
	}
	for name, content := range support {
		files = append(files, File{Path: filepath.Join(l.ORMDir, name), Content: []byte(content)})
	}
	if l.Combined && len(arts) > 0 {
		files = append(files, File{
			Path:    filepath.Join(l.DBDir, "schema"+arts[0].DBExt),
			Content: []byte(reg.Script(arts)),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Writer writes files in parallel. Go sources are passed through goimports
// before they are written.
type Writer struct {
	workers int
	logger  *slog.Logger

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics Metrics
}

// Metrics tracks what a Writer wrote.
type Metrics struct {
	FilesWritten int
	TotalBytes   int64
}

// NewWriter creates a Writer using one worker per CPU.
func NewWriter() *Writer {
	return &Writer{
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// WithLogger sets the logger receiving one debug record per file.
func (w *Writer) WithLogger(l *slog.Logger) *Writer {
	if l != nil {
		w.logger = l
	}
	return w
}

// Metrics returns the write metrics.
func (w *Writer) Metrics() Metrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Write writes all files, stopping at the first failure.
func (w *Writer) Write(ctx context.Context, files []File) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)

	for _, f := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(f)
			}
		})
	}

	return eg.Wait()
}

// writeFile writes a single file.
func (w *Writer) writeFile(f File) error {
	content := f.Content
	if filepath.Ext(f.Path) == ".go" {
		formatted, err := imports.Process(f.Path, content, nil)
		if err != nil {
			// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
			debugPath := f.Path + ".error"
			_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
			_ = os.WriteFile(debugPath, content, 0o644)
			return fmt.Errorf("format %s: %w (unformatted written to %s)", f.Path, err, debugPath)
		}
		content = formatted
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", f.Path, err)
	}
	if err := os.WriteFile(f.Path, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	w.logger.Debug("file written", "path", f.Path, "bytes", len(content))

	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(content))
	w.mu.Unlock()

	return nil
}
