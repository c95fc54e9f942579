// Package watch ingests export files dropped into a configured directory.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/ingest"
)

// Watcher monitors a drop directory for new export files and ingests them
// under a session named after the file.
type Watcher struct {
	dir      string
	datasets domain.DatasetUsecase
	logger   *slog.Logger
}

func New(dir string, datasets domain.DatasetUsecase, logger *slog.Logger) *Watcher {
	return &Watcher{dir: dir, datasets: datasets, logger: logger}
}

// Start begins watching. It returns immediately; ingestion happens on a
// background goroutine until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if w.dir == "" {
		w.logger.Info("drop-dir watcher disabled")
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-watcher.Events:
				if evt.Op&(fsnotify.Create|fsnotify.Rename) != 0 && isExport(evt.Name) {
					w.ingestFile(ctx, evt.Name)
				}
			case err := <-watcher.Errors:
				w.logger.Error("watcher error", "error", err)
			}
		}
	}()
	w.logger.Info("watching drop directory", "dir", w.dir)
	return watcher.Add(w.dir)
}

// Backfill ingests files already present in the drop directory.
func (w *Watcher) Backfill(ctx context.Context) error {
	if w.dir == "" {
		return nil
	}
	entries, err := filepath.Glob(filepath.Join(w.dir, "*"))
	if err != nil {
		return err
	}
	for _, e := range entries {
		if isExport(e) {
			w.ingestFile(ctx, e)
		}
	}
	return nil
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		w.logger.Error("open dropped file", "path", path, "error", err)
		return
	}
	defer f.Close()

	table, err := ingest.Read(f, path)
	if err != nil {
		w.logger.Error("parse dropped file", "path", path, "error", err)
		return
	}

	name := filepath.Base(path)
	meta, err := w.datasets.Ingest(ctx, domain.IngestRequest{
		SessionID:  sessionFromName(name),
		SourceName: name,
		Table:      table,
	})
	if err != nil {
		w.logger.Error("ingest dropped file", "path", path, "error", err)
		return
	}
	w.logger.Info("ingested dropped file",
		"path", path,
		"session_id", meta.SessionID,
		"rows", meta.TotalRows)
}

func isExport(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".xls", ".json":
		return true
	default:
		return false
	}
}

// sessionFromName derives a stable session ID from a file name, so dropping
// the same file twice refreshes the same dataset.
func sessionFromName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
	return "file-" + strings.ToLower(base)
}
