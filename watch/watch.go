// Package watch reloads an input file whenever it changes on disk.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/errs/v2"
)

var Error = errs.Tag("watch")

// File calls reload once and then after every write or replacement of
// path, until ctx is canceled. The directory is watched so that editors
// saving through a rename are noticed.
func File(ctx context.Context, log *slog.Logger, path string, reload func()) error {
	if log == nil {
		log = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Error.Wrap(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return Error.Wrap(err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return Error.Wrap(err)
	}

	reload()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				log.Debug("input changed", "path", abs, "op", event.Op.String())
				reload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watching input failed", "path", abs, "error", err)
		}
	}
}
