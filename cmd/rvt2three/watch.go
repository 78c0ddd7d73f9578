package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// settle is how long the scene file must stay quiet before a re-export.
const settle = 200 * time.Millisecond

// watcher exports a scene once, then again after every change to it.
type watcher struct {
	job      *job
	input    string
	onResult func(result)
}

// run blocks until ctx is done. Export failures are logged and the
// watcher keeps going; only watcher setup errors are returned.
func (w *watcher) run(ctx context.Context) error {
	input, err := filepath.Abs(w.input)
	if err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	if err := fw.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(input), err)
	}

	log := w.job.log.With(zap.String("input", input))
	rebuild := func() {
		res, err := w.job.run(ctx, input, "")
		if err != nil {
			log.Error("export failed", zap.Error(err))
			return
		}
		if w.onResult != nil {
			w.onResult(res)
		}
	}

	rebuild()
	log.Info("watching for changes")

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != input {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.Debug("scene changed", zap.Stringer("op", ev.Op))
			timer.Reset(settle)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case <-timer.C:
			rebuild()
		}
	}
}
