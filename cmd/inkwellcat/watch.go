package main

import (
	"os"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/encoding"

	"github.com/inkwell/inkwell/internal/applog"
	"github.com/inkwell/inkwell/internal/engine/buffer"
	"github.com/inkwell/inkwell/internal/engine/text"
)

// watch blocks, reconciling b against external writes to path: a modified
// buffer flushes its outstanding changes out to disk (re-encoding with enc),
// an unmodified one resets its base text from whatever landed on disk.
// Nothing in this command creates a snapshot, so the buffer's top layer
// stays first and neither ResetBaseText nor FlushOutstandingChanges takes
// its forbidden-state path here.
func watch(b *buffer.Buffer, path string, enc encoding.Encoding, logger *applog.Logger) int {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to start watcher: %v", err)
		return 1
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		logger.Error("failed to watch %s: %v", path, err)
		return 1
	}

	logger.Info("watching %s", path)

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return 0
			}
			if event.Op&fsnotify.Write == 0 {
				continue
			}
			reconcile(b, path, enc, logger)
		case err, ok := <-w.Errors:
			if !ok {
				return 0
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

func reconcile(b *buffer.Buffer, path string, enc encoding.Encoding, logger *applog.Logger) {
	if b.IsModified() {
		if !b.FlushOutstandingChanges() {
			logger.Warn("reconcile: flush_outstanding_changes rejected, top layer is pinned by a snapshot")
			return
		}
		out, err := encodeFile(b.Text().String(), enc)
		if err != nil {
			logger.Error("reconcile: failed to encode %s: %v", path, err)
			return
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			logger.Error("reconcile: failed to write %s: %v", path, err)
			return
		}
		logger.Info("flushed outstanding changes to %s", path)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("reconcile: failed to read %s: %v", path, err)
		return
	}
	decoded, _, err := decodeFile(data)
	if err != nil {
		logger.Error("reconcile: failed to decode %s: %v", path, err)
		return
	}
	if !b.ResetBaseText(text.FromString(decoded)) {
		logger.Warn("reconcile: reset_base_text rejected, top layer is pinned by a snapshot")
		return
	}
	logger.Info("reset base text from %s", path)
}
