package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"pixvox/internal/logging"
	"pixvox/pkg/voxerr"
)

// settleDelay lets editors finish writing before the image is re-read
const settleDelay = 100 * time.Millisecond

// Watch converts once, then converts again every time the input image is
// written or replaced, until ctx is cancelled. Failed conversions are
// logged and do not stop the watch. onResult, if set, receives the outcome
// of every conversion.
func (c *Converter) Watch(ctx context.Context, onResult func(error)) error {
	report := func(err error) {
		if err != nil {
			logging.Error("conversion failed", "err", err)
		}
		if onResult != nil {
			onResult(err)
		}
	}

	input, err := filepath.Abs(c.cfg.Paths.InputImage)
	if err != nil {
		return voxerr.IO("watch", c.cfg.Paths.InputImage, err, "could not resolve path")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return voxerr.IO("watch", input, err, "could not start file watcher")
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of
	// writing it in place, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return voxerr.IO("watch", input, err, "could not watch directory")
	}

	report(c.Process())
	logging.Info("watching for changes", "path", input)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != input {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				logging.Debug("input changed", "event", event.Op.String())
				pending = time.After(settleDelay)
			}

		case <-pending:
			pending = nil
			report(c.Process())

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("watch error", "err", err)
		}
	}
}
