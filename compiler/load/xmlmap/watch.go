package xmlmap

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/strataorm/strata/compiler/load"
)

// debounceWindow coalesces bursts of filesystem events, such as an
// editor writing and renaming a descriptor in quick succession.
const debounceWindow = 100 * time.Millisecond

// Watch observes a descriptor directory and invokes fn with the freshly
// loaded schemas whenever a .xml file changes. It blocks until the
// context is canceled or the watcher fails. Load failures of an
// intermediate state are passed to fn as an error; returning a non-nil
// error from fn stops the watch.
func Watch(ctx context.Context, dir string, fn func([]*load.Schema, error) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".xml" {
				continue
			}
			if !event.Has(fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				defer timer.Stop()
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceWindow)
			}
			pending = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		case <-pending:
			pending = nil
			mappings, err := ParseDir(ctx, dir)
			var schemas []*load.Schema
			if err == nil {
				schemas, err = New(mappings...).Mock()
			}
			if err := fn(schemas, err); err != nil {
				return err
			}
		}
	}
}
