package studio

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the default debounce interval for file watch events.
const DefaultWatchDebounce = 500 * time.Millisecond

// presetWatcher reloads a preset file after it changes on disk.
type presetWatcher struct {
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration
	reload   func() error
	onError  func(error)
}

// newPresetWatcher watches the directory holding path, so editors that
// save by renaming a temp file over the preset are still seen.
func newPresetWatcher(path string, debounce time.Duration, reload func() error, onError func(error)) (*presetWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve preset path: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &presetWatcher{
		fsw:      fsw,
		path:     abs,
		debounce: debounce,
		reload:   reload,
		onError:  onError,
	}, nil
}

// run handles events until ctx is done, then closes the watcher.
func (pw *presetWatcher) run(ctx context.Context) {
	defer pw.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-pw.fsw.Events:
			if !ok {
				return
			}
			if !pw.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(pw.debounce)
			} else {
				timer.Reset(pw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := pw.reload(); err != nil && pw.onError != nil {
				pw.onError(err)
			}

		case err, ok := <-pw.fsw.Errors:
			if !ok {
				return
			}
			if pw.onError != nil {
				pw.onError(fmt.Errorf("watch %s: %w", pw.path, err))
			}
		}
	}
}

func (pw *presetWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		name = ev.Name
	}
	return name == pw.path
}
