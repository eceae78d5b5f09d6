package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/capsulec/internal/shared/codec"
)

// DefaultDebounce coalesces bursts of file events (editors often write a
// file several times per save)
const DefaultDebounce = 250 * time.Millisecond

// Watcher re-seeds the registry whenever catalog files change
type Watcher struct {
	seeder   *Seeder
	debounce time.Duration
	logger   *zap.Logger
	onReload func(*LoadReport, error)
}

// NewWatcher creates a catalog watcher
func NewWatcher(seeder *Seeder) *Watcher {
	return &Watcher{
		seeder:   seeder,
		debounce: DefaultDebounce,
		logger:   seeder.logger,
	}
}

// WithDebounce overrides the event coalescing window
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// OnReload registers a callback invoked after every reload
func (w *Watcher) OnReload(fn func(*LoadReport, error)) *Watcher {
	w.onReload = fn
	return w
}

// Run watches the catalog until ctx is cancelled. A pending reload is
// dropped and a running one is waited for before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.seeder.Dir()); err != nil {
		return err
	}
	w.logger.Info("Watching capsule catalog", zap.String("dir", w.seeder.Dir()))

	// Once Run returns no reload is running and none will start.
	var (
		timerMu  sync.Mutex
		timer    *time.Timer
		stopped  bool
		inflight sync.WaitGroup
	)
	fire := func() {
		timerMu.Lock()
		if stopped {
			timerMu.Unlock()
			return
		}
		inflight.Add(1)
		timerMu.Unlock()

		defer inflight.Done()
		w.reload()
	}
	schedule := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, fire)
	}
	defer func() {
		timerMu.Lock()
		stopped = true
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
		inflight.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(fsw, event.Name); err != nil {
						w.logger.Warn("Failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
					}
					schedule()
					continue
				}
			}
			if w.relevant(event) {
				schedule()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Catalog watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	report, err := w.seeder.Load()
	if err != nil {
		w.logger.Error("Catalog reload failed", zap.Error(err))
	}
	if w.onReload != nil {
		w.onReload(report, err)
	}
}

// relevant filters out editor swap files and other noise
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	_, ok := codec.FormatFromPath(event.Name)
	return ok
}

// addTree watches root and every directory below it
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	var mu sync.Mutex
	dirs := []string{root}

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && p != root {
			mu.Lock()
			dirs = append(dirs, filepath.Clean(p))
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", root, err)
	}

	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return nil
}
