package importing

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceSecs = 2

// Watcher monitors the import drop directory and queues a csv_import job for
// every CSV file that lands in it.
type Watcher struct {
	watcher   *fsnotify.Watcher
	service   *Service
	watchPath string
	stopChan  chan struct{}
	stopOnce  sync.Once

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher creates a new drop directory watcher.
func NewWatcher(service *Service) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  watcher,
		service:  service,
		stopChan: make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Start begins watching the drop directory.
func (w *Watcher) Start(ctx context.Context, watchPath string) error {
	w.watchPath = watchPath
	slog.Info("Starting import watcher", "path", watchPath)

	if err := w.watcher.Add(watchPath); err != nil {
		return err
	}

	go w.watchLoop(ctx)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()
	})
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if strings.ToLower(filepath.Ext(event.Name)) != ".csv" {
				continue
			}
			w.debounce(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Import watcher error", "error", err)
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.stopChan:
			return
		}
	}
}

// debounce coalesces the create/write burst a file copy produces into one
// import job per file.
func (w *Watcher) debounce(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.timers[path]; ok {
		timer.Reset(debounceSecs * time.Second)
		return
	}
	w.timers[path] = time.AfterFunc(debounceSecs*time.Second, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		slog.Info("CSV file detected in drop directory", "path", path)
		if _, err := w.service.StartImportJob(path); err != nil {
			slog.Error("Failed to queue import for dropped file", "path", path, "error", err)
		}
	})
}
