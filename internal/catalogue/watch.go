package catalogue

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"compgrip/internal/eventbus"
)

// WatchService republishes a local component list whenever it is rewritten
type WatchService interface {
	Start(ctx context.Context, path string) error
	Stop()
}

type watchService struct {
	bus      eventbus.EventBus
	loader   Loader
	debounce time.Duration

	mu         sync.Mutex
	isWatching bool
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewWatchService creates a watcher that publishes CatalogueChanged events on bus
func NewWatchService(bus eventbus.EventBus, loader Loader) WatchService {
	return &watchService{
		bus:      bus,
		loader:   loader,
		debounce: 150 * time.Millisecond,
	}
}

// Start watches path until ctx is cancelled or Stop is called
func (ws *watchService) Start(ctx context.Context, path string) error {
	if IsRemote(path) {
		return fmt.Errorf("cannot watch remote component list %s", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	ws.mu.Lock()
	if ws.isWatching {
		ws.mu.Unlock()
		return fmt.Errorf("watch already in progress")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		ws.mu.Unlock()
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// Editors replace files on save, so the directory is watched rather than the file
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		ws.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	ws.cancelFunc = cancel
	ws.isWatching = true
	ws.mu.Unlock()

	log.Printf("Watching component list %s", abs)

	ws.wg.Add(1)
	go func() {
		defer ws.wg.Done()
		defer watcher.Close()
		defer func() {
			ws.mu.Lock()
			ws.isWatching = false
			ws.cancelFunc = nil
			ws.mu.Unlock()
		}()

		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-watchCtx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Component list watcher error: %v", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != abs {
					continue
				}
				if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(ws.debounce, func() {
					ws.reload(watchCtx, abs)
				})
			}
		}
	}()

	return nil
}

// Stop cancels the running watch and waits for it to exit
func (ws *watchService) Stop() {
	ws.mu.Lock()
	cancel := ws.cancelFunc
	ws.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	ws.wg.Wait()
}

func (ws *watchService) reload(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	cat, err := ws.loader.Load(ctx, path)
	if err != nil {
		log.Printf("Failed to reload component list %s: %v", path, err)
		ws.bus.Publish(eventbus.ErrorEvent{Message: "Component list reload failed", Err: err})
		return
	}
	ws.bus.Publish(eventbus.CatalogueChangedEvent{Source: path, Catalogue: cat})
}
