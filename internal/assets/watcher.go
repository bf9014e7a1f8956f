// Package assets watches the on-disk media directory that image and
// video nodes reference through their src styles.
package assets

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"pagecraft/internal/service"
)

// EventAssetChanged is emitted when a referenced media file is written
// or created; the frontend re-resolves the affected src.
const EventAssetChanged = "assets:changed"

// ChangedPayload accompanies EventAssetChanged.
type ChangedPayload struct {
	Path string `json:"path"`
	Kind string `json:"kind"` // "image" or "video"
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true,
}

var videoExts = map[string]bool{
	".mp4": true, ".webm": true, ".mov": true,
}

// Watcher emits change events for media files under the assets root.
// Writes are debounced per path; editors and exporters tend to write
// a file several times in quick succession.
type Watcher struct {
	root    string
	emitter service.EventEmitter

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
}

// NewWatcher creates a Watcher over the given assets root.
func NewWatcher(root string, emitter service.EventEmitter) *Watcher {
	return &Watcher{root: root, emitter: emitter}
}

// Start begins watching the assets root and its subdirectories.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	if err := watcher.Add(w.root); err != nil {
		watcher.Close()
		return err
	}
	entries, _ := os.ReadDir(w.root)
	for _, e := range entries {
		if e.IsDir() {
			if err := watcher.Add(filepath.Join(w.root, e.Name())); err != nil {
				log.Printf("assets watcher: failed to watch dir %q: %v", e.Name(), err)
			}
		}
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	go func() {
		timers := make(map[string]*time.Timer)
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					// New project subdirectory: watch it too.
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := watcher.Add(event.Name); err != nil {
							log.Printf("assets watcher: failed to watch dir %q: %v", event.Name, err)
						}
						continue
					}
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				kind := mediaKind(event.Name)
				if kind == "" {
					continue
				}
				path := event.Name
				if t, exists := timers[path]; exists {
					t.Stop()
				}
				timers[path] = time.AfterFunc(500*time.Millisecond, func() {
					w.emitter.Emit(ctx, EventAssetChanged, ChangedPayload{Path: path, Kind: kind})
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("assets watcher: error: %v", err)
			}
		}
	}()

	return nil
}

// Stop tears the watcher down.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.watcher != nil {
		w.watcher.Close()
		w.watcher = nil
	}
}

// mediaKind classifies a path by extension, "" for non-media files.
func mediaKind(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case imageExts[ext]:
		return "image"
	case videoExts[ext]:
		return "video"
	default:
		return ""
	}
}
