// Package watcher watches a deck file and publishes a debounced event when
// its contents change.
package watcher

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/podium/internal/log"
	"github.com/zjrosen/podium/internal/pubsub"
)

// EventType distinguishes watcher notifications.
type EventType int

const (
	// DeckChanged means the deck file was written and should be reloaded.
	DeckChanged EventType = iota
	// WatchError carries an fsnotify error.
	WatchError
)

// Event is published on the watcher's broker.
type Event struct {
	Type  EventType
	Path  string
	Error error
}

// Config holds watcher configuration options.
type Config struct {
	Path        string
	DebounceDur time.Duration
}

// DefaultConfig returns the debounce used by the presenter.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		DebounceDur: 250 * time.Millisecond,
	}
}

// Watcher reports changes to a single deck file. Saves that leave the
// bytes unchanged (touch, editor autosave) are not reported.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	name     string
	debounce time.Duration
	broker   *pubsub.Broker[Event]

	mu     sync.Mutex
	timer  *time.Timer
	digest [sha256.Size]byte
	done   chan struct{}
	stop   sync.Once
}

// New creates a watcher for cfg.Path. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		path:     cfg.Path,
		name:     filepath.Base(cfg.Path),
		debounce: cfg.DebounceDur,
		broker:   pubsub.NewBroker[Event](),
		done:     make(chan struct{}),
	}
	w.digest, _ = fileDigest(cfg.Path)
	return w, nil
}

// Start watches the deck's directory. Editors that save by renaming a temp
// file over the deck replace the inode, which a file watch would lose.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	log.Debug(log.CatWatcher, "watching", "path", w.path, "debounce", w.debounce)

	go w.run()
	return nil
}

// Broker publishes DeckChanged and WatchError events.
func (w *Watcher) Broker() *pubsub.Broker[Event] {
	return w.broker
}

// Stop terminates the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stop.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.fsw.Close()
		w.broker.Close()
	})
	return err
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "watch error", err, "path", w.path)
			w.broker.Publish(pubsub.UpdatedEvent, Event{Type: WatchError, Path: w.path, Error: err})
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Base(ev.Name) == w.name
}

// schedule restarts the debounce window.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	select {
	case <-w.done:
		return
	default:
	}

	sum, err := fileDigest(w.path)
	if err != nil {
		// Mid-rename; the Create that follows reschedules.
		log.Debug(log.CatWatcher, "deck unreadable", "path", w.path, "error", err)
		return
	}

	w.mu.Lock()
	same := sum == w.digest
	w.digest = sum
	w.mu.Unlock()
	if same {
		log.Debug(log.CatWatcher, "deck unchanged", "path", w.path)
		return
	}

	log.Debug(log.CatWatcher, "deck changed", "path", w.path)
	w.broker.Publish(pubsub.UpdatedEvent, Event{Type: DeckChanged, Path: w.path})
}

func fileDigest(path string) ([sha256.Size]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [sha256.Size]byte{}, err
	}
	return sha256.Sum256(data), nil
}
