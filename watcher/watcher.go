// Package watcher re-encodes a resolved file whenever it changes.
//
// A Watcher runs the same three-place search as the Encoder it wraps and
// reports the data URI again each time the selected file is written, or
// when another candidate appears and takes precedence.
//
// Basic usage:
//
//	w, err := watcher.New(datauri.New()).
//	    WithDebounce(50 * time.Millisecond).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
//	updates, err := w.Watch(ctx, "img/logo.png", rc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for u := range updates {
//	    if u.Err != nil {
//	        log.Println(u.Err)
//	        continue
//	    }
//	    fmt.Println(u.URI)
//	}
//
// # Watch Mechanisms
//
//  1. File system watching (fsnotify) on the directories of all candidates
//  2. Periodic polling, for filesystems without change notification
//
// fsnotify observes the OS filesystem, so the Encoder should read from it too.
//
// # Thread Safety
//
// The Watcher is safe for concurrent use. The updates channel should be
// consumed by a single goroutine.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/arloliu/datauri"
	"github.com/arloliu/datauri/internal/resolver"
	"github.com/fsnotify/fsnotify"
)

// Update is one emission of a Watcher.
type Update struct {
	URI  string // data URI, empty when Err is set
	Path string // selected candidate path
	Err  error
}

// Watcher monitors a resolved path and emits updates when its data URI changes.
type Watcher struct {
	enc         *datauri.Encoder
	config      watcherConfig
	stopChan    chan struct{}
	doneChan    chan struct{}
	updatesChan chan Update
	mu          sync.Mutex
	running     bool
	lastURI     string
	lastErr     string
}

// session holds the channels of one Watch call.
type session struct {
	stop    chan struct{}
	done    chan struct{}
	updates chan Update
}

// watcherConfig holds internal configuration for the watcher.
type watcherConfig struct {
	pollInterval     time.Duration
	debounceInterval time.Duration
}

// defaultPollInterval is the default polling interval.
const defaultPollInterval = 30 * time.Second

// defaultDebounceInterval prevents rapid successive re-encodes.
const defaultDebounceInterval = 100 * time.Millisecond

// Watch encodes rawPath once and starts watching for changes.
// The first value on the returned channel is the initial data URI; an
// initial failure is returned as the error instead.
//
// The channel is closed when Stop is called or ctx is done.
func (w *Watcher) Watch(ctx context.Context, rawPath string, rc datauri.Context) (<-chan Update, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil, &WatcherError{Message: "watcher is already running"}
	}

	res, err := w.enc.Load(ctx, rawPath, rc)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &WatcherError{Message: "failed to create fs watcher", Err: err}
	}

	targets := make(map[string]struct{})
	dirs := make(map[string]struct{})
	for _, c := range resolver.Candidates(rawPath, rc.ViewDir, rc.AppRoot) {
		p := filepath.Clean(c.Path)
		targets[p] = struct{}{}
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		// Directories that do not exist cannot be watched; polling covers them.
		_ = fsWatcher.Add(dir)
	}

	w.lastURI = res.String()
	w.lastErr = ""
	w.running = true
	w.updatesChan = make(chan Update, 1)
	w.stopChan = make(chan struct{})
	w.doneChan = make(chan struct{})

	w.updatesChan <- Update{URI: w.lastURI, Path: res.Path}

	chans := session{stop: w.stopChan, done: w.doneChan, updates: w.updatesChan}
	go w.watchLoop(ctx, fsWatcher, targets, rawPath, rc, chans)

	return w.updatesChan, nil
}

// Stop gracefully stops the watcher.
// It closes the updates channel and releases resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopChan, doneChan := w.stopChan, w.doneChan
	w.mu.Unlock()

	close(stopChan)
	<-doneChan // Wait for watchLoop to finish
}

// watchLoop is the main watch loop that monitors for changes.
// The running flag is cleared on exit so the Watcher can be reused after ctx is done.
func (w *Watcher) watchLoop(ctx context.Context, fsWatcher *fsnotify.Watcher, targets map[string]struct{}, rawPath string, rc datauri.Context, chans session) {
	stopChan, updatesChan := chans.stop, chans.updates
	defer func() {
		w.mu.Lock()
		if w.stopChan == stopChan {
			w.running = false
		}
		w.mu.Unlock()
	}()
	defer close(chans.done)
	defer close(updatesChan)
	defer fsWatcher.Close()

	fsChan := fsWatcher.Events
	errChan := fsWatcher.Errors

	pollTicker := time.NewTicker(w.config.pollInterval)
	defer pollTicker.Stop()

	// Debounce timer to prevent rapid successive re-encodes
	var debounceTimer *time.Timer
	var debounceChan <-chan time.Time

	reload := func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.NewTimer(w.config.debounceInterval)
		debounceChan = debounceTimer.C
	}

	for {
		select {
		case <-stopChan:
			return

		case <-ctx.Done():
			return

		case event, ok := <-fsChan:
			if !ok {
				fsChan = nil
				continue
			}
			if _, watched := targets[filepath.Clean(event.Name)]; !watched {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				reload()
			}

		case _, ok := <-errChan:
			if !ok {
				errChan = nil
			}

		case <-pollTicker.C:
			reload()

		case <-debounceChan:
			debounceChan = nil
			update, changed := w.reencode(ctx, rawPath, rc)
			if !changed {
				continue
			}
			select {
			case updatesChan <- update:
			case <-stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

// reencode encodes again and reports whether the outcome differs from the
// last emitted one. Repeated identical errors are reported once.
func (w *Watcher) reencode(ctx context.Context, rawPath string, rc datauri.Context) (Update, bool) {
	res, err := w.enc.Load(ctx, rawPath, rc)
	if err != nil {
		if ctx.Err() != nil || err.Error() == w.lastErr {
			return Update{}, false
		}
		w.lastErr = err.Error()
		w.lastURI = ""

		return Update{Err: err}, true
	}

	w.lastErr = ""
	uri := res.String()
	if uri == w.lastURI {
		return Update{}, false
	}
	w.lastURI = uri

	return Update{URI: uri, Path: res.Path}, true
}

// WatcherError represents a watcher-specific error.
type WatcherError struct {
	Message string
	Err     error
}

func (e *WatcherError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *WatcherError) Unwrap() error {
	return e.Err
}
