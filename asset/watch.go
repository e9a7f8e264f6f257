package asset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Settle is how long a file must stay untouched before its change is reported.
const Settle = 100 * time.Millisecond

// Watcher reports asset files that changed on disk. Events carries paths
// relative to the watched root, using forward slashes. A path is reported once
// writes to it have been quiet for Settle, so a file saved in several flushes
// is only reported when complete. Subdirectories are watched too, including
// ones created later.
type Watcher struct {
	root       string
	extensions map[string]bool
	watcher    *fsnotify.Watcher
	Events     chan string
	Errors     chan error
	closeCh    chan struct{}
	done       chan struct{}
	once       sync.Once
}

// NewWatcher watches root for changes to files with one of the given extensions.
// With no extensions every file is reported.
func NewWatcher(root string, extensions ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	if err := addTree(w, root); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}

	watcher := &Watcher{
		root:       root,
		extensions: exts,
		watcher:    w,
		Events:     make(chan string, 16),
		Errors:     make(chan error, 1),
		closeCh:    make(chan struct{}),
		done:       make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// addTree watches dir and every directory below it.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.Add(name)
	})
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Drain returns every change queued since the last call without blocking.
func (w *Watcher) Drain() []string {
	var changed []string
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return changed
			}
			changed = append(changed, name)
		default:
			return changed
		}
	}
}

func (w *Watcher) run() {
	defer close(w.done)

	pending := make(map[string]*time.Timer)
	settled := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(w.watcher, event.Name); err != nil {
						w.report(err)
					}
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !w.wants(event.Name) {
				continue
			}

			name := event.Name
			if t, ok := pending[name]; ok {
				t.Reset(Settle)
				continue
			}
			pending[name] = time.AfterFunc(Settle, func() {
				select {
				case settled <- name:
				case <-w.closeCh:
				}
			})
		case name := <-settled:
			delete(pending, name)
			rel, err := filepath.Rel(w.root, name)
			if err != nil {
				continue
			}
			select {
			case w.Events <- filepath.ToSlash(rel):
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) report(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}

func (w *Watcher) wants(name string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	return w.extensions[strings.ToLower(filepath.Ext(name))]
}
