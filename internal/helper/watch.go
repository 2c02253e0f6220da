package helper

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// binaryWatcher restarts the connection when the installed executable is
// replaced, e.g. by a rebuild from another process.
type binaryWatcher struct {
	fs     *fsnotify.Watcher
	done   chan struct{}
	closed sync.Once
}

// WatchBinary watches the configured executable's directory and restarts
// the helper whenever the binary is rewritten. The watch lives until Stop
// or UnwatchBinary.
func (c *Conn) WatchBinary() error {
	c.mu.Lock()
	if c.watcher != nil {
		c.mu.Unlock()
		return nil
	}
	path := c.execPath
	c.mu.Unlock()

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fs.Add(filepath.Dir(path)); err != nil {
		_ = fs.Close()
		return err
	}

	w := &binaryWatcher{fs: fs, done: make(chan struct{})}
	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()

	base := filepath.Base(path)
	go func() {
		for {
			select {
			case <-w.done:
				return
			case ev, ok := <-fs.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
					_ = c.Restart("")
				}
			case _, ok := <-fs.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}

// UnwatchBinary stops the binary watch, leaving the connection running.
func (c *Conn) UnwatchBinary() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()
	if w != nil {
		w.close()
	}
}

func (w *binaryWatcher) close() {
	w.closed.Do(func() {
		close(w.done)
		_ = w.fs.Close()
	})
}
