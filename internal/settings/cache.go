package settings

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Cache holds the current settings value and keeps it fresh by watching the
// slot file for changes. It stands in for the storage change listener the
// capture pipeline relies on: a saved settings value takes effect without a
// restart.
type Cache struct {
	store   *Store
	log     logrus.FieldLogger
	watcher *fsnotify.Watcher

	mu      sync.RWMutex
	current Settings

	done chan struct{}
}

// NewCache loads the current value and starts watching the slot's directory.
// Watching the directory rather than the file survives the atomic
// rename performed by Store.Save.
func NewCache(store *Store, log logrus.FieldLogger) (*Cache, error) {
	current, err := store.Load()
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(store.Path())); err != nil {
		watcher.Close()
		return nil, err
	}

	c := &Cache{
		store:   store,
		log:     log,
		watcher: watcher,
		current: current,
		done:    make(chan struct{}),
	}
	go c.run()
	return c, nil
}

// Current returns the most recently loaded settings value.
func (c *Cache) Current() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Refresh re-reads the slot immediately. Used after in-process saves so
// callers observe their own writes without waiting on the watcher.
func (c *Cache) Refresh() error {
	cfg, err := c.store.Load()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.current = cfg
	c.mu.Unlock()
	return nil
}

// Close stops the watcher goroutine.
func (c *Cache) Close() error {
	close(c.done)
	return c.watcher.Close()
}

func (c *Cache) run() {
	for {
		select {
		case <-c.done:
			return
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != FileName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := c.Refresh(); err != nil {
				c.log.WithError(err).Warn("failed to reload settings")
				continue
			}
			c.log.WithField("enabled", c.Current().Enabled).Debug("settings reloaded")
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.log.WithError(err).Warn("settings watcher error")
		}
	}
}
