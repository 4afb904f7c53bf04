package schema

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Catalog holds the named schemas found in a descriptor directory.
// It is safe for concurrent use.
type Catalog struct {
	dir    string
	logger *slog.Logger

	mu      sync.RWMutex
	schemas map[string]*Schema
}

// OpenCatalog loads every descriptor file in dir. Files with unknown
// extensions and subdirectories are ignored. A nil logger uses slog.Default().
func OpenCatalog(dir string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{dir: dir, logger: logger}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Dir returns the directory the catalog reads from.
func (c *Catalog) Dir() string {
	return c.dir
}

// Get returns the schema with the given name.
func (c *Catalog) Get(name string) (*Schema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.schemas[name]
	return s, ok
}

// Names returns the loaded schema names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.schemas))
	for name := range c.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload re-reads the directory. On error the previously loaded schemas
// are kept.
func (c *Catalog) Reload() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read schema dir: %w", err)
	}

	loaded := make(map[string]*Schema, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := FormatOf(entry.Name()); !ok {
			continue
		}
		s, err := LoadFile(filepath.Join(c.dir, entry.Name()))
		if err != nil {
			return err
		}
		if _, dup := loaded[s.Name]; dup {
			return fmt.Errorf("%w: schema %q defined more than once in %s", ErrInvalidSchema, s.Name, c.dir)
		}
		loaded[s.Name] = s
	}

	c.mu.Lock()
	c.schemas = loaded
	c.mu.Unlock()

	c.logger.Debug("schema catalog loaded",
		slog.String("dir", c.dir),
		slog.Int("count", len(loaded)))
	return nil
}

// Watch reloads the catalog whenever a descriptor file in the directory is
// written, created, removed or renamed. It blocks until ctx is done and
// returns ctx.Err(). Reload failures are logged and the previous schemas
// stay in place.
func (c *Catalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(c.dir); err != nil {
		return fmt.Errorf("watch %s: %w", c.dir, err)
	}

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if _, ok := FormatOf(event.Name); !ok {
				continue
			}
			if event.Op&relevant == 0 {
				continue
			}
			if err := c.Reload(); err != nil {
				c.logger.Warn("schema catalog reload failed",
					slog.String("file", event.Name),
					slog.Any("error", err))
				continue
			}
			c.logger.Info("schema catalog reloaded",
				slog.String("file", event.Name),
				slog.String("op", event.Op.String()))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("schema watcher error", slog.Any("error", err))
		}
	}
}
