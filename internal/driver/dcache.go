package driver

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"solfront/internal/diag"
	"solfront/internal/observ"
	"solfront/internal/trace"
)

// Bump when Payload changes shape.
const cacheSchemaVersion uint16 = 1

// Cache keeps the diagnostics of analysed units on disk, keyed by a digest
// of the unit's text, its imports and the configuration.
// Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is the cached outcome of one unit.
type Payload struct {
	Schema      uint16
	Path        string
	Imports     []string
	Failed      bool
	Diagnostics []diag.Located
	Timings     *observ.Report
}

// OpenCache uses dir, creating it if needed.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// OpenUserCache opens app's cache under $XDG_CACHE_HOME or ~/.cache.
func OpenUserCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenCache(filepath.Join(base, app))
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "units", hex.EncodeToString(key[:])+".mp")
}

// Put writes payload under key, replacing any previous entry atomically.
func (c *Cache) Put(key Digest, payload *Payload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the payload under key. Entries written with another schema
// are reported as absent.
func (c *Cache) Get(key Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == cacheSchemaVersion, nil
}

// DropAll removes every entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "units"))
}

// cached returns the unit stored under key. Read failures count as misses
// and are traced.
func (s *session) cached(ctx context.Context, key Digest, e *fileEntry) (*Unit, bool) {
	if s.opts.Cache == nil {
		return nil, false
	}
	var p Payload
	ok, err := s.opts.Cache.Get(key, &p)
	if err != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopeUnit, "cache", err.Error(), trace.Parent(ctx))
		return nil, false
	}
	if !ok || p.Path != e.path {
		return nil, false
	}
	return &Unit{
		Path:        p.Path,
		Imports:     p.Imports,
		Failed:      p.Failed,
		Diagnostics: p.Diagnostics,
		Timings:     p.Timings,
		Cached:      true,
	}, true
}

func (s *session) store(ctx context.Context, key Digest, u *Unit) {
	if s.opts.Cache == nil {
		return
	}
	err := s.opts.Cache.Put(key, &Payload{
		Schema:      cacheSchemaVersion,
		Path:        u.Path,
		Imports:     u.Imports,
		Failed:      u.Failed,
		Diagnostics: u.Diagnostics,
		Timings:     u.Timings,
	})
	if err != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopeUnit, "cache", err.Error(), trace.Parent(ctx))
	}
}
