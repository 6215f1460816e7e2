package load

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is a cached set of loaded schemas, keyed by a fingerprint of
// the sources they were loaded from. Loading schema descriptors is cheap
// for a single file but adds up for large mapping sets, so the CLI keeps
// the last loaded state on disk and skips reloading when nothing changed.
type Snapshot struct {
	Fingerprint string    `msgpack:"fingerprint"`
	CreatedAt   time.Time `msgpack:"created_at"`
	Schemas     []*Schema `msgpack:"schemas"`
}

// Cache is a directory-backed snapshot store.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at the given directory. The directory
// is created on first Store.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Fingerprint returns the cache key of the given source contents. The
// inputs are hashed in sorted order so the key is independent of file
// discovery order.
func Fingerprint(sources map[string][]byte) string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	h := sha256.New()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write(sources[name])
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Load returns the snapshot stored under the given fingerprint. The
// boolean report is false on a cache miss.
func (c *Cache) Load(fingerprint string) (*Snapshot, bool, error) {
	buf, err := os.ReadFile(c.path(fingerprint))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	snap := &Snapshot{}
	if err := msgpack.Unmarshal(buf, snap); err != nil {
		// A corrupted entry is treated as a miss and overwritten
		// on the next Store.
		return nil, false, nil
	}
	if snap.Fingerprint != fingerprint {
		return nil, false, nil
	}
	return snap, true, nil
}

// Store writes the given schemas under the fingerprint.
func (c *Cache) Store(fingerprint string, schemas []*Schema) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("load: create cache dir: %w", err)
	}
	buf, err := msgpack.Marshal(&Snapshot{
		Fingerprint: fingerprint,
		CreatedAt:   time.Now().UTC(),
		Schemas:     schemas,
	})
	if err != nil {
		return fmt.Errorf("load: encode snapshot: %w", err)
	}
	return os.WriteFile(c.path(fingerprint), buf, 0o644)
}

// Invalidate removes the snapshot stored under the fingerprint, if any.
func (c *Cache) Invalidate(fingerprint string) error {
	err := os.Remove(c.path(fingerprint))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *Cache) path(fingerprint string) string {
	return filepath.Join(c.dir, fingerprint+".snapshot")
}
