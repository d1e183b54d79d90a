package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when StampPayload format changes
const stampCacheSchemaVersion uint16 = 1

// StampCache remembers documents that a pass already found clean, keyed by
// (pass, content hash, settings fingerprint). It never stores content.
// Safe for concurrent use.
type StampCache struct {
	mu  sync.RWMutex
	dir string
}

// StampPayload is the on-disk record for one clean document.
type StampPayload struct {
	Schema      uint16    `msgpack:"schema"`
	Pass        string    `msgpack:"pass"`
	Path        string    `msgpack:"path"`
	ContentHash [32]byte  `msgpack:"content_hash"`
	Fingerprint string    `msgpack:"fingerprint"`
	StoredAt    time.Time `msgpack:"stored_at"`
}

// DefaultCacheDir returns $XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenStampCache initializes a cache rooted at dir.
func OpenStampCache(dir string) (*StampCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("stamp cache: %w", err)
	}
	return &StampCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *StampCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func stampKey(pass Stage, hash [32]byte, fingerprint string) string {
	h := sha256.New()
	h.Write([]byte(pass))
	h.Write([]byte{0})
	h.Write(hash[:])
	h.Write([]byte(fingerprint))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *StampCache) pathFor(key string) string {
	// подкаталог по первым двум символам, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "stamps", key[:2], key+".mp")
}

// MarkClean records that pass produced no edits for the given content.
func (c *StampCache) MarkClean(pass Stage, path string, hash [32]byte, fingerprint string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(stampKey(pass, hash, fingerprint))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	payload := &StampPayload{
		Schema:      stampCacheSchemaVersion,
		Pass:        string(pass),
		Path:        path,
		ContentHash: hash,
		Fingerprint: fingerprint,
		StoredAt:    time.Now().UTC(),
	}
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()      //nolint:errcheck
		_ = os.Remove(tmp) //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp) //nolint:errcheck
		return err
	}
	return os.Rename(tmp, p)
}

// IsClean reports whether a matching stamp exists. Unreadable or stale-schema
// stamps count as a miss.
func (c *StampCache) IsClean(pass Stage, hash [32]byte, fingerprint string) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(stampKey(pass, hash, fingerprint)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	var payload StampPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return false, nil
	}
	if payload.Schema != stampCacheSchemaVersion || payload.ContentHash != hash ||
		payload.Fingerprint != fingerprint || payload.Pass != string(pass) {
		return false, nil
	}
	return true, nil
}

// DropAll removes every stamp.
func (c *StampCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := filepath.Join(c.dir, "stamps.old-"+time.Now().Format("20060102150405"))
	if err := os.Rename(filepath.Join(c.dir, "stamps"), old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
