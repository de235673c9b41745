package ebv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads an overlay store. Files ending in .yaml or .yml are parsed as
// YAML, everything else as JSON.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return FromFile(file)
}

type cachedStore struct {
	modTime time.Time
	size    int64
	store   *Store
}

var overlayCache = struct {
	sync.Mutex
	stores map[string]cachedStore
}{stores: make(map[string]cachedStore)}

// EnsureLoaded returns the overlay at path, reusing the store loaded earlier
// while the file's size and modification time are unchanged.
func EnsureLoaded(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("empty enumeration overlay path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("enumeration overlay path %s is a directory", path)
	}
	overlayCache.Lock()
	defer overlayCache.Unlock()
	if c, ok := overlayCache.stores[abs]; ok && c.size == info.Size() && c.modTime.Equal(info.ModTime()) {
		return c.store, nil
	}
	store, err := Load(abs)
	if err != nil {
		return nil, err
	}
	overlayCache.stores[abs] = cachedStore{modTime: info.ModTime(), size: info.Size(), store: store}
	return store, nil
}
