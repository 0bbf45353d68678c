package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// File persists best times in a YAML document of key → duration string
// ("1m10s"). The whole document is rewritten on every write.
type File struct {
	path string

	mu     sync.Mutex
	values map[string]time.Duration
}

type fileDoc struct {
	BestTimes map[string]time.Duration `yaml:"best_times"`
}

// OpenFile loads path. A missing file starts empty and is created on first write.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, values: make(map[string]time.Duration)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}

	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	for k, v := range doc.BestTimes {
		f.values[k] = v
	}
	return f, nil
}

func (f *File) ReadDuration(_ context.Context, key string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.values[key]
	if !ok {
		return 0, ErrNotFound
	}
	return d, nil
}

func (f *File) WriteDuration(_ context.Context, key string, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.values[key]
	f.values[key] = d
	if err := f.flushLocked(); err != nil {
		if had {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

// LoadAll returns a copy of every stored value.
func (f *File) LoadAll(_ context.Context) (map[string]time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]time.Duration, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out, nil
}

// flushLocked writes to a temp file and renames it over the target.
func (f *File) flushLocked() error {
	data, err := yaml.Marshal(fileDoc{BestTimes: f.values})
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings dir %s: %w", dir, err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing settings %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing settings %s: %w", f.path, err)
	}
	return nil
}
