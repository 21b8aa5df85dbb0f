package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// DirMedium persists one JSON file per key under a directory. This is
// the durable default: entries survive a full restart of the process.
type DirMedium struct {
	dir string
}

func NewDirMedium(dir string) (*DirMedium, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirMedium{dir: dir}, nil
}

func (m *DirMedium) Read(_ context.Context, key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(m.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (m *DirMedium) Write(_ context.Context, key string, value []byte) error {
	return os.WriteFile(m.path(key), value, 0o644)
}

// path maps a logical key onto a file name. Keys are built from coin
// ids, currencies and numbers, but anything outside the safe set is
// flattened just in case.
func (m *DirMedium) path(key string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(m.dir, sanitized+".json")
}
