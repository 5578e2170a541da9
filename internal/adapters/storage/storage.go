// Package storage provides the key-value backends that persist the quote
// snapshot: an in-process map, a directory of JSON files, and SQLite.
package storage

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/jsamuelsen/quotebook/internal/platform/config"
	"github.com/jsamuelsen/quotebook/internal/ports"
)

// checkerName is the health check name shared by every backend.
const checkerName = "storage"

// ErrInvalidKey is returned for keys that are not usable as file names or row ids.
var ErrInvalidKey = errors.New("invalid storage key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// Store is a key-value backend that can report its health and be closed.
type Store interface {
	ports.KeyValueStore
	ports.HealthChecker
	io.Closer
}

// Open builds the backend selected by cfg.Backend.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.StorageMemory:
		return NewMemory(), nil
	case config.StorageFile:
		return NewFile(cfg.Path)
	case config.StorageSQLite:
		return OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return nil
}
