// Package factory builds configured storage services: a primary backend,
// an optional fallback, and a process-wide cached instance the hosting
// application can opt into.
package factory

import (
	"fmt"
	"sync"

	"github.com/polyglottos/dataport/internal/storage"
	"github.com/polyglottos/dataport/internal/storage/cloud"
	"github.com/polyglottos/dataport/internal/storage/local"
)

// NewService builds the primary backend named by cfg.Type and, when
// cfg.FallbackType names a different backend, composes the two through a
// FallbackService. Unknown types fail fast.
func NewService(cfg storage.Config) (storage.Service, error) {
	primary, err := newBackend(cfg.Type, cfg)
	if err != nil {
		return nil, err
	}

	var secondary storage.Service
	if cfg.FallbackType != "" && cfg.FallbackType != cfg.Type {
		secondary, err = newBackend(cfg.FallbackType, cfg)
		if err != nil {
			return nil, err
		}
	}

	return storage.NewFallbackService(primary, secondary), nil
}

func newBackend(t storage.Type, cfg storage.Config) (storage.Service, error) {
	switch t {
	case storage.TypeLocal:
		return local.New(cfg.DatabasePath)
	case storage.TypeCloud:
		return cloud.New(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %q", t)
	}
}

var (
	mu       sync.Mutex
	instance storage.Service
)

// Instance returns the process-wide storage service, building it from cfg
// on first use. Later calls return the cached instance regardless of cfg.
func Instance(cfg storage.Config) (storage.Service, error) {
	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		return instance, nil
	}
	svc, err := NewService(cfg)
	if err != nil {
		return nil, err
	}
	instance = svc
	return instance, nil
}

// ResetInstance drops the cached instance. Intended for test isolation.
func ResetInstance() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}
