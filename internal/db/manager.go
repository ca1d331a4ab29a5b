package db

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Manager owns the single store shared by every request. The store is
// opened on first use; concurrent first callers share one dial. A failed
// dial is not remembered, so the next call tries again.
type Manager struct {
	uri    string
	dial   DialFunc
	logger *zap.Logger

	mu     sync.RWMutex
	store  Store
	closed bool
	group  singleflight.Group
}

func NewManager(uri string, dial DialFunc, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{uri: uri, dial: dial, logger: logger}
}

// Store returns the shared store, connecting if needed.
func (m *Manager) Store(ctx context.Context) (Store, error) {
	s, closed := m.state()
	if s != nil {
		return s, nil
	}
	if closed {
		return nil, ErrManagerClosed
	}
	if m.uri == "" {
		return nil, ErrNotConfigured
	}

	v, err, _ := m.group.Do("connect", func() (interface{}, error) {
		if s, _ := m.state(); s != nil {
			return s, nil
		}
		// The dial outlives the request that happened to start it.
		s, err := m.dial(context.WithoutCancel(ctx), m.uri)
		if err != nil {
			m.logger.Error("database connect failed", zap.Error(err))
			return nil, &ConnectionError{Err: err}
		}
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			_ = s.Close(context.WithoutCancel(ctx))
			return nil, ErrManagerClosed
		}
		m.store = s
		m.mu.Unlock()
		m.logger.Info("database connected")
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Store), nil
}

// Close releases the store if one was opened. A connect still in flight
// closes its store as soon as it completes, and later calls to Store fail.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	s := m.store
	m.store = nil
	m.closed = true
	m.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Close(ctx)
}

func (m *Manager) state() (Store, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store, m.closed
}
