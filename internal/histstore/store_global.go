package histstore

import (
	"fmt"
	"sync"

	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// StoreManager guards the configured history store and degrades to a no-op
// when history tracking was never initialized. It implements the
// HistoryStore interface itself so callers never deal with a nil store.
type StoreManager struct {
	sync.Mutex
	store contract.HistoryStore
}

var _ contract.HistoryStore = &StoreManager{} // Compile-time check

// InitStore initializes the global history store with the given backend.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		store, err := NewHistoryStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize history tracking: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.store = store
	})

	return initErr
}

// GetStore returns the global history store manager.
func GetStore() contract.HistoryStore {
	return Manager
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called from main before exit
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}

// active returns the configured store, or nil when uninitialized.
func (m *StoreManager) active() contract.HistoryStore {
	m.Lock()
	defer m.Unlock()
	return m.store
}

// Append implements the HistoryStore interface.
func (m *StoreManager) Append(record schema.AnalysisRecord) error {
	if store := m.active(); store != nil {
		return store.Append(record)
	}
	return nil
}

// QueryByIdentity implements the HistoryStore interface.
func (m *StoreManager) QueryByIdentity(username string) ([]schema.AnalysisRecord, error) {
	if store := m.active(); store != nil {
		return store.QueryByIdentity(username)
	}
	return nil, nil
}

// QueryAll implements the HistoryStore interface.
func (m *StoreManager) QueryAll() ([]schema.AnalysisRecord, error) {
	if store := m.active(); store != nil {
		return store.QueryAll()
	}
	return nil, nil
}

// Status implements the HistoryStore interface.
func (m *StoreManager) Status() (schema.HistoryStatus, error) {
	if store := m.active(); store != nil {
		return store.Status()
	}
	return schema.HistoryStatus{Connected: false}, nil
}

// Clear implements the HistoryStore interface.
func (m *StoreManager) Clear() error {
	if store := m.active(); store != nil {
		return store.Clear()
	}
	return nil
}

// Close implements the HistoryStore interface.
func (m *StoreManager) Close() error {
	if store := m.active(); store != nil {
		return store.Close()
	}
	return nil
}
