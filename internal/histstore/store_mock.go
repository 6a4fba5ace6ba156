package histstore

import (
	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// Append implements the HistoryStore interface.
func (m *MockHistoryStore) Append(record schema.AnalysisRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

// QueryByIdentity implements the HistoryStore interface.
func (m *MockHistoryStore) QueryByIdentity(username string) ([]schema.AnalysisRecord, error) {
	args := m.Called(username)
	records, _ := args.Get(0).([]schema.AnalysisRecord)
	return records, args.Error(1)
}

// QueryAll implements the HistoryStore interface.
func (m *MockHistoryStore) QueryAll() ([]schema.AnalysisRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.AnalysisRecord)
	return records, args.Error(1)
}

// Status implements the HistoryStore interface.
func (m *MockHistoryStore) Status() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Clear implements the HistoryStore interface.
func (m *MockHistoryStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
