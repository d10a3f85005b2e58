package sheets

import (
	"context"
	"sync"
)

// MockWriter records workbooks instead of rendering them.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, wb *Workbook) error
	LastWorkbook   *Workbook
	WriteCalls     []WriteCall
	WriteCallCount int
	mu             sync.Mutex
}

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error    error
	Workbook *Workbook
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write records the workbook and returns WriteFunc's result, if set.
func (m *MockWriter) Write(ctx context.Context, wb *Workbook) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++
	m.LastWorkbook = wb

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, wb)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{Workbook: wb, Error: err})
	return err
}

// Reset clears all recorded calls.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount = 0
	m.WriteCalls = make([]WriteCall, 0)
	m.LastWorkbook = nil
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError makes every following Write return err.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(context.Context, *Workbook) error {
		return err
	}
}
