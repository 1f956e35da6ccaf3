package bench

import "sync"

// Status is a snapshot of sweep progress.
type Status struct {
	RunID    string  `json:"run_id"`
	Written  int     `json:"written"`
	Expected int     `json:"expected"`
	Last     *Record `json:"last,omitempty"`
}

// StatusWriter keeps the latest record for concurrent readers such as the admin server.
type StatusWriter struct {
	mu       sync.RWMutex
	expected int
	written  int
	last     *Record
}

// NewStatusWriter creates a StatusWriter expecting the given number of records.
func NewStatusWriter(expected int) *StatusWriter {
	return &StatusWriter{expected: expected}
}

// Write stores r as the latest record.
func (w *StatusWriter) Write(r Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.written++
	w.last = &r
	return nil
}

// Snapshot returns the current progress.
func (w *StatusWriter) Snapshot() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	st := Status{Written: w.written, Expected: w.expected}
	if w.last != nil {
		last := *w.last
		st.Last = &last
		st.RunID = last.RunID
	}
	return st
}
