package bench

import (
	"errors"
	"io"
)

// MultiWriter fan-outs records to multiple writers.
type MultiWriter struct {
	writers []RecordWriter
}

// NewMultiWriter creates a new MultiWriter. Nil entries are skipped.
func NewMultiWriter(ws ...RecordWriter) *MultiWriter {
	mw := &MultiWriter{}
	for _, w := range ws {
		if w != nil {
			mw.writers = append(mw.writers, w)
		}
	}
	return mw
}

// Add appends another writer.
func (mw *MultiWriter) Add(w RecordWriter) {
	if w != nil {
		mw.writers = append(mw.writers, w)
	}
}

// Len returns the number of writers.
func (mw *MultiWriter) Len() int { return len(mw.writers) }

// WriteHeader forwards the header to every writer that supports it.
func (mw *MultiWriter) WriteHeader() error {
	for _, w := range mw.writers {
		if err := writeHeader(w); err != nil {
			return err
		}
	}
	return nil
}

// Write sends a record to all writers.
func (mw *MultiWriter) Write(r Record) error {
	for _, w := range mw.writers {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple records to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []Record) error {
	for _, w := range mw.writers {
		if err := writeBatch(w, rows); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every writer implementing io.Closer and joins their errors.
func (mw *MultiWriter) Close() error {
	var errs []error
	for _, w := range mw.writers {
		if c, ok := w.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
