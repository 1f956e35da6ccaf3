package bench

// RecordWriter is an interface to support different report sinks.
type RecordWriter interface {
	Write(Record) error
}

// HeaderWriter is implemented by sinks that emit something once before the first record.
type HeaderWriter interface {
	WriteHeader() error
}

// Optional: writers can also support batch mode
type batchWriter interface {
	WriteBatch([]Record) error
}

// writeHeader calls WriteHeader when w supports it.
func writeHeader(w RecordWriter) error {
	if hw, ok := w.(HeaderWriter); ok {
		return hw.WriteHeader()
	}
	return nil
}

// writeBatch uses WriteBatch when w supports it and falls back to Write per record.
func writeBatch(w RecordWriter, rows []Record) error {
	if bw, ok := w.(batchWriter); ok {
		return bw.WriteBatch(rows)
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}
