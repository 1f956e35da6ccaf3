package bench

import (
	"encoding/json"
	"os"
)

// FileWriter writes records to a JSONL file that ReplayLog can read back.
type FileWriter struct {
	path string
	file *os.File
	enc  *json.Encoder
}

// NewFileWriter creates (or truncates) path.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileWriter{path: path, file: f, enc: json.NewEncoder(f)}, nil
}

// Path returns the file location.
func (f *FileWriter) Path() string { return f.path }

// Write logs a single record.
func (f *FileWriter) Write(r Record) error {
	return f.enc.Encode(r)
}

// WriteBatch logs multiple records.
func (f *FileWriter) WriteBatch(rows []Record) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (f *FileWriter) Close() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}
