package bench

import (
	"fmt"
	"io"
	"os"
)

// CSVWriter streams the report as comma separated lines.
type CSVWriter struct {
	out io.Writer
}

// NewCSVWriter creates a CSVWriter writing to os.Stdout.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{out: os.Stdout}
}

// NewCSVWriterTo creates a CSVWriter writing to out.
func NewCSVWriterTo(out io.Writer) *CSVWriter {
	return &CSVWriter{out: out}
}

// WriteHeader outputs the column header line.
func (w *CSVWriter) WriteHeader() error {
	_, err := fmt.Fprintln(w.out, Header)
	return err
}

// Write outputs one data line.
func (w *CSVWriter) Write(r Record) error {
	_, err := fmt.Fprintln(w.out, r.CSVLine())
	return err
}
