package bench

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// replayBatchSize bounds the records handed to WriteBatch when replaying without pacing.
const replayBatchSize = 100

// ReplayLog replays records from r to writer. A speed >0 reproduces the original spacing
// between record timestamps divided by speed. If speed <= 0, no artificial delay is inserted
// and records are written in batches. The header is emitted first when writer supports it.
func ReplayLog(r io.Reader, writer RecordWriter, speed float64) (int, error) {
	if err := writeHeader(writer); err != nil {
		return 0, err
	}
	dec := json.NewDecoder(r)
	var (
		prev    time.Time
		pending []Record
		n       int
	)
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if err := writeBatch(writer, pending); err != nil {
			return err
		}
		n += len(pending)
		pending = nil
		return nil
	}
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if ferr := flush(); ferr != nil {
				return n, ferr
			}
			if err == io.EOF {
				return n, nil
			}
			return n, err
		}
		if speed <= 0 {
			pending = append(pending, rec)
			if len(pending) >= replayBatchSize {
				if err := flush(); err != nil {
					return n, err
				}
			}
			continue
		}
		if !prev.IsZero() {
			diff := rec.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.Write(rec); err != nil {
			return n, err
		}
		n++
		prev = rec.Timestamp
	}
}

// ReplayLogFile opens a file and replays its records.
func ReplayLogFile(path string, writer RecordWriter, speed float64) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ReplayLog(f, writer, speed)
}
