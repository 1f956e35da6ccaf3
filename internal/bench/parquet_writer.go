package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// ParquetRow is the columnar form of a Record.
type ParquetRow struct {
	RunID         string  `parquet:"name=run_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Round         int64   `parquet:"name=round, type=INT64"`
	Ceiling       int64   `parquet:"name=bandwidth_ceiling, type=INT64"`
	Timestamp     int64   `parquet:"name=ts, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Iteration     int64   `parquet:"name=iteration, type=INT64"`
	ObjectSize    int64   `parquet:"name=object_size, type=INT64"`
	FailTolerance int64   `parquet:"name=fail_tolerance, type=INT64"`
	AvgBandwidth  float64 `parquet:"name=avg_bandwidth, type=DOUBLE"`

	ECSetupTime              float64 `parquet:"name=ec_setup_time, type=DOUBLE"`
	ECRecoveryTime           float64 `parquet:"name=ec_recovery_time, type=DOUBLE"`
	ECShard                  int64   `parquet:"name=ec_shard, type=INT64"`
	ECMemoryUsage            int64   `parquet:"name=ec_memory_usage, type=INT64"`
	ECBandwidthSetupUsage    int64   `parquet:"name=ec_bandwidth_setup_usage, type=INT64"`
	ECBandwidthRecoveryUsage int64   `parquet:"name=ec_bandwidth_recovery_usage, type=INT64"`
	ECErased                 int64   `parquet:"name=ec_erased, type=INT64"`

	RSetupTime              float64 `parquet:"name=r_setup_time, type=DOUBLE"`
	RRecoveryTime           float64 `parquet:"name=r_recovery_time, type=DOUBLE"`
	RNodeCount              int64   `parquet:"name=r_node_count, type=INT64"`
	RMemoryUsage            int64   `parquet:"name=r_memory_usage, type=INT64"`
	RBandwidthSetupUsage    int64   `parquet:"name=r_bandwidth_setup_usage, type=INT64"`
	RBandwidthRecoveryUsage int64   `parquet:"name=r_bandwidth_recovery_usage, type=INT64"`
}

func toParquetRow(r Record) ParquetRow {
	return ParquetRow{
		RunID:                    r.RunID,
		Round:                    int64(r.Round),
		Ceiling:                  r.Ceiling,
		Timestamp:                r.Timestamp.UnixMilli(),
		Iteration:                int64(r.Iteration),
		ObjectSize:               int64(r.ObjectSize),
		FailTolerance:            int64(r.FailTolerance),
		AvgBandwidth:             r.AvgBandwidth,
		ECSetupTime:              r.EC.SetupTime.Seconds(),
		ECRecoveryTime:           r.EC.RecoveryTime.Seconds(),
		ECShard:                  int64(r.EC.Shards),
		ECMemoryUsage:            int64(r.EC.MemoryUsage),
		ECBandwidthSetupUsage:    int64(r.EC.BandwidthSetupUsage),
		ECBandwidthRecoveryUsage: int64(r.EC.BandwidthRecoveryUsage),
		ECErased:                 int64(r.EC.Erased),
		RSetupTime:               r.R.SetupTime.Seconds(),
		RRecoveryTime:            r.R.RecoveryTime.Seconds(),
		RNodeCount:               int64(r.R.Nodes),
		RMemoryUsage:             int64(r.R.MemoryUsage),
		RBandwidthSetupUsage:     int64(r.R.BandwidthSetupUsage),
		RBandwidthRecoveryUsage:  int64(r.R.BandwidthRecoveryUsage),
	}
}

// ParquetWriter handles writing records to a Parquet file in batches.
type ParquetWriter struct {
	writer    *writer.ParquetWriter
	file      source.ParquetFile
	mutex     sync.Mutex
	filePath  string
	batchSize int
	rows      []ParquetRow
}

// NewParquetWriter creates path (and its directory) and prepares the schema.
func NewParquetWriter(path string, batchSize int) (*ParquetWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	file, err := local.NewLocalFileWriter(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet file: %w", err)
	}

	pw, err := writer.NewParquetWriter(file, new(ParquetRow), 4)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}

	return &ParquetWriter{
		writer:    pw,
		file:      file,
		filePath:  path,
		batchSize: batchSize,
		rows:      make([]ParquetRow, 0, batchSize),
	}, nil
}

// Write adds a record to the batch and flushes if the batch is full.
func (pw *ParquetWriter) Write(r Record) error {
	pw.mutex.Lock()
	defer pw.mutex.Unlock()

	pw.rows = append(pw.rows, toParquetRow(r))
	if len(pw.rows) >= pw.batchSize {
		return pw.flush()
	}
	return nil
}

// flush writes the current batch to the Parquet file
func (pw *ParquetWriter) flush() error {
	for _, row := range pw.rows {
		if err := pw.writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	pw.rows = pw.rows[:0]
	return nil
}

// Close flushes any remaining rows and closes the writer.
func (pw *ParquetWriter) Close() error {
	pw.mutex.Lock()
	defer pw.mutex.Unlock()

	if err := pw.flush(); err != nil {
		return err
	}
	if err := pw.writer.WriteStop(); err != nil {
		return fmt.Errorf("failed to stop parquet writer: %w", err)
	}
	if err := pw.file.Close(); err != nil {
		return fmt.Errorf("failed to close parquet file: %w", err)
	}
	return nil
}

// Path returns the location of the written file.
func (pw *ParquetWriter) Path() string {
	return pw.filePath
}
