package bench

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// DefaultGreptimeTable is used when no table name is configured.
const DefaultGreptimeTable = "resilience_bench"

const defaultGreptimePort = 4001

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes records to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client    greptimeClient
	tableName string
}

// NewGreptimeDBWriter connects to endpoint (host or host:port) and writes into database.tableName.
func NewGreptimeDBWriter(endpoint, database, tableName string) (*GreptimeDBWriter, error) {
	host, port := endpoint, defaultGreptimePort
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid greptime port %q: %w", p, err)
		}
		host, port = h, n
	}
	if database == "" {
		database = "public"
	}
	if tableName == "" {
		tableName = DefaultGreptimeTable
	}

	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeDBWriter{client: client, tableName: tableName}, nil
}

// Write inserts a single record.
func (w *GreptimeDBWriter) Write(r Record) error {
	return w.WriteBatch([]Record{r})
}

// WriteBatch inserts multiple records in one request.
func (w *GreptimeDBWriter) WriteBatch(rows []Record) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := w.newTable()
	if err != nil {
		return err
	}
	for _, r := range rows {
		err := tbl.AddRow(
			r.RunID,
			int64(r.Round),
			int64(r.Iteration),
			r.AvgBandwidth,
			r.Ceiling,
			int64(r.ObjectSize),
			int64(r.FailTolerance),
			r.EC.SetupTime.Seconds(),
			r.EC.RecoveryTime.Seconds(),
			int64(r.EC.Shards),
			int64(r.EC.MemoryUsage),
			int64(r.EC.BandwidthSetupUsage),
			int64(r.EC.BandwidthRecoveryUsage),
			r.R.SetupTime.Seconds(),
			r.R.RecoveryTime.Seconds(),
			int64(r.R.Nodes),
			int64(r.R.MemoryUsage),
			int64(r.R.BandwidthSetupUsage),
			int64(r.R.BandwidthRecoveryUsage),
			r.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("greptime row: %w", err)
		}
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		slog.Error("greptime write failed", "table", w.tableName, "rows", len(rows), "err", err)
		return err
	}
	return nil
}

func (w *GreptimeDBWriter) newTable() (*table.Table, error) {
	tbl, err := table.New(w.tableName)
	if err != nil {
		return nil, err
	}
	tags := []string{"run_id"}
	for _, name := range tags {
		if err := tbl.AddTagColumn(name, types.STRING); err != nil {
			return nil, err
		}
	}
	fields := []struct {
		name string
		typ  types.ColumnType
	}{
		{"round", types.INT64},
		{"iteration", types.INT64},
		{"avg_bandwidth", types.FLOAT64},
		{"bandwidth_ceiling", types.INT64},
		{"object_size", types.INT64},
		{"fail_tolerance", types.INT64},
		{"ec_setup_time", types.FLOAT64},
		{"ec_recovery_time", types.FLOAT64},
		{"ec_shard", types.INT64},
		{"ec_memory_usage", types.INT64},
		{"ec_bandwidth_setup_usage", types.INT64},
		{"ec_bandwidth_recovery_usage", types.INT64},
		{"r_setup_time", types.FLOAT64},
		{"r_recovery_time", types.FLOAT64},
		{"r_node_count", types.INT64},
		{"r_memory_usage", types.INT64},
		{"r_bandwidth_setup_usage", types.INT64},
		{"r_bandwidth_recovery_usage", types.INT64},
	}
	for _, f := range fields {
		if err := tbl.AddFieldColumn(f.name, f.typ); err != nil {
			return nil, err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}
	return tbl, nil
}
