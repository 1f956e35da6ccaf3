// Measurement record emitted once per sweep iteration
package bench

import (
	"strconv"
	"strings"
	"time"
)

// Header is the CSV header line, one column per Record report field.
const Header = "iteration,object_size(byte),fail_tolerance,avg_bandwidth(bit/s)," +
	"ec_setup_time(s),ec_recovery_time(s),ec_shard,ec_memory_usage(byte)," +
	"ec_bandwidth_setup_usage(byte),ec_bandwidth_recovery_usage(byte)," +
	"r_setup_time(s),r_recovery_time(s),r_node_count,r_memory_usage(byte)," +
	"r_bandwidth_setup_usage(byte),r_bandwidth_recovery_usage(byte)"

// ErasureResult is the outcome of one erasure coding cycle.
type ErasureResult struct {
	SetupTime              time.Duration `json:"setup_time_ns"`
	RecoveryTime           time.Duration `json:"recovery_time_ns"`
	Shards                 int           `json:"shards"`
	MemoryUsage            int           `json:"memory_usage"`
	BandwidthSetupUsage    int           `json:"bandwidth_setup_usage"`
	BandwidthRecoveryUsage int           `json:"bandwidth_recovery_usage"`
	Erased                 int           `json:"erased"` // distinct shards actually lost
}

// ReplicationResult is the outcome of one replication cycle.
type ReplicationResult struct {
	SetupTime              time.Duration `json:"setup_time_ns"`
	RecoveryTime           time.Duration `json:"recovery_time_ns"`
	Nodes                  int           `json:"nodes"`
	MemoryUsage            int           `json:"memory_usage"`
	BandwidthSetupUsage    int           `json:"bandwidth_setup_usage"`
	BandwidthRecoveryUsage int           `json:"bandwidth_recovery_usage"`
	Survivors              int           `json:"survivors"` // replicas left after loss
	Recovered              int           `json:"recovered"` // replicas after recovery
}

// Record is one row of results. RunID, Round, Ceiling and Timestamp are metadata for
// the structured sinks and are not part of the CSV line.
type Record struct {
	RunID     string    `json:"run_id"`
	Round     int       `json:"round"`
	Ceiling   int64     `json:"bandwidth_ceiling"`
	Timestamp time.Time `json:"ts"`

	Iteration     int     `json:"iteration"`
	ObjectSize    int     `json:"object_size"`
	FailTolerance int     `json:"fail_tolerance"`
	AvgBandwidth  float64 `json:"avg_bandwidth"`

	EC ErasureResult     `json:"ec"`
	R  ReplicationResult `json:"r"`
}

// Fields returns the report columns in Header order.
func (r Record) Fields() []string {
	return []string{
		strconv.Itoa(r.Iteration),
		strconv.Itoa(r.ObjectSize),
		strconv.Itoa(r.FailTolerance),
		formatFloat(r.AvgBandwidth),
		formatSeconds(r.EC.SetupTime),
		formatSeconds(r.EC.RecoveryTime),
		strconv.Itoa(r.EC.Shards),
		strconv.Itoa(r.EC.MemoryUsage),
		strconv.Itoa(r.EC.BandwidthSetupUsage),
		strconv.Itoa(r.EC.BandwidthRecoveryUsage),
		formatSeconds(r.R.SetupTime),
		formatSeconds(r.R.RecoveryTime),
		strconv.Itoa(r.R.Nodes),
		strconv.Itoa(r.R.MemoryUsage),
		strconv.Itoa(r.R.BandwidthSetupUsage),
		strconv.Itoa(r.R.BandwidthRecoveryUsage),
	}
}

// CSVLine renders the record as one comma separated line without newline.
func (r Record) CSVLine() string {
	return strings.Join(r.Fields(), ",")
}

func formatSeconds(d time.Duration) string {
	return formatFloat(d.Seconds())
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
