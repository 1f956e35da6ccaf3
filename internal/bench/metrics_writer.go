package bench

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsWriter exports records as Prometheus metrics.
type MetricsWriter struct {
	registry *prometheus.Registry

	setupSeconds    *prometheus.HistogramVec
	recoverySeconds *prometheus.HistogramVec
	lastSetup       *prometheus.GaugeVec
	lastRecovery    *prometheus.GaugeVec
	memoryBytes     *prometheus.GaugeVec
	avgBandwidth    prometheus.Gauge
	ceiling         prometheus.Gauge
	records         *prometheus.CounterVec
	erasedShards    prometheus.Counter
}

// NewMetricsWriter creates the collectors on a dedicated registry.
func NewMetricsWriter() *MetricsWriter {
	m := &MetricsWriter{
		registry: prometheus.NewRegistry(),
		setupSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "resilience_bench_setup_seconds",
				Help:    "Setup phase duration per strategy",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 20), // 100us to ~52s
			},
			[]string{"strategy"},
		),
		recoverySeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "resilience_bench_recovery_seconds",
				Help:    "Recovery phase duration per strategy",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 20),
			},
			[]string{"strategy"},
		),
		lastSetup: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "resilience_bench_last_setup_seconds",
				Help: "Setup duration of the latest iteration",
			},
			[]string{"strategy"},
		),
		lastRecovery: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "resilience_bench_last_recovery_seconds",
				Help: "Recovery duration of the latest iteration",
			},
			[]string{"strategy"},
		),
		memoryBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "resilience_bench_memory_bytes",
				Help: "Bytes held across all shards or replicas",
			},
			[]string{"strategy"},
		),
		avgBandwidth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "resilience_bench_avg_bandwidth_bits",
			Help: "Realized average bandwidth of the current round in bit/s",
		}),
		ceiling: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "resilience_bench_bandwidth_ceiling_bits",
			Help: "Nominal bandwidth ceiling of the current round in bit/s",
		}),
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resilience_bench_records_total",
				Help: "Records emitted",
			},
			[]string{"round"},
		),
		erasedShards: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resilience_bench_erased_shards_total",
			Help: "Distinct shards erased by loss simulation",
		}),
	}

	m.registry.MustRegister(
		m.setupSeconds,
		m.recoverySeconds,
		m.lastSetup,
		m.lastRecovery,
		m.memoryBytes,
		m.avgBandwidth,
		m.ceiling,
		m.records,
		m.erasedShards,
	)
	return m
}

// Registry exposes the registry for HTTP serving.
func (m *MetricsWriter) Registry() *prometheus.Registry { return m.registry }

// Write records one iteration.
func (m *MetricsWriter) Write(r Record) error {
	m.observe("erasure", r.EC.SetupTime.Seconds(), r.EC.RecoveryTime.Seconds(), r.EC.MemoryUsage)
	m.observe("replication", r.R.SetupTime.Seconds(), r.R.RecoveryTime.Seconds(), r.R.MemoryUsage)
	m.avgBandwidth.Set(r.AvgBandwidth)
	m.ceiling.Set(float64(r.Ceiling))
	m.records.WithLabelValues(strconv.Itoa(r.Round)).Inc()
	m.erasedShards.Add(float64(r.EC.Erased))
	return nil
}

func (m *MetricsWriter) observe(strategy string, setup, recovery float64, memory int) {
	m.setupSeconds.WithLabelValues(strategy).Observe(setup)
	m.recoverySeconds.WithLabelValues(strategy).Observe(recovery)
	m.lastSetup.WithLabelValues(strategy).Set(setup)
	m.lastRecovery.WithLabelValues(strategy).Set(recovery)
	m.memoryBytes.WithLabelValues(strategy).Set(float64(memory))
}
