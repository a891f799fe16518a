package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "nrkdl"
	metricsSubsystem = "cache"
	groupLabel       = "cache"
)

func newGroupCounter(name, help string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      name,
			Help:      help,
		},
		[]string{groupLabel},
	)
}

// Per-group cache counters, labelled with ProviderConfig.Group
var (
	HitsTotal      = newGroupCounter("hits_total", "Lookups answered from the cache.")
	MissesTotal    = newGroupCounter("misses_total", "Lookups that had to go to the network.")
	EvictionsTotal = newGroupCounter("evictions_total", "Entries evicted to respect the size bound.")
)

func init() {
	prometheus.MustRegister(HitsTotal, MissesTotal, EvictionsTotal)
}

var (
	entriesMu     sync.Mutex
	entriesGauges = make(map[string]prometheus.GaugeFunc)
	// entriesReg is swapped for an isolated registry in tests
	entriesReg prometheus.Registerer = prometheus.DefaultRegisterer
)

// registerEntriesGauge exposes nrkdl_cache_entries for group, read from
// lenFunc at scrape time since Redis expires entries on its own.
// A gauge already registered for group is replaced.
func registerEntriesGauge(group string, lenFunc func() int) {
	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Subsystem:   metricsSubsystem,
			Name:        "entries",
			Help:        "Entries currently held by the cache.",
			ConstLabels: prometheus.Labels{groupLabel: group},
		},
		func() float64 { return float64(lenFunc()) },
	)

	entriesMu.Lock()
	defer entriesMu.Unlock()

	if old, ok := entriesGauges[group]; ok {
		entriesReg.Unregister(old)
	}
	entriesGauges[group] = gauge
	_ = entriesReg.Register(gauge)
}

func unregisterEntriesGauge(group string) {
	entriesMu.Lock()
	defer entriesMu.Unlock()

	if gauge, ok := entriesGauges[group]; ok {
		entriesReg.Unregister(gauge)
		delete(entriesGauges, group)
	}
}
