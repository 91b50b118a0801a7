// Package metrics exposes Prometheus instrumentation for the key-bundle
// refresh daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshLoadsTotal counts key bundle load attempts by outcome.
	RefreshLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trustplane",
		Name:      "refresh_loads_total",
		Help:      "Key bundle load attempts by outcome.",
	}, []string{"outcome"})

	// RefreshAppliesTotal counts bundle applications by outcome.
	RefreshAppliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trustplane",
		Name:      "refresh_applies_total",
		Help:      "Key bundle applications into the trust store by outcome.",
	}, []string{"outcome"})

	// SigningKeysApplied records the key count of the last applied bundle.
	SigningKeysApplied = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "trustplane",
		Name:      "signing_keys_applied",
		Help:      "Number of signing keys in the last applied bundle.",
	})

	// LastRefreshTimestamp is the unix time of the last successful apply.
	LastRefreshTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "trustplane",
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix timestamp of the last successful key bundle apply.",
	})
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
