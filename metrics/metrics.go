// Package metrics exposes the matching engine's activity as Prometheus
// metrics, grounded on VictorVVedtion-perp-dex/metrics/prometheus.go's
// Collector shape (namespace/subsystem CounterVec/GaugeVec fields,
// registered once, recorded through small helper methods, served by
// promhttp.Handler) scaled down to the operations this engine actually
// performs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fenrir/domain"
	"fenrir/pricing"
)

// Metrics holds every counter/gauge this engine reports. Construct with
// New and register once per process; passing the same *Metrics to more
// than one MatchingEngine is fine, contract_id is always a label.
type Metrics struct {
	ordersSubmitted *prometheus.CounterVec
	ordersCancelled *prometheus.CounterVec
	tradesTotal     *prometheus.CounterVec
	tradeVolume     *prometheus.CounterVec
	bookDepth       *prometheus.GaugeVec
}

// New builds and registers the engine's metrics against reg. Pass
// prometheus.NewRegistry() in tests to avoid the global default
// registry's duplicate-registration panics across test runs.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ordersSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fenrir",
				Subsystem: "orders",
				Name:      "submitted_total",
				Help:      "Total number of orders submitted, by side.",
			},
			[]string{"contract_id", "side"},
		),
		ordersCancelled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fenrir",
				Subsystem: "orders",
				Name:      "cancelled_total",
				Help:      "Total number of orders cancelled.",
			},
			[]string{"contract_id"},
		),
		tradesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fenrir",
				Subsystem: "trades",
				Name:      "total",
				Help:      "Total number of trades executed.",
			},
			[]string{"contract_id"},
		),
		tradeVolume: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fenrir",
				Subsystem: "trades",
				Name:      "volume",
				Help:      "Total traded quantity.",
			},
			[]string{"contract_id"},
		),
		bookDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "fenrir",
				Subsystem: "orderbook",
				Name:      "depth",
				Help:      "Number of resting orders, by side.",
			},
			[]string{"contract_id", "side"},
		),
	}

	reg.MustRegister(m.ordersSubmitted, m.ordersCancelled, m.tradesTotal, m.tradeVolume, m.bookDepth)
	return m
}

// ObserveSubmit implements engine.Recorder.
func (m *Metrics) ObserveSubmit(contractID domain.ContractCode, side domain.Side) {
	m.ordersSubmitted.WithLabelValues(string(contractID), side.String()).Inc()
}

// ObserveCancel implements engine.Recorder.
func (m *Metrics) ObserveCancel(contractID domain.ContractCode) {
	m.ordersCancelled.WithLabelValues(string(contractID)).Inc()
}

// ObserveTrade implements engine.Recorder.
func (m *Metrics) ObserveTrade(contractID domain.ContractCode, quantity pricing.Quantity) {
	m.tradesTotal.WithLabelValues(string(contractID)).Inc()
	f, _ := quantity.Decimal().Float64()
	m.tradeVolume.WithLabelValues(string(contractID)).Add(f)
}

// ObserveBookDepth implements engine.Recorder.
func (m *Metrics) ObserveBookDepth(contractID domain.ContractCode, side domain.Side, depth int) {
	m.bookDepth.WithLabelValues(string(contractID), side.String()).Set(float64(depth))
}

// Handler serves the registered metrics in the Prometheus exposition
// format.
func Handler() http.Handler {
	return promhttp.Handler()
}
