package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the prometheus collectors of the daemon.
type Metrics struct {
	registry *prometheus.Registry

	calls        *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	height       prometheus.Gauge
	outstanding  prometheus.Gauge
	bondPrice    prometheus.Gauge
	exchangeRate prometheus.Gauge
	epoch        prometheus.Gauge
}

// New creates the collectors on their own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bondstake_calls_total",
			Help: "Executed calls by contract, message type and outcome.",
		}, []string{"contract", "type", "result"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bondstake_call_duration_seconds",
			Help:    "Duration of executed calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"contract", "type"}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bondstake_height",
			Help: "Height of the last executed call.",
		}),
		outstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bondstake_bond_outstanding_debt",
			Help: "Outstanding bond debt in payout token units.",
		}),
		bondPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bondstake_bond_price",
			Help: "Current bond price in principal.",
		}),
		exchangeRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bondstake_staking_exchange_rate",
			Help: "Base tokens per staked token.",
		}),
		epoch: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bondstake_staking_epoch",
			Help: "Number of the running staking epoch.",
		}),
	}
	m.registry.MustRegister(m.calls, m.callDuration, m.height, m.outstanding, m.bondPrice, m.exchangeRate, m.epoch)
	return m
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCall records one executed call.
func (m *Metrics) ObserveCall(contract, msgType string, success bool, took time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if !success {
		result = "error"
	}
	m.calls.WithLabelValues(contract, msgType, result).Inc()
	m.callDuration.WithLabelValues(contract, msgType).Observe(took.Seconds())
}

// SetHeight records the height of the last call.
func (m *Metrics) SetHeight(height int64) {
	if m == nil {
		return
	}
	m.height.Set(float64(height))
}

// SetProtocolState records the headline numbers of both contracts.
func (m *Metrics) SetProtocolState(outstandingDebt, bondPrice, exchangeRate float64, epoch uint64) {
	if m == nil {
		return
	}
	m.outstanding.Set(outstandingDebt)
	m.bondPrice.Set(bondPrice)
	m.exchangeRate.Set(exchangeRate)
	m.epoch.Set(float64(epoch))
}
