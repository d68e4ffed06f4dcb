package metrics

import (
	"time"

	"bridge_tvl/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
)

// Price lookup outcomes.
const (
	PriceFound    = "found"
	PriceNoMarket = "no_market"
	PriceFailed   = "failed"
	PriceFallback = "fallback"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics discards everything.
type Metrics struct {
	refreshDuration prometheus.Histogram
	sourceErrors    *prometheus.CounterVec
	tvlEntries      *prometheus.GaugeVec
	priceLookups    *prometheus.CounterVec
	wrappedCreated  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bridge_tvl",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a full TVL refresh across all chains.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
		sourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bridge_tvl",
			Name:      "source_errors_total",
			Help:      "Failed TVL fetches per chain.",
		}, []string{"chain"}),
		tvlEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "bridge_tvl",
			Name:      "entries",
			Help:      "Number of custodied assets reported per chain by the last successful refresh.",
		}, []string{"chain"}),
		priceLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bridge_tvl",
			Name:      "price_lookups_total",
			Help:      "Solana price lookups by outcome.",
		}, []string{"outcome"}),
		wrappedCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bridge_tvl",
			Name:      "wrapped_create_total",
			Help:      "Wrapped asset creation attempts by chain and result.",
		}, []string{"chain", "result"}),
	}
	reg.MustRegister(m.refreshDuration, m.sourceErrors, m.tvlEntries, m.priceLookups, m.wrappedCreated)
	return m
}

func (m *Metrics) ObserveRefresh(d time.Duration) {
	if m == nil {
		return
	}
	m.refreshDuration.Observe(d.Seconds())
}

func (m *Metrics) SourceError(chain entity.ChainID) {
	if m == nil {
		return
	}
	m.sourceErrors.WithLabelValues(chain.Identifier()).Inc()
}

func (m *Metrics) SetEntries(chain entity.ChainID, n int) {
	if m == nil {
		return
	}
	m.tvlEntries.WithLabelValues(chain.Identifier()).Set(float64(n))
}

func (m *Metrics) PriceLookup(outcome string) {
	if m == nil {
		return
	}
	m.priceLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) WrappedCreate(chain entity.ChainID, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.wrappedCreated.WithLabelValues(chain.Identifier(), result).Inc()
}
