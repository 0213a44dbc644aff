package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	BestBidPx = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "phoenix_best_bid_px",
		Help: "Best bid price (quote units per base unit)",
	}, []string{"market"})

	BestAskPx = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "phoenix_best_ask_px",
		Help: "Best ask price (quote units per base unit)",
	}, []string{"market"})

	LadderLevels = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "phoenix_ladder_levels",
		Help: "Materialized ladder levels per side",
	}, []string{"market", "side"})

	RefreshErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "phoenix_refresh_errors_total",
		Help: "Number of failed market refreshes",
	}, []string{"market"})

	QuoteErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "phoenix_quote_errors_total",
		Help: "Number of failed probe quotes",
	}, []string{"market"})

	RefreshLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "phoenix_refresh_latency_seconds",
		Help:    "Time to fetch and decode a market account",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		BestBidPx,
		BestAskPx,
		LadderLevels,
		RefreshErrors,
		QuoteErrors,
		RefreshLatency,
	)
}
