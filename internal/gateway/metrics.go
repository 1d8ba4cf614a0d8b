package gateway

import (
	"github.com/erenulutas0/doranV5-sub000/internal/breaker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_fallback_total",
			Help: "Downstream calls answered with a fallback value",
		},
		[]string{"service", "op"},
	)

	breakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gateway_breaker_state",
			Help: "Circuit breaker state per downstream service (0=closed, 1=open, 2=half-open)",
		},
		[]string{"service"},
	)
)

func observeBreaker(b *breaker.Breaker) {
	var v float64
	switch b.State() {
	case breaker.StateOpen:
		v = 1
	case breaker.StateHalfOpen:
		v = 2
	}
	breakerState.WithLabelValues(b.Name()).Set(v)
}
