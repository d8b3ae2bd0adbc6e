// Package metrics Prometheus 指标
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "saas_agent"

var (
	intentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "intents_total",
			Help:      "Resolved intents by source (llm or fallback) and action.",
		},
		[]string{"source", "action"},
	)

	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "dispatch_total",
			Help:      "Dispatched actions by outcome kind.",
		},
		[]string{"action", "kind"},
	)

	dispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "dispatch_duration_seconds",
			Help:      "Dispatch latency including vendor calls.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	vendorCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vendor",
			Name:      "calls_total",
			Help:      "Outbound vendor API calls by result.",
		},
		[]string{"vendor", "result"},
	)

	tokenRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "token_refresh_total",
			Help:      "OAuth token refresh attempts.",
		},
		[]string{"vendor", "result"},
	)
)

// ObserveIntent 记录一次意图解析
func ObserveIntent(source, action string) {
	intentsTotal.WithLabelValues(source, action).Inc()
}

// ObserveDispatch 记录一次分发
func ObserveDispatch(action, kind string, elapsed time.Duration) {
	dispatchTotal.WithLabelValues(action, kind).Inc()
	dispatchDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// ObserveVendorCall 记录一次厂商调用
func ObserveVendorCall(vendor string, err error) {
	vendorCallsTotal.WithLabelValues(vendor, result(err)).Inc()
}

// ObserveTokenRefresh 记录一次令牌刷新
func ObserveTokenRefresh(vendor string, err error) {
	tokenRefreshTotal.WithLabelValues(vendor, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
