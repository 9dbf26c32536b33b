package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus 指标，通过私有路由的 /metrics 导出
var (
	// eventsRecordedTotal 按事件类型累计的记录总数
	eventsRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resource_usage",
		Name:      "events_recorded_total",
		Help:      "Total number of usage events recorded, by kind.",
	}, []string{"kind"})

	// eventsRejectedTotal 被拒绝的事件总数（未知类型、非法资源 ID）
	eventsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "resource_usage",
		Name:      "events_rejected_total",
		Help:      "Total number of usage events rejected before recording.",
	}, []string{"reason"})

	// rankingRequestsTotal 排行查询总数
	rankingRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "resource_usage",
		Name:      "ranking_requests_total",
		Help:      "Total number of popularity ranking queries.",
	})

	// rankingQueryDuration 排行查询耗时
	rankingQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "resource_usage",
		Name:      "ranking_query_duration_seconds",
		Help:      "Latency of popularity ranking queries.",
		Buckets:   prometheus.DefBuckets,
	})
)
