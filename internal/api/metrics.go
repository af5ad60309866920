package api

import (
	"github.com/postwerk/postwerk/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quotaChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quota_checks_total",
			Help: "Total number of quota checks by content type and decision",
		},
		[]string{"content_type", "decision"},
	)

	generations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_generations_total",
			Help: "Total number of generation attempts by content type and status",
		},
		[]string{"content_type", "status"},
	)

	extraTokensPurchased = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "extra_tokens_purchased_total",
			Help: "Total number of extra tokens purchased",
		},
	)
)

func recordQuotaCheck(t models.ContentType, allowed bool) {
	decision := "denied"
	if allowed {
		decision = "allowed"
	}
	quotaChecks.WithLabelValues(string(t), decision).Inc()
}

func recordGeneration(t models.ContentType, status string) {
	generations.WithLabelValues(string(t), status).Inc()
}
