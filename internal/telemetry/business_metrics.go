package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus counters for product-level
// observability. Metrics are labelled by tenant so dashboards can
// segment per workspace.
type BusinessMetrics struct {
	InvoicesCreated *prometheus.CounterVec
	InvoicesSent    *prometheus.CounterVec
	AIDrafts        *prometheus.CounterVec
	Signups         prometheus.Counter
}

// NewBusinessMetrics registers the business metrics on the given
// registerer.
func NewBusinessMetrics(reg prometheus.Registerer) *BusinessMetrics {
	factory := promauto.With(reg)
	return &BusinessMetrics{
		InvoicesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kadi_invoices_created_total",
			Help: "Invoices created",
		}, []string{"tenant_id"}),
		InvoicesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kadi_invoices_sent_total",
			Help: "Invoices delivered by email",
		}, []string{"tenant_id"}),
		AIDrafts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kadi_ai_drafts_total",
			Help: "AI invoice drafts requested",
		}, []string{"tenant_id"}),
		Signups: factory.NewCounter(prometheus.CounterOpts{
			Name: "kadi_signups_total",
			Help: "Accounts created",
		}),
	}
}
