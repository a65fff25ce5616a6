package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds registry counters. A nil *Metrics records nothing.
type Metrics struct {
	Transitions   *prometheus.CounterVec
	Eligibility   *prometheus.CounterVec
	Uploads       *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	Payments      *prometheus.CounterVec
}

// NewMetrics registers registry counters with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eac_application_transitions_total",
			Help: "Application status transitions by application type and target status",
		}, []string{"type", "to"}),
		Eligibility: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eac_eligibility_evaluations_total",
			Help: "Eligibility evaluations by application type and outcome",
		}, []string{"type", "outcome"}),
		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eac_document_uploads_total",
			Help: "Document uploads by outcome",
		}, []string{"outcome"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eac_notification_deliveries_total",
			Help: "Notification delivery attempts by outcome",
		}, []string{"outcome"}),
		Payments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eac_payment_status_updates_total",
			Help: "Payment status updates by gateway status",
		}, []string{"status"}),
	}
}

func (m *Metrics) transition(appType, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(appType, to).Inc()
}

func (m *Metrics) eligibility(appType, outcome string) {
	if m == nil {
		return
	}
	m.Eligibility.WithLabelValues(appType, outcome).Inc()
}

func (m *Metrics) upload(outcome string) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) notification(outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) payment(status string) {
	if m == nil {
		return
	}
	m.Payments.WithLabelValues(status).Inc()
}
