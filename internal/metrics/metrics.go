package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	wizardTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "wizard_transitions_total",
			Help:      "Wizard step transitions by kind, including rejected advances.",
		},
		[]string{"transition"},
	)

	confirmationEmails = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "confirmation_emails_total",
			Help:      "Confirmation dispatch outcomes.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, wizardTransitions, confirmationEmails)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncTransition increments the wizard transition counter.
func IncTransition(kind string) {
	wizardTransitions.WithLabelValues(kind).Inc()
}

// IncEmail increments the confirmation outcome counter.
func IncEmail(outcome string) {
	confirmationEmails.WithLabelValues(outcome).Inc()
}
