package auth

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeRegistered    = "registered"
	outcomeGranted       = "granted"
	outcomeWrongCode     = "wrong_code"
	outcomeLocked        = "locked"
	outcomeRefusedLocked = "refused_locked"
	outcomeNotAllowed    = "not_allowed"
)

// Metrics counts login attempts by outcome. A nil *Metrics records nothing.
type Metrics struct {
	Logins *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "login_total",
		Help:      "Login attempts partitioned by outcome.",
	}, []string{"outcome"})

	if err := reg.Register(logins); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, fmt.Errorf("register login collector: %w", err)
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("existing login collector has unexpected type %T", already.ExistingCollector)
		}
		logins = existing
	}

	return &Metrics{Logins: logins}, nil
}

func (m *Metrics) observe(outcome string) {
	if m == nil || m.Logins == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}
