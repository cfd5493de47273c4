package production

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/comalice/superstate/ecs"
)

// MetricsPublisher counts component changes per world, component and kind.
type MetricsPublisher struct {
	changes *prometheus.CounterVec
}

// NewMetricsPublisher creates a MetricsPublisher and registers its counter
// with reg. Registering twice on the same registry reuses the existing
// counter.
func NewMetricsPublisher(reg prometheus.Registerer) (*MetricsPublisher, error) {
	changes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "superstate",
		Name:      "component_changes_total",
		Help:      "Components added to or removed from entities.",
	}, []string{"world", "component", "kind"})

	if err := reg.Register(changes); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		changes = existing
	}
	return &MetricsPublisher{changes: changes}, nil
}

func (p *MetricsPublisher) Publish(_ context.Context, change ecs.Change) error {
	p.changes.WithLabelValues(change.World, change.Name, change.Kind.String()).Inc()
	return nil
}
