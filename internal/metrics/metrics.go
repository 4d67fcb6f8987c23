package metrics

import (
	"errors"

	"homebid/pkg/types"

	"github.com/prometheus/client_golang/prometheus"
)

// Lifecycle counts controller mutations by result and bid submissions by
// outcome. A nil *Lifecycle records nothing.
type Lifecycle struct {
	mutations *prometheus.CounterVec
	submits   *prometheus.CounterVec
}

func NewLifecycle(reg prometheus.Registerer) *Lifecycle {
	l := &Lifecycle{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "homebid",
			Name:      "lifecycle_mutations_total",
			Help:      "Job and bid mutations by entity, action and result.",
		}, []string{"entity", "action", "result"}),
		submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "homebid",
			Name:      "bid_submit_outcomes_total",
			Help:      "Successful bid submissions by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(l.mutations, l.submits)
	return l
}

// Result classifies err into a low-cardinality label.
func Result(err error) string {
	var (
		verr *types.ValidationError
		serr *types.InvalidStateError
		terr *types.TransportError
	)

	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, types.ErrAuthRequired):
		return "auth_required"
	case errors.As(err, &verr):
		return "validation"
	case errors.As(err, &serr):
		return "invalid_state"
	case errors.As(err, &terr):
		return "transport"
	default:
		return "error"
	}
}

func (l *Lifecycle) Mutation(entity, action string, err error) {
	if l == nil {
		return
	}
	l.mutations.WithLabelValues(entity, action, Result(err)).Inc()
}

func (l *Lifecycle) Submit(outcome types.SubmitOutcome) {
	if l == nil {
		return
	}
	l.submits.WithLabelValues(string(outcome)).Inc()
}
