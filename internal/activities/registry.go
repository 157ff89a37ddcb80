package activities

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mergington/activities/internal/metrics"
)

// Registry owns the activity catalog and is the only mutation point for
// roster membership. Activities are fixed at construction; only the
// participant lists change afterwards. A single RWMutex guards the whole
// map, which is plenty at this scale.
type Registry struct {
	mu              sync.RWMutex
	activities      map[string]*Activity
	enforceCapacity bool
	logger          *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithoutCapacityCheck disables the roster-size check at signup, restoring
// the lenient behavior of the original service where max_participants was
// display-only.
func WithoutCapacityCheck() Option {
	return func(r *Registry) {
		r.enforceCapacity = false
	}
}

// NewRegistry builds a registry from a seed catalog. The seed map is copied;
// the caller's map and slices are not retained.
func NewRegistry(seed map[string]*Activity, logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		activities:      make(map[string]*Activity, len(seed)),
		enforceCapacity: true,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	for name, a := range seed {
		c := a.clone()
		r.activities[name] = &c
		metrics.ActivityRosterSize.WithLabelValues(name).Set(float64(len(c.Participants)))
	}
	return r
}

// List returns a snapshot of every activity keyed by name.
func (r *Registry) List() map[string]Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Activity, len(r.activities))
	for name, a := range r.activities {
		out[name] = a.clone()
	}
	return out
}

// Get returns a snapshot of one activity.
func (r *Registry) Get(name string) (Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities[name]
	if !ok {
		return Activity{}, ErrActivityNotFound
	}
	return a.clone(), nil
}

// Signup appends email to the activity's roster. The roster is unchanged on
// any failure path.
func (r *Registry) Signup(name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		metrics.SignupRejections.WithLabelValues("not_found").Inc()
		return ErrActivityNotFound
	}
	if a.enrolled(email) {
		metrics.SignupRejections.WithLabelValues("duplicate").Inc()
		return ErrAlreadySignedUp
	}
	if r.enforceCapacity && len(a.Participants) >= a.MaxParticipants {
		metrics.SignupRejections.WithLabelValues("full").Inc()
		return ErrActivityFull
	}

	a.Participants = append(a.Participants, email)
	metrics.Signups.Inc()
	metrics.ActivityRosterSize.WithLabelValues(name).Set(float64(len(a.Participants)))

	r.logger.Info("Student signed up",
		zap.String("activity", name),
		zap.String("email", email),
		zap.Int("roster_size", len(a.Participants)),
	)
	return nil
}

// Unregister removes email from the activity's roster. Removal is by value;
// the uniqueness invariant means at most one entry matches.
func (r *Registry) Unregister(name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		metrics.UnregisterRejections.WithLabelValues("not_found").Inc()
		return ErrActivityNotFound
	}

	idx := -1
	for i, p := range a.Participants {
		if p == email {
			idx = i
			break
		}
	}
	if idx < 0 {
		metrics.UnregisterRejections.WithLabelValues("not_signed_up").Inc()
		return ErrNotSignedUp
	}

	a.Participants = append(a.Participants[:idx], a.Participants[idx+1:]...)
	metrics.Unregistrations.Inc()
	metrics.ActivityRosterSize.WithLabelValues(name).Set(float64(len(a.Participants)))

	r.logger.Info("Student unregistered",
		zap.String("activity", name),
		zap.String("email", email),
		zap.Int("roster_size", len(a.Participants)),
	)
	return nil
}
