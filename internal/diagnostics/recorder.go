// Package diagnostics keeps an in-memory view of recent auth activity for
// operators.
package diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nfrund/bookreader/internal/auth"
	"github.com/nfrund/bookreader/internal/pubsub"
)

// DefaultRecentLimit is how many failures a Recorder keeps.
const DefaultRecentLimit = 20

// ReasonProfileWrite describes a refused profile write in Failure.Reason.
const ReasonProfileWrite = "Could not store the reader profile."

// Failure is one rejected auth attempt or refused profile write. It carries
// no account identifiers or raw driver errors, which can quote the email;
// those stay in the server log.
type Failure struct {
	Kind   string    `json:"kind"`
	Mode   string    `json:"mode,omitempty"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// Snapshot is a point-in-time copy of the recorder's counters.
type Snapshot struct {
	Attempts       map[string]int `json:"attempts"`
	Successes      map[string]int `json:"successes"`
	Rejections     map[string]int `json:"rejections"`
	ProfileFailure int            `json:"profile_failures"`
	Recent         []Failure      `json:"recent_failures"`
}

// Recorder counts auth completions published on the bus.
type Recorder struct {
	mu       sync.RWMutex
	attempts map[string]int
	success  map[string]int
	rejected map[string]int
	profile  int
	recent   []Failure
	limit    int
	logger   *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithRecentLimit overrides DefaultRecentLimit.
func WithRecentLimit(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.limit = n
		}
	}
}

// NewRecorder creates an empty recorder.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		attempts: make(map[string]int),
		success:  make(map[string]int),
		rejected: make(map[string]int),
		limit:    DefaultRecentLimit,
		logger:   slog.Default().With("component", "diagnostics"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe starts consuming auth events from sub until ctx is canceled.
func (r *Recorder) Subscribe(ctx context.Context, sub pubsub.Subscriber) error {
	if err := pubsub.Subscribe(ctx, sub, auth.EventCompleted, r.handleCompleted); err != nil {
		return fmt.Errorf("subscribe %s: %w", auth.EventCompleted.Name(), err)
	}
	if err := pubsub.Subscribe(ctx, sub, auth.EventProfilePersistFailed, r.handleProfileFailed); err != nil {
		return fmt.Errorf("subscribe %s: %w", auth.EventProfilePersistFailed.Name(), err)
	}
	r.logger.Info("Diagnostics recorder subscribed")
	return nil
}

func (r *Recorder) handleCompleted(_ context.Context, e auth.CompletedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.attempts[e.Mode]++
	if e.Error == "" {
		r.success[e.Mode]++
		return nil
	}
	r.rejected[e.Mode]++
	r.push(Failure{
		Kind:   "auth",
		Mode:   e.Mode,
		Reason: e.Reason,
		At:     e.At,
	})
	return nil
}

func (r *Recorder) handleProfileFailed(_ context.Context, e auth.ProfilePersistFailedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profile++
	r.push(Failure{
		Kind:   "profile",
		Reason: ReasonProfileWrite,
		At:     e.At,
	})
	return nil
}

// push must be called with mu held.
func (r *Recorder) push(f Failure) {
	r.recent = append(r.recent, f)
	if over := len(r.recent) - r.limit; over > 0 {
		r.recent = append(r.recent[:0], r.recent[over:]...)
	}
}

// Snapshot returns the current counters, newest failure first.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Snapshot{
		Attempts:       copyCounts(r.attempts),
		Successes:      copyCounts(r.success),
		Rejections:     copyCounts(r.rejected),
		ProfileFailure: r.profile,
		Recent:         make([]Failure, 0, len(r.recent)),
	}
	for i := len(r.recent) - 1; i >= 0; i-- {
		s.Recent = append(s.Recent, r.recent[i])
	}
	return s
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
