// Package auth coordinates credential submission: it gates a sign-in or
// sign-up on two valid form fields, calls the identity provider off the
// owning context and marshals the result back onto it.
package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nfrund/bookreader/internal/form"
	"github.com/nfrund/bookreader/internal/pubsub"
)

// IdentityProvider signs accounts in and up.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
}

// DocumentStore persists loosely structured records.
type DocumentStore interface {
	AddRecord(ctx context.Context, collection string, fields map[string]any) error
}

// Dispatcher runs tasks on the context that owns screen state.
type Dispatcher interface {
	Post(task func()) bool
}

// Completion holds the callbacks of one submission. Both run on the
// dispatcher; at most one of them is called, exactly once.
type Completion struct {
	OnSuccess func(Session)
	OnFailure func(Outcome)
}

// DefaultTimeout bounds a single identity provider call.
const DefaultTimeout = 30 * time.Second

// Controller submits credentials held in two form fields.
type Controller struct {
	identity   IdentityProvider
	documents  DocumentStore
	dispatcher Dispatcher
	events     pubsub.Publisher
	collection string
	timeout    time.Duration
	logger     *slog.Logger

	mu             sync.Mutex
	signUpInFlight bool
	last           Outcome

	work sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithDocumentStore sets where new reader profiles are stored. Without one,
// sign-up skips profile creation.
func WithDocumentStore(store DocumentStore) Option {
	return func(c *Controller) { c.documents = store }
}

// WithPublisher publishes completion events for diagnostics.
func WithPublisher(p pubsub.Publisher) Option {
	return func(c *Controller) { c.events = p }
}

// WithProfileCollection overrides DefaultProfileCollection.
func WithProfileCollection(name string) Option {
	return func(c *Controller) {
		if name != "" {
			c.collection = name
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController creates a controller whose completions run on dispatcher.
func NewController(identity IdentityProvider, dispatcher Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		identity:   identity,
		dispatcher: dispatcher,
		collection: DefaultProfileCollection,
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit issues a sign-in or sign-up with the values of email and password.
//
// It returns Idle without calling the identity provider when either field is
// invalid or when a sign-up from this controller is still in flight. Otherwise
// it returns Pending immediately; the result is delivered through done on the
// dispatcher. A dispatched call is not canceled with ctx; it runs until it
// finishes or the controller's timeout expires.
func (c *Controller) Submit(ctx context.Context, mode Mode, email, password *form.Field, done Completion) Outcome {
	if !email.IsValid() || !password.IsValid() {
		return Outcome{Status: Idle, Mode: mode}
	}
	creds := Credentials{Email: email.Value(), Password: password.Value()}

	c.mu.Lock()
	if mode == SignUp {
		if c.signUpInFlight {
			c.mu.Unlock()
			c.logger.DebugContext(ctx, "Sign-up already in flight, ignoring submission", "email", creds.Email)
			return Outcome{Status: Idle, Mode: mode}
		}
		c.signUpInFlight = true
	}
	pending := Outcome{Status: Pending, Mode: mode}
	c.last = pending
	c.mu.Unlock()

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	c.work.Add(1)
	go func() {
		defer c.work.Done()
		defer cancel()

		session, err := c.call(callCtx, mode, creds)
		if err == nil && mode == SignUp {
			c.work.Add(1)
			go func() {
				defer c.work.Done()
				c.persistProfile(context.WithoutCancel(callCtx), session, creds.Email)
			}()
		}

		if !c.dispatcher.Post(func() { c.complete(callCtx, mode, creds, session, err, done) }) {
			c.logger.Warn("Dispatcher stopped before auth completion could be delivered", "mode", mode.String())
			c.finish(mode, outcomeFor(mode, session, err))
		}
	}()

	return pending
}

func (c *Controller) call(ctx context.Context, mode Mode, creds Credentials) (Session, error) {
	if mode == SignUp {
		return c.identity.SignUp(ctx, creds.Email, creds.Password)
	}
	return c.identity.SignIn(ctx, creds.Email, creds.Password)
}

func outcomeFor(mode Mode, session Session, err error) Outcome {
	if err != nil {
		return Outcome{Status: Rejected, Mode: mode, Reason: RejectionReason(mode, err), Err: err}
	}
	return Outcome{Status: Success, Mode: mode, Session: session}
}

// finish records the outcome and releases the sign-up guard.
func (c *Controller) finish(mode Mode, outcome Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if mode == SignUp {
		c.signUpInFlight = false
	}
	c.last = outcome
}

// complete runs on the dispatcher.
func (c *Controller) complete(ctx context.Context, mode Mode, creds Credentials, session Session, err error, done Completion) {
	outcome := outcomeFor(mode, session, err)
	c.finish(mode, outcome)

	event := CompletedEvent{
		Mode:   mode.String(),
		Email:  creds.Email,
		Status: outcome.Status.String(),
		Reason: outcome.Reason,
		UserID: session.UserID,
		At:     time.Now().UTC(),
	}

	if err != nil {
		c.logger.Warn("Auth attempt failed", "mode", mode.String(), "email", creds.Email, "error", err)
		event.Error = err.Error()
		c.publish(ctx, event)
		if done.OnFailure != nil {
			done.OnFailure(outcome)
		}
		return
	}

	c.logger.Info("Auth attempt succeeded", "mode", mode.String(), "email", creds.Email, "user_id", session.UserID)
	c.publish(ctx, event)
	if done.OnSuccess != nil {
		done.OnSuccess(session)
	}
}

func (c *Controller) publish(ctx context.Context, event CompletedEvent) {
	if c.events == nil {
		return
	}
	if err := pubsub.Publish(context.WithoutCancel(ctx), c.events, EventCompleted, event); err != nil {
		c.logger.Error("Failed to publish auth event", "error", err)
	}
}

// persistProfile stores the new reader's profile. Failures are logged and
// published, never returned.
func (c *Controller) persistProfile(ctx context.Context, session Session, email string) {
	if c.documents == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	profile := NewProfile(session.UserID, email)
	if err := c.documents.AddRecord(ctx, c.collection, profile.Fields()); err != nil {
		c.logger.Error("Failed to add reader profile", "collection", c.collection, "user_id", session.UserID, "error", err)
		if c.events != nil {
			perr := pubsub.Publish(ctx, c.events, EventProfilePersistFailed, ProfilePersistFailedEvent{
				Collection: c.collection,
				UserID:     session.UserID,
				Error:      err.Error(),
				At:         time.Now().UTC(),
			})
			if perr != nil {
				c.logger.Error("Failed to publish profile failure event", "error", perr)
			}
		}
		return
	}
	c.logger.Debug("Added reader profile", "collection", c.collection, "user_id", session.UserID)
}

// SignUpInFlight reports whether a sign-up is awaiting its completion.
func (c *Controller) SignUpInFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.signUpInFlight
}

// LastOutcome returns the outcome of the most recent submission.
func (c *Controller) LastOutcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Wait blocks until every dispatched identity and profile call has returned.
func (c *Controller) Wait() {
	c.work.Wait()
}
