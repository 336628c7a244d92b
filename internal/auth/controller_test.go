package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/bookreader/internal/auth"
	"github.com/nfrund/bookreader/internal/domain"
	"github.com/nfrund/bookreader/internal/form"
	"github.com/nfrund/bookreader/internal/pubsub"
	"github.com/nfrund/bookreader/internal/uiloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// mockIdentity implements auth.IdentityProvider for testing.
type mockIdentity struct {
	mock.Mock
}

func (m *mockIdentity) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(auth.Session), args.Error(1)
}

func (m *mockIdentity) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(auth.Session), args.Error(1)
}

// mockDocuments implements auth.DocumentStore for testing.
type mockDocuments struct {
	mock.Mock
}

func (m *mockDocuments) AddRecord(ctx context.Context, collection string, fields map[string]any) error {
	args := m.Called(ctx, collection, fields)
	return args.Error(0)
}

// recordingPublisher captures published messages.
type recordingPublisher struct {
	mu       sync.Mutex
	messages []pubsub.Message
}

func (p *recordingPublisher) Publish(ctx context.Context, msg pubsub.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var topics []string
	for _, m := range p.messages {
		topics = append(topics, m.Topic)
	}
	return topics
}

// ctxIdentity fails whenever the context it is handed is already done.
type ctxIdentity struct{}

func (ctxIdentity) SignIn(ctx context.Context, email, _ string) (auth.Session, error) {
	if err := ctx.Err(); err != nil {
		return auth.Session{}, err
	}
	return auth.Session{UserID: "user:1", Email: email}, nil
}

func (ctxIdentity) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	return ctxIdentity{}.SignIn(ctx, email, password)
}

func validFields(email, password string) (*form.Field, *form.Field) {
	return form.NewEmailField(email), form.NewPasswordField(password)
}

func startLoop(t *testing.T) *uiloop.Loop {
	t.Helper()
	loop := uiloop.New(8)
	loop.Start(context.Background())
	return loop
}

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for completion")
		var zero T
		return zero
	}
}

func TestController_SubmitIgnoresInvalidFields(t *testing.T) {
	defer goleak.VerifyNone(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"invalid email", "a@b", "secret1"},
		{"empty email", "", "secret1"},
		{"empty password", "user@example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := &mockIdentity{}
			loop := startLoop(t)
			defer loop.Stop()

			c := auth.NewController(identity, loop)
			email, password := validFields(tt.email, tt.password)

			for _, mode := range []auth.Mode{auth.SignIn, auth.SignUp} {
				out := c.Submit(context.Background(), mode, email, password, auth.Completion{
					OnSuccess: func(auth.Session) { t.Error("unexpected success callback") },
				})
				assert.Equal(t, auth.Idle, out.Status)
			}
			c.Wait()

			identity.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything, mock.Anything)
			identity.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
			assert.False(t, c.SignUpInFlight())
		})
	}
}

func TestController_SignInSuccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	identity := &mockIdentity{}
	session := auth.Session{UserID: "user:1", Email: "user@example.com", Token: "tok"}
	identity.On("SignIn", mock.Anything, "user@example.com", "secret1").Return(session, nil).Once()

	loop := startLoop(t)
	defer loop.Stop()
	events := &recordingPublisher{}
	c := auth.NewController(identity, loop, auth.WithPublisher(events))

	email, password := validFields("user@example.com", "secret1")
	succeeded := make(chan auth.Session, 2)
	out := c.Submit(context.Background(), auth.SignIn, email, password, auth.Completion{
		OnSuccess: func(s auth.Session) { succeeded <- s },
		OnFailure: func(o auth.Outcome) { t.Errorf("unexpected failure: %v", o.Err) },
	})
	assert.Equal(t, auth.Pending, out.Status)

	got := waitFor(t, succeeded)
	assert.Equal(t, session, got)
	c.Wait()

	// Let any stray second callback land before asserting it never came.
	require.NoError(t, loop.Call(context.Background(), func() {}))
	assert.Len(t, succeeded, 0, "success callback fires exactly once")

	identity.AssertExpectations(t)
	identity.AssertNumberOfCalls(t, "SignIn", 1)
	assert.Equal(t, auth.Success, c.LastOutcome().Status)
	assert.Equal(t, []string{auth.EventCompleted.Name()}, events.topics())
}

func TestController_SignInRejected(t *testing.T) {
	defer goleak.VerifyNone(t)

	identity := &mockIdentity{}
	identity.On("SignIn", mock.Anything, "user@example.com", "wrong").
		Return(auth.Session{}, domain.ErrInvalidCredentials)

	loop := startLoop(t)
	defer loop.Stop()
	c := auth.NewController(identity, loop)

	email, password := validFields("user@example.com", "wrong")
	failed := make(chan auth.Outcome, 1)
	c.Submit(context.Background(), auth.SignIn, email, password, auth.Completion{
		OnSuccess: func(auth.Session) { t.Error("unexpected success") },
		OnFailure: func(o auth.Outcome) { failed <- o },
	})

	out := waitFor(t, failed)
	c.Wait()
	assert.Equal(t, auth.Rejected, out.Status)
	assert.Equal(t, auth.ReasonInvalidCredentials, out.Reason)
	assert.ErrorIs(t, out.Err, domain.ErrInvalidCredentials)
	assert.Equal(t, auth.Rejected, c.LastOutcome().Status)
}

func TestController_SignUpCreatesProfile(t *testing.T) {
	defer goleak.VerifyNone(t)

	identity := &mockIdentity{}
	identity.On("SignUp", mock.Anything, "reader@example.com", "secret1").
		Return(auth.Session{UserID: "user:42", Email: "reader@example.com", Token: "tok"}, nil)

	stored := make(chan map[string]any, 1)
	documents := &mockDocuments{}
	documents.On("AddRecord", mock.Anything, "readers", mock.Anything).
		Run(func(args mock.Arguments) { stored <- args.Get(2).(map[string]any) }).
		Return(nil)

	loop := startLoop(t)
	defer loop.Stop()
	c := auth.NewController(identity, loop,
		auth.WithDocumentStore(documents),
		auth.WithProfileCollection("readers"),
	)

	email, password := validFields("reader@example.com", "secret1")
	succeeded := make(chan auth.Session, 1)
	c.Submit(context.Background(), auth.SignUp, email, password, auth.Completion{
		OnSuccess: func(s auth.Session) { succeeded <- s },
	})

	waitFor(t, succeeded)
	fields := waitFor(t, stored)
	c.Wait()

	assert.Equal(t, map[string]any{
		"user_id":      "user:42",
		"display_name": "reader",
		"avatar_url":   "",
		"quote":        auth.DefaultQuote,
		"profession":   auth.DefaultProfession,
	}, fields)
	assert.False(t, c.SignUpInFlight())
	documents.AssertExpectations(t)
}

func TestController_ProfileFailureDoesNotBlockNavigation(t *testing.T) {
	defer goleak.VerifyNone(t)

	identity := &mockIdentity{}
	identity.On("SignUp", mock.Anything, mock.Anything, mock.Anything).
		Return(auth.Session{UserID: "user:7"}, nil)
	documents := &mockDocuments{}
	documents.On("AddRecord", mock.Anything, auth.DefaultProfileCollection, mock.Anything).
		Return(errors.New("store unavailable"))

	loop := startLoop(t)
	defer loop.Stop()
	events := &recordingPublisher{}
	c := auth.NewController(identity, loop, auth.WithDocumentStore(documents), auth.WithPublisher(events))

	email, password := validFields("reader@example.com", "secret1")
	succeeded := make(chan auth.Session, 1)
	c.Submit(context.Background(), auth.SignUp, email, password, auth.Completion{
		OnSuccess: func(s auth.Session) { succeeded <- s },
		OnFailure: func(o auth.Outcome) { t.Errorf("unexpected failure: %v", o.Err) },
	})

	waitFor(t, succeeded)
	c.Wait()

	assert.Equal(t, auth.Success, c.LastOutcome().Status)
	assert.Contains(t, events.topics(), auth.EventProfilePersistFailed.Name())
}

func TestController_AtMostOneSignUpInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	identity := &mockIdentity{}
	identity.On("SignUp", mock.Anything, "reader@example.com", "secret1").
		Run(func(mock.Arguments) { <-release }).
		Return(auth.Session{UserID: "user:1"}, nil).Once()

	loop := startLoop(t)
	defer loop.Stop()
	c := auth.NewController(identity, loop)

	email, password := validFields("reader@example.com", "secret1")
	succeeded := make(chan auth.Session, 2)
	done := auth.Completion{OnSuccess: func(s auth.Session) { succeeded <- s }}

	first := c.Submit(context.Background(), auth.SignUp, email, password, done)
	second := c.Submit(context.Background(), auth.SignUp, email, password, done)

	assert.Equal(t, auth.Pending, first.Status)
	assert.Equal(t, auth.Idle, second.Status)
	assert.True(t, c.SignUpInFlight())

	close(release)
	waitFor(t, succeeded)
	c.Wait()
	require.NoError(t, loop.Call(context.Background(), func() {}))

	assert.False(t, c.SignUpInFlight(), "guard is released by the completion")
	identity.AssertNumberOfCalls(t, "SignUp", 1)
	assert.Len(t, succeeded, 0)
}

func TestController_CallerCancellationDoesNotAbortCall(t *testing.T) {
	defer goleak.VerifyNone(t)

	identity := ctxIdentity{}

	loop := startLoop(t)
	defer loop.Stop()
	c := auth.NewController(identity, loop)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	email, password := validFields("user@example.com", "secret1")
	succeeded := make(chan auth.Session, 1)
	c.Submit(ctx, auth.SignIn, email, password, auth.Completion{
		OnSuccess: func(s auth.Session) { succeeded <- s },
		OnFailure: func(o auth.Outcome) { t.Errorf("call was canceled: %v", o.Err) },
	})

	waitFor(t, succeeded)
	c.Wait()
}

func TestController_StoppedDispatcherReleasesGuard(t *testing.T) {
	defer goleak.VerifyNone(t)

	identity := &mockIdentity{}
	identity.On("SignUp", mock.Anything, mock.Anything, mock.Anything).
		Return(auth.Session{}, errors.New("backend down"))

	loop := uiloop.New(0)
	loop.Stop()
	c := auth.NewController(identity, loop)

	email, password := validFields("reader@example.com", "secret1")
	c.Submit(context.Background(), auth.SignUp, email, password, auth.Completion{
		OnFailure: func(auth.Outcome) { t.Error("callbacks must not run off the dispatcher") },
	})
	c.Wait()

	assert.False(t, c.SignUpInFlight())
	assert.Equal(t, auth.Rejected, c.LastOutcome().Status)
	assert.Equal(t, auth.ReasonSignUpFailed, c.LastOutcome().Reason)
}

func TestController_LoopContextEndedReleasesGuard(t *testing.T) {
	defer goleak.VerifyNone(t)

	identity := &mockIdentity{}
	identity.On("SignUp", mock.Anything, mock.Anything, mock.Anything).
		Return(auth.Session{UserID: "user:1"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	loop := uiloop.New(4)
	loop.Start(ctx)
	defer loop.Stop()
	cancel()
	require.Eventually(t, func() bool { return !loop.Post(func() {}) }, time.Second, time.Millisecond)

	c := auth.NewController(identity, loop)
	email, password := validFields("reader@example.com", "secret1")
	assert.Equal(t, auth.Pending, c.Submit(context.Background(), auth.SignUp, email, password, auth.Completion{}).Status)
	c.Wait()

	assert.False(t, c.SignUpInFlight(), "a completion the loop can no longer accept must not leave the guard set")
	assert.Equal(t, auth.Success, c.LastOutcome().Status)
}
