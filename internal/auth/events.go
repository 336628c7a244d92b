package auth

import (
	"time"

	"github.com/nfrund/bookreader/internal/pubsub"
)

// CompletedEvent describes a finished sign-in or sign-up attempt.
type CompletedEvent struct {
	Mode   string    `json:"mode"`
	Email  string    `json:"email"`
	Status string    `json:"status"`
	Reason string    `json:"reason,omitempty"`
	Error  string    `json:"error,omitempty"`
	UserID string    `json:"user_id,omitempty"`
	At     time.Time `json:"at"`
}

// ProfilePersistFailedEvent reports a profile record the document store refused.
type ProfilePersistFailedEvent struct {
	Collection string    `json:"collection"`
	UserID     string    `json:"user_id"`
	Error      string    `json:"error"`
	At         time.Time `json:"at"`
}

var (
	EventCompleted = pubsub.NewEvent[CompletedEvent](
		"auth.completed", "A sign-in or sign-up attempt finished")
	EventProfilePersistFailed = pubsub.NewEvent[ProfilePersistFailedEvent](
		"auth.profile.persist_failed", "A new reader profile could not be stored")
)
