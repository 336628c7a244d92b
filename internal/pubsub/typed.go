package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
)

// Event binds a topic name to the payload type published on it.
type Event[T any] struct {
	topic       string
	description string
}

// NewEvent declares a typed event.
func NewEvent[T any](topic, description string) Event[T] {
	return Event[T]{topic: topic, description: description}
}

// Name returns the topic name.
func (e Event[T]) Name() string { return e.topic }

// Description returns the human readable purpose of the event.
func (e Event[T]) Description() string { return e.description }

// Publish sends a typed event. The compiler ensures payload matches T.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event.topic, err)
	}
	return p.Publish(ctx, Message{
		Topic:   event.topic,
		Payload: data,
	})
}

// Subscribe decodes every message on the event's topic and hands it to fn.
func Subscribe[T any](ctx context.Context, s Subscriber, event Event[T], fn func(ctx context.Context, payload T) error) error {
	return s.Subscribe(ctx, event.topic, func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal %s payload: %w", event.topic, err)
		}
		return fn(ctx, payload)
	})
}
