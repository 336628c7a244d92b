package pubsub

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// DefaultOutputBuffer is the per-subscriber queue of the in-memory bus.
const DefaultOutputBuffer = 64

// topicKey carries Message.Topic through watermill metadata.
const topicKey = "topic"

// WatermillBridge implements Publisher and Subscriber on top of watermill's
// GoChannel. Every subscriber of a topic receives its own copy of a message.
type WatermillBridge struct {
	channel *gochannel.GoChannel
	logger  *slog.Logger
}

// BridgeOption configures a WatermillBridge.
type BridgeOption func(*bridgeConfig)

type bridgeConfig struct {
	buffer int64
	logger *slog.Logger
}

// WithOutputBuffer overrides DefaultOutputBuffer.
func WithOutputBuffer(n int64) BridgeOption {
	return func(c *bridgeConfig) { c.buffer = n }
}

// WithBusLogger sets the logger for handler failures and watermill itself.
func WithBusLogger(l *slog.Logger) BridgeOption {
	return func(c *bridgeConfig) { c.logger = l }
}

// NewWatermillBridge creates an in-memory bus.
func NewWatermillBridge(opts ...BridgeOption) *WatermillBridge {
	cfg := bridgeConfig{buffer: DefaultOutputBuffer, logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &WatermillBridge{
		channel: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: cfg.buffer},
			NewSlogAdapter(cfg.logger.With("component", "watermill")),
		),
		logger: cfg.logger,
	}
}

func encode(msg Message) *message.Message {
	out := message.NewMessage(watermill.NewUUID(), msg.Payload)
	for k, v := range msg.Metadata {
		out.Metadata.Set(k, v)
	}
	out.Metadata.Set(topicKey, msg.Topic)
	return out
}

func decode(in *message.Message) Message {
	metadata := make(map[string]string, len(in.Metadata))
	for k, v := range in.Metadata {
		if k != topicKey {
			metadata[k] = v
		}
	}
	return Message{
		Topic:    in.Metadata.Get(topicKey),
		Payload:  in.Payload,
		Metadata: metadata,
	}
}

// Publish implements Publisher.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	out := encode(msg)
	out.SetContext(ctx)
	if err := wb.channel.Publish(msg.Topic, out); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Topic, err)
	}
	return nil
}

// Subscribe implements Subscriber. Handler errors and panics are logged and
// the message is acknowledged; the in-memory bus does not redeliver.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.channel.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}

	go func() {
		for in := range messages {
			wb.deliver(ctx, topic, in, handler)
			in.Ack()
		}
		wb.logger.Debug("Subscription ended", "topic", topic)
	}()
	return nil
}

func (wb *WatermillBridge) deliver(ctx context.Context, topic string, in *message.Message, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			wb.logger.Error("Recovered panic in bus handler", "topic", topic, "msg_id", in.UUID, "panic", r)
		}
	}()
	if err := handler(ctx, decode(in)); err != nil {
		wb.logger.Error("Failed to handle message", "topic", topic, "msg_id", in.UUID, "error", err)
	}
}

// Close shuts down the bus and ends every subscription.
func (wb *WatermillBridge) Close() error {
	return wb.channel.Close()
}
