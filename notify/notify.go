// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"

	"github.com/danielhkuo/gather/logging"
)

// Notifier tells users they moved off a meeting's waitlist.
type Notifier interface {
	NotifyPromoted(ctx context.Context, meetingID string, userIDs []string) error
	Close() error
}

// PromotionEvent is the message published for each promoted user.
type PromotionEvent struct {
	MeetingID  string    `json:"meeting_id"`
	UserID     string    `json:"user_id"`
	PromotedAt time.Time `json:"promoted_at"`
}

// LogNotifier only logs promotions. It is used when no broker is set up.
type LogNotifier struct{}

func (LogNotifier) NotifyPromoted(ctx context.Context, meetingID string, userIDs []string) error {
	for _, id := range userIDs {
		logging.Ctx(ctx).Info().
			Str("meeting_id", meetingID).
			Str("user_id", id).
			Msg("user promoted from waitlist")
	}
	return nil
}

func (LogNotifier) Close() error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes one PromotionEvent per promoted user. Messages
// are keyed by meeting ID so a meeting's promotions land on one partition
// in order.
type KafkaNotifier struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
		now: time.Now,
	}
}

func (n *KafkaNotifier) NotifyPromoted(ctx context.Context, meetingID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	now := n.now().UTC()
	msgs := make([]kafka.Message, 0, len(userIDs))
	for _, id := range userIDs {
		data, err := json.Marshal(PromotionEvent{MeetingID: meetingID, UserID: id, PromotedAt: now})
		if err != nil {
			return fmt.Errorf("failed to encode promotion event: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(meetingID),
			Value: data,
			Time:  now,
		})
	}

	if err := n.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish promotion events: %w", err)
	}

	logging.Ctx(ctx).Debug().
		Str("meeting_id", meetingID).
		Int("events", len(msgs)).
		Msg("promotion events published")
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
