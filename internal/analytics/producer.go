package analytics

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
	"github.com/segmentio/kafka-go"
)

const EventBotMoveComputed = "bot_move_computed"

type Event struct {
	Event     string         `json:"event"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	now    func() time.Time
}

// NewProducer returns nil when no brokers are configured. A nil Producer
// drops every event.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	log.Printf("[KAFKA] Publishing analytics to %s on %v", topic, brokers)
	return &Producer{writer: writer, now: time.Now}
}

func (p *Producer) Publish(ctx context.Context, key, event string, payload map[string]any) error {
	if p == nil || p.writer == nil {
		return nil
	}
	body := Event{
		Event:     event,
		Payload:   payload,
		Timestamp: p.now().UTC(),
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data})
}

// PublishMove emits bot_move_computed keyed by request id.
func (p *Producer) PublishMove(ctx context.Context, rec domain.SearchRecord) error {
	return p.Publish(ctx, rec.RequestID, EventBotMoveComputed, map[string]any{
		"request_id":    rec.RequestID,
		"difficulty":    rec.Difficulty,
		"rows":          rec.Rows,
		"columns":       rec.Columns,
		"win_condition": rec.WinCondition,
		"move_count":    rec.MoveCount,
		"column":        rec.Column,
		"score":         rec.Score,
		"depth":         rec.Depth,
		"nodes":         rec.Nodes,
		"truncated":     rec.Truncated,
		"tactic":        rec.Tactic,
		"cached":        rec.Cached,
		"elapsed_ms":    rec.Elapsed.Milliseconds(),
	})
}

func (p *Producer) Close() {
	if p == nil || p.writer == nil {
		return
	}
	_ = p.writer.Close()
}
