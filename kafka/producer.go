package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rscollections/storefront/models"
)

// OrderPlacedEvent is published after a successful order placement. Delivery
// is best-effort; a failed publish never fails the order.
type OrderPlacedEvent struct {
	Event     string    `json:"event"`
	OrderID   string    `json:"order_id"`
	UserEmail string    `json:"user_email"`
	Total     float64   `json:"total"`
	ItemCount int       `json:"item_count"`
	Timestamp time.Time `json:"timestamp"`
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer returns nil when no brokers are configured; callers treat a
// nil producer as a disabled event stream.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	zap.L().Info("kafka producer initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &Producer{writer: w, topic: topic}
}

func (p *Producer) SendOrderPlaced(ctx context.Context, order models.Order) error {
	if p == nil {
		return nil
	}
	event := OrderPlacedEvent{
		Event:     "order.placed",
		OrderID:   order.ID,
		UserEmail: order.UserEmail,
		Total:     order.Total,
		ItemCount: len(order.Items),
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: data,
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
