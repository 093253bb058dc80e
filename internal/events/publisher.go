// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/market_api/internal/config"
	"github.com/GTDGit/market_api/internal/models"
)

// EventOrderPlaced is the type of the event emitted after a cart conversion commits.
const EventOrderPlaced = "order.placed"

// Publisher emits order events.
type Publisher interface {
	OrderPlaced(ctx context.Context, o *models.Order) error
	Close() error
}

// OrderPlaced is the payload of an order.placed event.
type OrderPlaced struct {
	Type       string           `json:"type"`
	OrderID    int64            `json:"order_id"`
	UserID     int64            `json:"user_id"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	Status     string           `json:"status"`
	Items      []OrderPlacedRow `json:"items"`
	PlacedAt   time.Time        `json:"placed_at"`
}

// OrderPlacedRow is one line of an order.placed event.
type OrderPlacedRow struct {
	ProductID  int64           `json:"product_id"`
	Amount     int             `json:"amount"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic.
type KafkaPublisher struct {
	writer messageWriter
}

// NewPublisher returns a Kafka-backed publisher, or a no-op one when no
// brokers are configured.
func NewPublisher(cfg config.KafkaConfig) Publisher {
	if len(cfg.Brokers) == 0 {
		return Nop{}
	}
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.OrderTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

// OrderPlaced publishes o keyed by order id, so events of one order stay ordered.
func (p *KafkaPublisher) OrderPlaced(ctx context.Context, o *models.Order) error {
	value, err := json.Marshal(newOrderPlaced(o))
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%d", o.ID)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(EventOrderPlaced)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write order event: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func newOrderPlaced(o *models.Order) OrderPlaced {
	ev := OrderPlaced{
		Type:       EventOrderPlaced,
		OrderID:    o.ID,
		UserID:     o.UserID,
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		Items:      make([]OrderPlacedRow, 0, len(o.Items)),
		PlacedAt:   o.CreatedAt,
	}
	for _, it := range o.Items {
		var productID int64
		if it.ProductID != nil {
			productID = *it.ProductID
		}
		ev.Items = append(ev.Items, OrderPlacedRow{
			ProductID:  productID,
			Amount:     it.Amount,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	return ev
}

// Nop discards events.
type Nop struct{}

func (Nop) OrderPlaced(context.Context, *models.Order) error { return nil }
func (Nop) Close() error                                     { return nil }
