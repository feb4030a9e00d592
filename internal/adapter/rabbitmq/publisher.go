package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

const eventsExchange = "pos_events"

type publisher struct {
	conn Connection
}

func NewPublisher(conn Connection) interfaces.EventPublisher {
	return &publisher{conn: conn}
}

// PublishOrderRefresh fans out the resynchronization signal after a
// successful status mutation. Consumers re-fetch; replays are harmless.
func (p *publisher) PublishOrderRefresh(ctx context.Context, msg interfaces.OrderRefreshMessage) error {
	routingKey := fmt.Sprintf("order.refresh.%d", msg.OrderID)
	return p.publish(routingKey, msg.CorrelationID, msg)
}

// PublishKitchenTicket hands active order lines to the kitchen lane.
func (p *publisher) PublishKitchenTicket(ctx context.Context, msg interfaces.KitchenTicketMessage) error {
	routingKey := fmt.Sprintf("kitchen.ticket.%s", msg.OrderType)
	return p.publish(routingKey, msg.CorrelationID, msg)
}

// PublishReceipt hands a committed billing to the printer lane.
func (p *publisher) PublishReceipt(ctx context.Context, msg interfaces.ReceiptMessage) error {
	routingKey := fmt.Sprintf("receipt.print.%s", msg.PaymentType)
	return p.publish(routingKey, msg.CorrelationID, msg)
}

func (p *publisher) publish(routingKey, correlationID string, msg any) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(eventsExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.Publish(eventsExchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		CorrelationId: correlationID,
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}
