package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/miruku-pixel/poddo-pos-engine/internal/adapter/logger"
	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

// TicketHandler renders kitchen tickets on the kitchen display console.
type TicketHandler struct {
	logger logger.Logger
}

func NewTicketHandler(logger logger.Logger) *TicketHandler {
	return &TicketHandler{logger: logger}
}

func (h *TicketHandler) HandleTicket(ctx context.Context, body []byte) error {
	var msg interfaces.KitchenTicketMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse kitchen ticket", "", nil, err)
		return err
	}

	h.logger.Debug("ticket_received", fmt.Sprintf("Ticket for order %s", msg.OrderNumber),
		msg.CorrelationID, map[string]interface{}{
			"order_number": msg.OrderNumber,
			"order_type":   msg.OrderType,
		})

	var b strings.Builder
	fmt.Fprintf(&b, "=== KITCHEN TICKET %s (%s)", msg.OrderNumber, msg.OrderType)
	if msg.TableNumber != nil {
		fmt.Fprintf(&b, " table %d", *msg.TableNumber)
	}
	b.WriteString(" ===\n")

	for _, group := range msg.Groups {
		fmt.Fprintf(&b, "[%s]\n", group.Category)
		for _, line := range group.Lines {
			fmt.Fprintf(&b, "  %dx %s", line.Quantity, line.Name)
			if len(line.Options) > 0 {
				fmt.Fprintf(&b, " (%s)", strings.Join(line.Options, ", "))
			}
			b.WriteByte('\n')
		}
	}

	fmt.Print(b.String())
	return nil
}
