package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/miruku-pixel/poddo-pos-engine/internal/adapter/logger"
	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

// ReceiptHandler renders committed billings on the printer console.
type ReceiptHandler struct {
	logger logger.Logger
}

func NewReceiptHandler(logger logger.Logger) *ReceiptHandler {
	return &ReceiptHandler{logger: logger}
}

func (h *ReceiptHandler) HandleReceipt(ctx context.Context, body []byte) error {
	var msg interfaces.ReceiptMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse receipt", "", nil, err)
		return err
	}

	h.logger.Debug("receipt_received", fmt.Sprintf("Receipt %s for order %s", msg.ReceiptNumber, msg.OrderNumber),
		msg.CorrelationID, map[string]interface{}{
			"receipt_number": msg.ReceiptNumber,
			"total":          msg.Total,
		})

	fmt.Printf("=== RECEIPT %s (order %s) ===\n", msg.ReceiptNumber, msg.OrderNumber)
	fmt.Printf("Subtotal  %s\n", domain.FormatMoney(msg.Subtotal))
	fmt.Printf("Tax       %s\n", domain.FormatMoney(msg.Tax))
	fmt.Printf("Discount  %s\n", domain.FormatMoney(msg.Discount))
	fmt.Printf("Total     %s\n", domain.FormatMoney(msg.Total))
	fmt.Printf("Paid      %s (%s)\n", domain.FormatMoney(msg.AmountPaid), msg.PaymentType)
	fmt.Printf("Change    %s\n", domain.FormatMoney(msg.Change))
	fmt.Printf("Cashier   %s\n", msg.CashierName)

	return nil
}
