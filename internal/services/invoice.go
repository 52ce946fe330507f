package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"farmasil_backend/internal/models"
	"farmasil_backend/pkg/utils"
)

// invoiceNamespace seeds the deterministic invoice number derivation.
var invoiceNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("farmasil-invoices"))

// Invoice is a rendered invoice document for a finalized order.
type Invoice struct {
	Number   string `json:"number"`
	OrderID  int64  `json:"order_id"`
	Document string `json:"document"`
}

// InvoiceNumber derives the invoice number for an order. The number is a
// SHA1-based UUID over the order ID, so regenerating an invoice always yields
// the same number.
func InvoiceNumber(orderID int64) string {
	return uuid.NewSHA1(invoiceNamespace, []byte(fmt.Sprintf("order-%d", orderID))).String()
}

// RenderInvoice renders the plain-text invoice for an order. The output
// depends only on the persisted order fields, never on the clock.
func RenderInvoice(order *models.Order) *Invoice {
	var b strings.Builder

	fmt.Fprintf(&b, "FARMASIL INVOICE %s\n", InvoiceNumber(order.ID))
	fmt.Fprintf(&b, "Order:    #%d\n", order.ID)
	fmt.Fprintf(&b, "Date:     %s\n", order.OrderTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Store:    %s\n", derefOr(order.StoreName, "-"))
	fmt.Fprintf(&b, "Customer: %s\n", derefOr(order.CustomerName, "walk-in"))
	fmt.Fprintf(&b, "Served by: %s\n", derefOr(order.EmployeeName, "-"))
	b.WriteString(strings.Repeat("-", 52) + "\n")

	for _, line := range order.Lines {
		fmt.Fprintf(&b, "%-24s %4d x %8.2f %10.2f\n",
			line.ProductName, line.Quantity, line.UnitPrice,
			float64(line.Quantity)*line.UnitPrice)
	}

	b.WriteString(strings.Repeat("-", 52) + "\n")
	fmt.Fprintf(&b, "%-38s %12.2f\n", "TOTAL", order.TotalAmount)
	fmt.Fprintf(&b, "Payment: %s\n", derefOr(order.PaymentMethod, "-"))

	return &Invoice{
		Number:   InvoiceNumber(order.ID),
		OrderID:  order.ID,
		Document: b.String(),
	}
}

// Write emits the invoice as invoice_<orderID>.txt under dir.
func (inv *Invoice) Write(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create invoice directory: %w", err)
	}
	path := filepath.Join(dir, "invoice_"+utils.Int64ToStr(inv.OrderID)+".txt")
	if err := os.WriteFile(path, []byte(inv.Document), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
