package worker

// Processes jobs from QueueEmail: sale receipts with the PDF attached and
// low stock alerts for the operator. Every send goes through the circuit
// breaker so a dead SMTP relay fails fast.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"stockroom/internal/infra"
	"stockroom/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SaleReceiptPayload is the payload of a JobSaleReceipt job.
type SaleReceiptPayload struct {
	SaleID string `json:"sale_id"`
	Email  string `json:"email"`
}

// LowStockAlertItem is one product listed in an alert.
type LowStockAlertItem struct {
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorder_level"`
	Status       string `json:"status"`
}

// LowStockAlertPayload is the payload of a JobLowStockAlert job.
type LowStockAlertPayload struct {
	To    string              `json:"to"`
	Items []LowStockAlertItem `json:"items"`
}

// Mailer sends one message; satisfied by *infra.Mailer.
type Mailer interface {
	Send(to, subject, body string, attachments ...infra.Attachment) error
}

// SaleFinder loads the sale a receipt is rendered from.
type SaleFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
}

type EmailWorker struct {
	sales        SaleFinder
	mailer       Mailer
	cb           *infra.CircuitBreaker
	businessName string
}

func NewEmailWorker(sales SaleFinder, mailer Mailer, cb *infra.CircuitBreaker, businessName string) *EmailWorker {
	return &EmailWorker{sales: sales, mailer: mailer, cb: cb, businessName: businessName}
}

// Handlers returns the job processors served by this worker.
func (w *EmailWorker) Handlers() Handlers {
	return Handlers{
		JobSaleReceipt:   w.ProcessSaleReceipt,
		JobLowStockAlert: w.ProcessLowStockAlert,
	}
}

func (w *EmailWorker) send(to, subject, body string, attachments ...infra.Attachment) error {
	return w.cb.Execute(func() error {
		return w.mailer.Send(to, subject, body, attachments...)
	})
}

// ProcessSaleReceipt renders the sale receipt PDF and mails it.
func (w *EmailWorker) ProcessSaleReceipt(ctx context.Context, raw json.RawMessage) error {
	var payload SaleReceiptPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Permanent(fmt.Errorf("invalid payload: %w", err))
	}
	if payload.Email == "" {
		log.Warn().Str("sale_id", payload.SaleID).Msg("email_worker: empty email, skipping")
		return nil
	}
	id, err := uuid.Parse(payload.SaleID)
	if err != nil {
		return Permanent(fmt.Errorf("invalid sale id %q", payload.SaleID))
	}

	sale, err := w.sales.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Permanent(fmt.Errorf("sale %s no longer exists", id))
		}
		return err
	}

	pdf, err := infra.SaleReceiptPDF(w.businessName, sale)
	if err != nil {
		return Permanent(fmt.Errorf("render receipt: %w", err))
	}

	subject := fmt.Sprintf("%s - Receipt for %s", w.businessName, sale.ProductName)
	body := fmt.Sprintf("Thank you for your purchase.\n\nProduct: %s\nQuantity: %d\nTotal: $%s\n\nYour receipt is attached.",
		sale.ProductName, sale.Quantity, sale.TotalAmount.StringFixed(2))
	attachment := infra.Attachment{
		Filename:    fmt.Sprintf("receipt-%s.pdf", sale.ID),
		ContentType: "application/pdf",
		Data:        pdf,
	}
	if err := w.send(payload.Email, subject, body, attachment); err != nil {
		return err
	}
	log.Info().Str("to", payload.Email).Str("sale_id", payload.SaleID).Msg("email_worker: receipt sent")
	return nil
}

// ProcessLowStockAlert mails the list of products at or below their
// reorder level.
func (w *EmailWorker) ProcessLowStockAlert(_ context.Context, raw json.RawMessage) error {
	var payload LowStockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Permanent(fmt.Errorf("invalid payload: %w", err))
	}
	if payload.To == "" || len(payload.Items) == 0 {
		return nil
	}

	subject := fmt.Sprintf("%s - %d product(s) need restocking", w.businessName, len(payload.Items))
	if err := w.send(payload.To, subject, LowStockAlertBody(payload.Items)); err != nil {
		return err
	}
	log.Info().Str("to", payload.To).Int("items", len(payload.Items)).Msg("email_worker: low stock alert sent")
	return nil
}

// LowStockAlertBody formats the alert as a plain text table.
func LowStockAlertBody(items []LowStockAlertItem) string {
	var b strings.Builder
	b.WriteString("The following products are at or below their reorder level:\n\n")
	fmt.Fprintf(&b, "%-16s %-32s %8s %8s  %s\n", "SKU", "Product", "Qty", "Reorder", "Status")
	for _, it := range items {
		fmt.Fprintf(&b, "%-16s %-32s %8d %8d  %s\n", it.SKU, it.Name, it.Quantity, it.ReorderLevel, it.Status)
	}
	return b.String()
}
