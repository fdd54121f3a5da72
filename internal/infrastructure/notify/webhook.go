// Package notify implementa el aviso saliente de facturas enviadas.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appbilling "github.com/festal/festal-backend/internal/application/billing"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/pkg/logger"
)

var (
	_ appbilling.InvoiceNotifier = (*WebhookNotifier)(nil)
	_ appbilling.InvoiceNotifier = (*LogNotifier)(nil)
)

// WebhookNotifier publica un mensaje en un Incoming Webhook (Microsoft Teams).
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier construye el notificador. client nil = cliente con timeout de 10 s.
func NewWebhookNotifier(url string, client *http.Client) *WebhookNotifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookNotifier{url: url, client: client}
}

type teamsMessage struct {
	Type       string `json:"@type"`
	Context    string `json:"@context"`
	Summary    string `json:"summary"`
	ThemeColor string `json:"themeColor"`
	Title      string `json:"title"`
	Text       string `json:"text"`
}

// InvoiceSent envía la tarjeta. Cualquier respuesta distinta de 2xx es error.
func (n *WebhookNotifier) InvoiceSent(ctx context.Context, rec entity.BillingRecord) error {
	msg := teamsMessage{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		Summary:    "Factura enviada " + rec.InvoiceNumber,
		ThemeColor: "00467F",
		Title:      "Factura " + rec.InvoiceNumber + " enviada",
		Text: fmt.Sprintf("Cliente: %s<br>Importe: ¥%s<br>Vencimiento: %s",
			rec.CustomerName, rec.Amount.StringFixed(0), rec.DueDate.Format(entity.DateLayout)),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("notify: serializar mensaje: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: webhook respondió %d", resp.StatusCode)
	}
	return nil
}

// LogNotifier solo registra el envío; se usa cuando no hay webhook configurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador de registro.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) InvoiceSent(_ context.Context, rec entity.BillingRecord) error {
	n.log.Info().Str("invoice_number", rec.InvoiceNumber).Str("customer", rec.CustomerName).Msg("factura enviada (sin webhook configurado)")
	return nil
}
