// Package notify pushes storefront events to the shop admins.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"essence/storefront/internal/domain"
)

type Notifier interface {
	OrderPlaced(ctx context.Context, order domain.Order) error
	TicketOpened(ctx context.Context, ticket domain.SupportTicket) error
}

type Noop struct{}

func (Noop) OrderPlaced(context.Context, domain.Order) error { return nil }

func (Noop) TicketOpened(context.Context, domain.SupportTicket) error { return nil }

// Telegram sends HTML-formatted messages to an admin chat through the Bot API.
type Telegram struct {
	botToken    string
	adminChatID string
	apiBase     string
	client      *http.Client
}

func NewTelegram(botToken, adminChatID string) *Telegram {
	return &Telegram{
		botToken:    botToken,
		adminChatID: adminChatID,
		apiBase:     "https://api.telegram.org",
		client:      &http.Client{Timeout: 5 * time.Second},
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func (t *Telegram) send(ctx context.Context, text string) error {
	if t.botToken == "" || t.adminChatID == "" {
		log.Debug("telegram: bot token or admin chat not configured, skipping")
		return nil
	}

	body, err := json.Marshal(telegramMessage{ChatID: t.adminChatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

func (t *Telegram) OrderPlaced(ctx context.Context, order domain.Order) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>New order %s</b>\n", html.EscapeString(order.OrderNumber))
	fmt.Fprintf(&b, "Customer: %s (%s)\n", html.EscapeString(order.ShippingAddress.FullName), html.EscapeString(order.ShippingAddress.Email))
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %s x%d = %s\n", html.EscapeString(item.Name), item.Quantity, FormatCents(item.LineTotalCents))
	}
	fmt.Fprintf(&b, "Total: <b>%s</b>\n", FormatCents(order.GrandTotalCents))
	fmt.Fprintf(&b, "Ship to: %s, %s", html.EscapeString(order.ShippingAddress.City), html.EscapeString(order.ShippingAddress.Country))
	return t.send(ctx, b.String())
}

func (t *Telegram) TicketOpened(ctx context.Context, ticket domain.SupportTicket) error {
	text := fmt.Sprintf("<b>New ticket %s</b> [%s/%s]\nFrom: %s\nSubject: %s",
		html.EscapeString(ticket.TicketNumber),
		ticket.Category,
		ticket.Priority,
		html.EscapeString(ticket.CustomerName),
		html.EscapeString(ticket.Subject),
	)
	return t.send(ctx, text)
}

// FormatCents renders an amount in cents as dollars with thousand separators.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := fmt.Sprintf("%d", cents/100)

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), cents%100)
}
