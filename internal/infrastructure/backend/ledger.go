package backend

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/mercatto/pos/internal/domain/cashbox"
)

// LedgerClient implements cashbox.LedgerGateway against the retail backend
type LedgerClient struct {
	client *Client
}

// NewLedgerClient creates a ledger gateway
func NewLedgerClient(client *Client) *LedgerClient {
	return &LedgerClient{client: client}
}

type entryPayload struct {
	Type      string     `json:"type"`
	Category  string     `json:"category"`
	Amount    float64    `json:"amount"`
	CashboxID *uuid.UUID `json:"cashbox_id,omitempty"`
}

// CreateEntry posts one financial entry
func (c *LedgerClient) CreateEntry(ctx context.Context, entry cashbox.NewEntry) error {
	payload := entryPayload{
		Type:      string(entry.Type),
		Category:  entry.Category,
		Amount:    wireAmount(entry.Amount),
		CashboxID: entry.CashboxID,
	}
	return c.client.do(ctx, http.MethodPost, "/financial-entries", payload, nil, c.client.timeout)
}
