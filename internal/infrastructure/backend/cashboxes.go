package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mercatto/pos/internal/domain/cashbox"
	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

// CashboxesClient implements cashbox.Gateway against the retail backend
type CashboxesClient struct {
	client *Client
}

// NewCashboxesClient creates a cashbox gateway
func NewCashboxesClient(client *Client) *CashboxesClient {
	return &CashboxesClient{client: client}
}

type cashboxResponse struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	InitialAmount json.Number `json:"initial_amount"`
	OpenedAt      *time.Time  `json:"opened_at"`
	ClosedAt      *time.Time  `json:"closed_at"`
	ClosedAmount  json.Number `json:"closed_amount"`
}

func (r cashboxResponse) toDomain() (cashbox.Cashbox, error) {
	initial, err := moneyFromNumber(r.InitialAmount)
	if err != nil {
		return cashbox.Cashbox{}, fmt.Errorf("parsing initial amount: %w", err)
	}
	cb := cashbox.Cashbox{
		ID:            r.ID,
		Name:          r.Name,
		InitialAmount: initial,
		OpenedAt:      r.OpenedAt,
		ClosedAt:      r.ClosedAt,
	}
	if r.ClosedAmount != "" {
		closed, err := moneyFromNumber(r.ClosedAmount)
		if err != nil {
			return cashbox.Cashbox{}, fmt.Errorf("parsing closed amount: %w", err)
		}
		cb.ClosedAmount = &closed
	}
	return cb, nil
}

// Create registers a new till record
func (c *CashboxesClient) Create(ctx context.Context, name string, initialAmount valueobject.Money) (*cashbox.Cashbox, error) {
	payload := map[string]any{
		"name":           name,
		"initial_amount": wireAmount(initialAmount),
	}
	var resp cashboxResponse
	if err := c.client.do(ctx, http.MethodPost, "/cashboxes", payload, &resp, c.client.timeout); err != nil {
		return nil, err
	}
	cb, err := resp.toDomain()
	if err != nil {
		return nil, err
	}
	return &cb, nil
}

// Open marks a till as opened
func (c *CashboxesClient) Open(ctx context.Context, id uuid.UUID) error {
	return c.client.do(ctx, http.MethodPost, "/cashboxes/"+id.String()+"/open", nil, nil, c.client.timeout)
}

// Close settles a till with the counted drawer amount
func (c *CashboxesClient) Close(ctx context.Context, id uuid.UUID, closedAmount valueobject.Money) error {
	payload := map[string]any{"closed_amount": wireAmount(closedAmount)}
	return c.client.do(ctx, http.MethodPost, "/cashboxes/"+id.String()+"/close", payload, nil, c.client.timeout)
}

// List fetches all till records
func (c *CashboxesClient) List(ctx context.Context) ([]cashbox.Cashbox, error) {
	var resp []cashboxResponse
	if err := c.client.do(ctx, http.MethodGet, "/cashboxes", nil, &resp, c.client.timeout); err != nil {
		return nil, err
	}
	boxes := make([]cashbox.Cashbox, 0, len(resp))
	for _, r := range resp {
		cb, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, cb)
	}
	return boxes, nil
}

type reportPaymentResponse struct {
	Method string      `json:"method"`
	Amount json.Number `json:"amount"`
}

type reportEntryResponse struct {
	Type     string      `json:"type"`
	Category string      `json:"category"`
	Amount   json.Number `json:"amount"`
}

type reportResponse struct {
	Payments     []reportPaymentResponse `json:"payments"`
	Entries      []reportEntryResponse   `json:"entries"`
	ExpectedCash json.Number             `json:"expected_cash"`
}

// Report fetches the reconciliation report for a till. Report queries scan
// the period's movements server-side, so they get the longer timeout.
func (c *CashboxesClient) Report(ctx context.Context, id uuid.UUID) (*cashbox.Report, error) {
	var resp reportResponse
	if err := c.client.do(ctx, http.MethodGet, "/cashboxes/"+id.String()+"/report", nil, &resp, c.client.reportTimeout); err != nil {
		return nil, err
	}

	report := &cashbox.Report{
		Payments: make([]cashbox.PaymentTotal, 0, len(resp.Payments)),
		Entries:  make([]cashbox.Entry, 0, len(resp.Entries)),
	}
	for _, p := range resp.Payments {
		amount, err := moneyFromNumber(p.Amount)
		if err != nil {
			return nil, fmt.Errorf("parsing payment total: %w", err)
		}
		report.Payments = append(report.Payments, cashbox.PaymentTotal{Method: p.Method, Amount: amount})
	}
	for _, e := range resp.Entries {
		amount, err := moneyFromNumber(e.Amount)
		if err != nil {
			return nil, fmt.Errorf("parsing report entry: %w", err)
		}
		report.Entries = append(report.Entries, cashbox.Entry{
			Type:     cashbox.EntryType(e.Type),
			Category: e.Category,
			Amount:   amount,
		})
	}
	expected, err := moneyFromNumber(resp.ExpectedCash)
	if err != nil {
		return nil, fmt.Errorf("parsing expected cash: %w", err)
	}
	report.ExpectedCash = expected
	return report, nil
}
