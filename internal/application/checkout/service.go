package checkout

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mercatto/pos/internal/domain/sale"
	"github.com/mercatto/pos/internal/domain/shared"
	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

// Step is the wizard position of a checkout flow
type Step string

const (
	StepCustomer Step = "customer"
	StepItems    Step = "items"
	StepPayment  Step = "payment"
)

type flow struct {
	draft *sale.SaleDraft
	step  Step
}

// Service drives checkout flows: each flow owns one draft exclusively from
// start until confirm or cancel. The mutex protects only the flow map; a
// draft itself is never touched by two requests of the same flow at once.
type Service struct {
	mu    sync.Mutex
	flows map[uuid.UUID]*flow

	sales     sale.SalesGateway
	customers sale.CustomerGateway
	logger    *zap.Logger
}

// NewService creates a checkout service
func NewService(sales sale.SalesGateway, customers sale.CustomerGateway, logger *zap.Logger) *Service {
	return &Service{
		flows:     make(map[uuid.UUID]*flow),
		sales:     sales,
		customers: customers,
		logger:    logger,
	}
}

// Start opens a new checkout flow with an empty draft
func (s *Service) Start() *DraftResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := &flow{draft: sale.NewSaleDraft(), step: StepCustomer}
	s.flows[f.draft.ID] = f
	resp := toDraftResponse(f)
	return &resp
}

// Cancel discards a flow and its draft
func (s *Service) Cancel(draftID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.flows[draftID]; !ok {
		return shared.ErrNotFound
	}
	delete(s.flows, draftID)
	return nil
}

// Get returns the current state of a flow
func (s *Service) Get(draftID uuid.UUID) (*DraftResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[draftID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	resp := toDraftResponse(f)
	return &resp, nil
}

// SetCustomer selects the customer and looks up the outstanding fiado debt
// so the payment step can show it. The lookup failing does not block the
// flow; the debt simply stays unknown.
func (s *Service) SetCustomer(ctx context.Context, draftID, customerID uuid.UUID) (*DraftResponse, error) {
	customer, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[draftID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if err := f.draft.SetCustomer(sale.CustomerRef{ID: customer.ID, Name: customer.Name, Phone: customer.Phone}); err != nil {
		return nil, err
	}
	resp := toDraftResponse(f)
	resp.CustomerDebt = moneyString(customer.BalanceDue)
	return &resp, nil
}

// AddItem adds a product to the draft, merging quantities for a product
// that is already present.
func (s *Service) AddItem(draftID uuid.UUID, req AddItemRequest) (*DraftResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[draftID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	unitPrice, err := valueobject.NewMoneyBRLFromString(req.UnitPrice)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price is not a valid amount")
	}
	if err := f.draft.AddItem(req.ProductID, req.Name, req.SKU, unitPrice, req.Quantity, req.maxQuantity()); err != nil {
		return nil, err
	}
	resp := toDraftResponse(f)
	return &resp, nil
}

// RemoveItem drops a product from the draft
func (s *Service) RemoveItem(draftID, productID uuid.UUID) (*DraftResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[draftID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if err := f.draft.RemoveItem(productID); err != nil {
		return nil, err
	}
	resp := toDraftResponse(f)
	return &resp, nil
}

// UpdateItem changes a line's quantity and/or discount
func (s *Service) UpdateItem(draftID, productID uuid.UUID, req UpdateItemRequest) (*DraftResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[draftID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if req.Quantity != nil {
		if err := f.draft.UpdateItemQuantity(productID, *req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.DiscountSet {
		discount, err := req.discount()
		if err != nil {
			return nil, err
		}
		if err := f.draft.SetItemDiscount(productID, discount); err != nil {
			return nil, err
		}
	}
	resp := toDraftResponse(f)
	return &resp, nil
}

// SetOverallDiscount sets or clears the sale-level discount
func (s *Service) SetOverallDiscount(draftID uuid.UUID, req DiscountRequest) (*DraftResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[draftID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	discount, err := req.discount()
	if err != nil {
		return nil, err
	}
	if err := f.draft.SetOverallDiscount(discount); err != nil {
		return nil, err
	}
	resp := toDraftResponse(f)
	return &resp, nil
}

// SetPayment records one payment line of the split. Amounts arrive as the
// operator's digit buffer so no float ever enters the engine.
func (s *Service) SetPayment(draftID uuid.UUID, req PaymentRequest) (*DraftResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[draftID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	amount, err := valueobject.MoneyFromDigits(req.AmountDigits)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount is not a valid digit buffer")
	}
	if err := f.draft.SetPayment(sale.PaymentMethod(req.Method), req.Enabled, amount); err != nil {
		return nil, err
	}
	resp := toDraftResponse(f)
	return &resp, nil
}

// Advance moves the wizard forward after validating the current step
func (s *Service) Advance(draftID uuid.UUID) (*DraftResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[draftID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	switch f.step {
	case StepCustomer:
		if f.draft.Customer == nil {
			return nil, shared.NewDomainError("NO_CUSTOMER", "Select a customer before continuing")
		}
		f.step = StepItems
	case StepItems:
		if err := f.draft.ValidateItems(); err != nil {
			return nil, err
		}
		f.step = StepPayment
	case StepPayment:
		return nil, shared.ErrInvalidState
	}
	resp := toDraftResponse(f)
	return &resp, nil
}

// Back moves the wizard one step back without validation
func (s *Service) Back(draftID uuid.UUID) (*DraftResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[draftID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	switch f.step {
	case StepItems:
		f.step = StepCustomer
	case StepPayment:
		f.step = StepItems
	}
	resp := toDraftResponse(f)
	return &resp, nil
}

// Confirm composes the draft and hands it to the sales backend. On failure
// the flow returns to the item step with the draft intact so the operator
// can re-check the composition and retry; on success the flow is discarded.
func (s *Service) Confirm(ctx context.Context, draftID uuid.UUID) (*sale.Sale, error) {
	s.mu.Lock()
	f, ok := s.flows[draftID]
	if !ok {
		s.mu.Unlock()
		return nil, shared.ErrNotFound
	}
	composed, err := f.draft.Compose()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	created, err := s.sales.CreateSale(ctx, *composed)
	if err != nil {
		s.logger.Warn("sale creation failed, returning flow to item step",
			zap.String("draft_id", draftID.String()),
			zap.Error(err))
		s.mu.Lock()
		if f, ok := s.flows[draftID]; ok {
			f.step = StepItems
		}
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	delete(s.flows, draftID)
	s.mu.Unlock()

	s.logger.Info("sale confirmed",
		zap.String("sale_id", created.ID.String()),
		zap.String("total", created.TotalAmount.StringFixed(2)))
	return created, nil
}
