package cashier

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mercatto/pos/internal/domain/cashbox"
	"github.com/mercatto/pos/internal/domain/shared"
	"github.com/mercatto/pos/internal/domain/shared/valueobject"
)

// AdjustmentKind discriminates till fund movements
type AdjustmentKind string

const (
	// AdjustmentSangria withdraws cash from the open till
	AdjustmentSangria AdjustmentKind = "sangria"
	// AdjustmentReforco tops the open till up
	AdjustmentReforco AdjustmentKind = "reforco"
)

// CloseResult reports what the close transition did
type CloseResult struct {
	Diff valueobject.Money
	// CorrectionPosted is true when a surplus/shortage entry was created;
	// false when the drawer matched or the posting failed.
	CorrectionPosted bool
	// CorrectionErr carries the non-fatal posting failure, if any. The till
	// is closed regardless.
	CorrectionErr error
}

// SessionService owns the "currently open cashbox" for the process: the
// cached till is resolved by Refresh and every mutation refreshes after
// writing. Concurrent operators on the same till are last-write-wins; the
// backend does no conflict detection and neither do we.
type SessionService struct {
	mu         sync.Mutex
	current    *cashbox.Cashbox
	lastReport *cashbox.Report

	gateway cashbox.Gateway
	ledger  cashbox.LedgerGateway
	logger  *zap.Logger
}

// NewSessionService creates a cashbox session service
func NewSessionService(gateway cashbox.Gateway, ledger cashbox.LedgerGateway, logger *zap.Logger) *SessionService {
	return &SessionService{
		gateway: gateway,
		ledger:  ledger,
		logger:  logger,
	}
}

// Current returns a copy of the cached open till, or nil when none is open
func (s *SessionService) Current() *cashbox.Cashbox {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	cb := *s.current
	return &cb
}

// Refresh re-resolves the open till from the backend listing
func (s *SessionService) Refresh(ctx context.Context) error {
	boxes, err := s.gateway.List(ctx)
	if err != nil {
		return fmt.Errorf("refreshing cashboxes: %w", err)
	}
	open := cashbox.FindOpen(boxes)

	s.mu.Lock()
	s.current = open
	if open == nil {
		s.lastReport = nil
	}
	s.mu.Unlock()
	return nil
}

// Open creates a till record, opens it, and posts the opening fund entry
// when fund is positive. The create and open calls must both succeed; the
// fund posting is a third sequential step and its failure leaves the till
// open with a missing fund entry. That partial state is surfaced to the
// operator, who adds the fund manually through Adjust; there is no
// automatic rollback.
func (s *SessionService) Open(ctx context.Context, name string, fund valueobject.Money) error {
	if s.Current().IsOpen() {
		return shared.NewDomainError("CASHBOX_ALREADY_OPEN", "A cashbox is already open")
	}
	if fund.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Opening fund cannot be negative")
	}

	cb, err := s.gateway.Create(ctx, name, fund)
	if err != nil {
		return fmt.Errorf("creating cashbox: %w", err)
	}
	if err := s.gateway.Open(ctx, cb.ID); err != nil {
		return fmt.Errorf("opening cashbox: %w", err)
	}

	var fundErr error
	if fund.IsPositive() {
		id := cb.ID
		fundErr = s.ledger.CreateEntry(ctx, cashbox.NewEntry{
			Type:      cashbox.EntryRevenue,
			Category:  cashbox.CategoryFund,
			Amount:    fund,
			CashboxID: &id,
		})
		if fundErr != nil {
			s.logger.Error("opening fund entry failed, cashbox left open without fund",
				zap.String("cashbox_id", cb.ID.String()),
				zap.Error(fundErr))
		}
	}

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after open failed", zap.Error(err))
	}
	if fundErr != nil {
		return fmt.Errorf("cashbox opened but fund entry failed, add the fund manually: %w", fundErr)
	}
	return nil
}

// Adjust posts a sangria (withdrawal, expense) or reforço (top-up, revenue)
// against the open till. Amounts must be strictly positive.
func (s *SessionService) Adjust(ctx context.Context, kind AdjustmentKind, amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Adjustment amount must be positive")
	}
	current := s.Current()
	if !current.IsOpen() {
		return shared.ErrNoOpenCashbox
	}

	entry := cashbox.NewEntry{Amount: amount, CashboxID: &current.ID}
	switch kind {
	case AdjustmentSangria:
		entry.Type = cashbox.EntryExpense
		entry.Category = cashbox.CategorySangria
	case AdjustmentReforco:
		entry.Type = cashbox.EntryRevenue
		entry.Category = cashbox.CategoryReforco
	default:
		return shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment must be sangria or reforco")
	}

	if err := s.ledger.CreateEntry(ctx, entry); err != nil {
		return fmt.Errorf("posting %s entry: %w", kind, err)
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after adjustment failed", zap.Error(err))
	}
	return nil
}

// RequestReport fetches the reconciliation report for the open till and
// caches it as the basis for the next ConfirmClose. Re-requesting replaces
// the cached report, so the close diff always reflects the latest fetch.
func (s *SessionService) RequestReport(ctx context.Context) (*cashbox.Report, error) {
	current := s.Current()
	if !current.IsOpen() {
		return nil, shared.ErrNoOpenCashbox
	}
	report, err := s.gateway.Report(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching cashbox report: %w", err)
	}

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()
	return report, nil
}

// CancelClose abandons an in-progress close, returning to plain Open
func (s *SessionService) CancelClose() {
	s.mu.Lock()
	s.lastReport = nil
	s.mu.Unlock()
}

// ConfirmClose settles the open till against the counted drawer amount.
// The diff against the last fetched report's expected cash is rounded to
// two places; a surplus posts revenue, a shortage posts expense, a match
// posts nothing. A failed correction posting is surfaced but never blocks
// the close: settling the till takes precedence over bookkeeping.
func (s *SessionService) ConfirmClose(ctx context.Context, counted valueobject.Money) (*CloseResult, error) {
	current := s.Current()
	if !current.IsOpen() {
		return nil, shared.ErrNoOpenCashbox
	}

	s.mu.Lock()
	report := s.lastReport
	s.mu.Unlock()
	if report == nil {
		return nil, shared.NewDomainError("NO_REPORT", "Fetch the cashbox report before confirming the close")
	}

	diff := cashbox.NewCountDiff(counted, report.ExpectedCash)
	result := &CloseResult{Diff: diff.Amount}

	if entry := diff.CorrectingEntry(); entry != nil {
		id := current.ID
		err := s.ledger.CreateEntry(ctx, cashbox.NewEntry{
			Type:      entry.Type,
			Category:  entry.Category,
			Amount:    entry.Amount,
			CashboxID: &id,
		})
		if err != nil {
			result.CorrectionErr = err
			s.logger.Error("surplus/shortage entry failed, closing anyway",
				zap.String("cashbox_id", current.ID.String()),
				zap.String("category", entry.Category),
				zap.Error(err))
		} else {
			result.CorrectionPosted = true
		}
	}

	if err := s.gateway.Close(ctx, current.ID, counted); err != nil {
		return nil, fmt.Errorf("closing cashbox: %w", err)
	}

	s.mu.Lock()
	s.lastReport = nil
	s.mu.Unlock()
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after close failed", zap.Error(err))
	}

	s.logger.Info("cashbox closed",
		zap.String("cashbox_id", current.ID.String()),
		zap.String("counted", counted.StringFixed(2)),
		zap.String("diff", diff.Amount.StringFixed(2)))
	return result, nil
}
