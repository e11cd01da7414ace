package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mercatto/pos/internal/application/cashier"
	"github.com/mercatto/pos/internal/domain/cashbox"
	"github.com/mercatto/pos/internal/domain/shared"
	"github.com/mercatto/pos/internal/domain/shared/valueobject"
	"github.com/mercatto/pos/internal/interfaces/http/middleware"
)

// CashboxHandler exposes the till session over HTTP
type CashboxHandler struct {
	BaseHandler
	session *cashier.SessionService
}

// NewCashboxHandler creates a cashbox handler
func NewCashboxHandler(session *cashier.SessionService) *CashboxHandler {
	return &CashboxHandler{session: session}
}

// RegisterRoutes registers cashbox routes on the given group
func (h *CashboxHandler) RegisterRoutes(r *gin.RouterGroup) {
	box := r.Group("/cashbox")
	{
		box.GET("", h.Status)
		box.POST("/refresh", h.Refresh)
		box.POST("/open", h.Open)
		box.POST("/adjustments", h.Adjust)
		box.GET("/report", h.Report)
		box.POST("/close", h.Close)
		box.POST("/close/cancel", h.CancelClose)
	}
}

type cashboxView struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Status        string     `json:"status"`
	InitialAmount string     `json:"initial_amount"`
	OpenedAt      *time.Time `json:"opened_at,omitempty"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	ClosedAmount  *string    `json:"closed_amount,omitempty"`
}

type statusResponse struct {
	Open    bool         `json:"open"`
	Cashbox *cashboxView `json:"cashbox,omitempty"`
}

func toCashboxView(cb *cashbox.Cashbox) *cashboxView {
	if cb == nil {
		return nil
	}
	v := &cashboxView{
		ID:            cb.ID,
		Name:          cb.Name,
		Status:        string(cb.Status()),
		InitialAmount: cb.InitialAmount.StringFixed(2),
		OpenedAt:      cb.OpenedAt,
		ClosedAt:      cb.ClosedAt,
	}
	if cb.ClosedAmount != nil {
		s := cb.ClosedAmount.StringFixed(2)
		v.ClosedAmount = &s
	}
	return v
}

// Status returns the cached open till, if any
func (h *CashboxHandler) Status(c *gin.Context) {
	current := h.session.Current()
	h.Success(c, statusResponse{Open: current.IsOpen(), Cashbox: toCashboxView(current)})
}

// Refresh re-resolves the open till from the backend
func (h *CashboxHandler) Refresh(c *gin.Context) {
	if err := h.session.Refresh(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	current := h.session.Current()
	h.Success(c, statusResponse{Open: current.IsOpen(), Cashbox: toCashboxView(current)})
}

type openRequest struct {
	Name       string `json:"name" binding:"required"`
	FundDigits string `json:"fund_digits"`
}

// Open creates and opens a till with an optional opening fund
func (h *CashboxHandler) Open(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	fund, err := valueobject.MoneyFromDigits(req.FundDigits)
	if err != nil {
		h.HandleError(c, shared.NewDomainError("INVALID_AMOUNT", "Opening fund is not a valid digit buffer"))
		return
	}
	if err := h.session.Open(c.Request.Context(), req.Name, fund); err != nil {
		h.HandleError(c, err)
		return
	}
	current := h.session.Current()
	h.Created(c, statusResponse{Open: current.IsOpen(), Cashbox: toCashboxView(current)})
}

type adjustRequest struct {
	Kind         string `json:"kind" binding:"required,oneof=sangria reforco"`
	AmountDigits string `json:"amount_digits" binding:"required"`
}

// Adjust posts a sangria or reforço against the open till
func (h *CashboxHandler) Adjust(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	amount, err := valueobject.MoneyFromDigits(req.AmountDigits)
	if err != nil {
		h.HandleError(c, shared.NewDomainError("INVALID_AMOUNT", "Adjustment amount is not a valid digit buffer"))
		return
	}
	if err := h.session.Adjust(c.Request.Context(), cashier.AdjustmentKind(req.Kind), amount); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type paymentTotalView struct {
	Method string `json:"method"`
	Amount string `json:"amount"`
}

type entryView struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type reportView struct {
	Payments     []paymentTotalView `json:"payments"`
	Entries      []entryView        `json:"entries"`
	ExpectedCash string             `json:"expected_cash"`
}

func toReportView(r *cashbox.Report) reportView {
	view := reportView{
		Payments:     make([]paymentTotalView, 0, len(r.Payments)),
		Entries:      make([]entryView, 0, len(r.Entries)),
		ExpectedCash: r.ExpectedCash.StringFixed(2),
	}
	for _, p := range r.Payments {
		view.Payments = append(view.Payments, paymentTotalView{Method: p.Method, Amount: p.Amount.StringFixed(2)})
	}
	for _, e := range r.Entries {
		view.Entries = append(view.Entries, entryView{Type: string(e.Type), Category: e.Category, Amount: e.Amount.StringFixed(2)})
	}
	return view
}

// Report fetches the reconciliation report and caches it for the close
func (h *CashboxHandler) Report(c *gin.Context) {
	report, err := h.session.RequestReport(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toReportView(report))
}

type closeRequest struct {
	CountedDigits string `json:"counted_digits" binding:"required"`
}

type closeResponse struct {
	Diff             string `json:"diff"`
	CorrectionPosted bool   `json:"correction_posted"`
	CorrectionError  string `json:"correction_error,omitempty"`
}

// Close settles the open till against the counted drawer amount
func (h *CashboxHandler) Close(c *gin.Context) {
	var req closeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	counted, err := valueobject.MoneyFromDigits(req.CountedDigits)
	if err != nil {
		h.HandleError(c, shared.NewDomainError("INVALID_AMOUNT", "Counted amount is not a valid digit buffer"))
		return
	}
	result, err := h.session.ConfirmClose(c.Request.Context(), counted)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := closeResponse{
		Diff:             result.Diff.StringFixed(2),
		CorrectionPosted: result.CorrectionPosted,
	}
	if result.CorrectionErr != nil {
		resp.CorrectionError = result.CorrectionErr.Error()
	}
	h.Success(c, resp)
}

// CancelClose abandons an in-progress close
func (h *CashboxHandler) CancelClose(c *gin.Context) {
	h.session.CancelClose()
	h.NoContent(c)
}
