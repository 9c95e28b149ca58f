package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/turnos/internal/audit"
	"github.com/BruksfildServices01/turnos/internal/billing"
	"github.com/BruksfildServices01/turnos/internal/domain/plan"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/logging"
	"github.com/BruksfildServices01/turnos/internal/middleware"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/session"
)

type Billing interface {
	Checkout(ctx context.Context, b *models.Business, target string) (*billing.Checkout, error)
	HandlePayment(ctx context.Context, paymentID int) (*billing.Activation, error)
}

type PlanHandler struct {
	billing Billing
	store   BusinessStore
	cache   Invalidator
	audit   *audit.Dispatcher
	log     *logging.Logger
}

func NewPlanHandler(b Billing, store BusinessStore, cache Invalidator, audit *audit.Dispatcher, log *logging.Logger) *PlanHandler {
	if log == nil {
		log = logging.Default()
	}
	return &PlanHandler{billing: b, store: store, cache: cache, audit: audit, log: log}
}

type CheckoutRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// Catalog lists every plan, cheapest first.
func (h *PlanHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, plan.Catalog())
}

func (h *PlanHandler) Current(c *gin.Context) {
	s, ok := session.From(c)
	if !ok {
		httperr.Unauthorized(c, "session_missing", "Sesión requerida.")
		return
	}
	b := s.Business()
	c.JSON(http.StatusOK, gin.H{
		"plan":          b.Plan,
		"plan_status":   b.PlanStatus,
		"trial_ends_at": b.TrialEndsAt,
		"effective":     s.Plan(),
		"sections":      sections(s),
	})
}

// Section answers whether the session plan opens :section, with the same
// 402 body the gate middleware uses.
func (h *PlanHandler) Section(c *gin.Context) {
	s, ok := session.From(c)
	if !ok {
		httperr.Unauthorized(c, "session_missing", "Sesión requerida.")
		return
	}
	sec, ok := plan.ParseSection(c.Param("section"))
	if !ok {
		httperr.NotFound(c, "unknown_section", "Sección desconocida.")
		return
	}
	if err := s.Can(sec); err != nil {
		c.JSON(http.StatusPaymentRequired, upgradeBody(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"section": sec, "allowed": true})
}

func (h *PlanHandler) Checkout(c *gin.Context) {
	s, ok := session.From(c)
	if !ok {
		httperr.Unauthorized(c, "session_missing", "Sesión requerida.")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Elegí un plan.")
		return
	}

	b := s.Business()
	out, err := h.billing.Checkout(c.Request.Context(), &b, req.Plan)
	if err != nil {
		writeError(c, err, "checkout_failed")
		return
	}

	uid := s.UserID()
	h.audit.Dispatch(audit.Event{
		BusinessID: b.ID,
		UserID:     &uid,
		Action:     "plan_checkout_started",
		Entity:     "business",
		EntityID:   &b.ID,
		Metadata:   map[string]any{"plan": out.Plan, "preference_id": out.PreferenceID},
	})

	c.JSON(http.StatusCreated, out)
}

type webhookBody struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Webhook receives Mercado Pago notifications. Anything that is not a
// payment is acknowledged and ignored.
func (h *PlanHandler) Webhook(c *gin.Context) {
	var body webhookBody
	_ = c.ShouldBindJSON(&body)

	kind := body.Type
	if kind == "" {
		kind = c.Query("type")
	}
	rawID := body.Data.ID
	if rawID == "" {
		rawID = c.Query("data.id")
	}

	if kind != "payment" || rawID == "" {
		c.Status(http.StatusOK)
		return
	}

	paymentID, err := strconv.Atoi(rawID)
	if err != nil {
		httperr.BadRequest(c, "invalid_payment_id", "Pago inválido.")
		return
	}

	ctx := c.Request.Context()
	act, err := h.billing.HandlePayment(ctx, paymentID)
	if err != nil {
		h.log.Warn("billing webhook failed", "payment_id", paymentID, "error", err)
		writeError(c, err, "webhook_failed")
		return
	}
	if act != nil {
		if b, err := h.store.GetByID(ctx, act.BusinessID); err == nil {
			h.cache.Invalidate(ctx, b)
		}
		h.audit.Dispatch(audit.Event{
			BusinessID: act.BusinessID,
			Action:     "plan_activated",
			Entity:     "business",
			EntityID:   &act.BusinessID,
			Metadata:   map[string]any{"plan": act.Plan, "payment_id": paymentID},
		})
	}

	c.Status(http.StatusOK)
}

func upgradeBody(err error) any {
	var up *plan.UpgradeRequired
	if errors.As(err, &up) {
		return middleware.NewUpgradeResponse(up)
	}
	return httperr.HTTPError{Code: "upgrade_required", Message: err.Error()}
}
