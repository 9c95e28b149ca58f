// Package billing sells plan upgrades through Mercado Pago Checkout Pro and
// activates them when the payment notification arrives.
package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/BruksfildServices01/turnos/internal/domain/plan"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/logging"
	"github.com/BruksfildServices01/turnos/internal/models"
)

var (
	ErrDisabled          = httperr.ErrBusiness("billing_disabled")
	ErrInvalidPlan       = httperr.ErrBusiness("invalid_plan")
	ErrPlanAlreadyActive = httperr.ErrBusiness("plan_already_active")
	ErrInvalidReference  = httperr.ErrBusiness("invalid_external_reference")
)

type PreferenceAPI interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type PaymentAPI interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
}

// PlanWriter persists the activated plan.
type PlanWriter interface {
	SetPlan(ctx context.Context, businessID uint, plan, status string) error
}

type URLs struct {
	Success      string
	Failure      string
	Notification string
}

type Service struct {
	prefs    PreferenceAPI
	payments PaymentAPI
	plans    PlanWriter
	urls     URLs
	log      *logging.Logger
}

// NewMercadoPago wires the SDK clients. An empty token disables billing.
func NewMercadoPago(accessToken string, plans PlanWriter, urls URLs, log *logging.Logger) (*Service, error) {
	if accessToken == "" {
		return nil, nil
	}
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("billing: mercadopago config: %w", err)
	}
	return NewService(preference.NewClient(cfg), payment.NewClient(cfg), plans, urls, log), nil
}

func NewService(prefs PreferenceAPI, payments PaymentAPI, plans PlanWriter, urls URLs, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Default()
	}
	return &Service{prefs: prefs, payments: payments, plans: plans, urls: urls, log: log}
}

type Checkout struct {
	PreferenceID string `json:"preference_id"`
	InitPoint    string `json:"init_point"`
	Plan         string `json:"plan"`
}

// Checkout creates a one-off payment preference for target.
func (s *Service) Checkout(ctx context.Context, b *models.Business, target string) (*Checkout, error) {
	if s == nil {
		return nil, ErrDisabled
	}
	if !plan.Known(target) || plan.ID(target) == plan.Trial {
		return nil, ErrInvalidPlan
	}
	if b.Plan == target && plan.Status(b.PlanStatus) == plan.StatusActive {
		return nil, ErrPlanAlreadyActive
	}

	p := plan.Get(plan.ID(target))
	req := preference.Request{
		Items: []preference.ItemRequest{{
			ID:          string(p.ID),
			Title:       fmt.Sprintf("Plan %s - %s", p.Name, b.Name),
			Description: strings.Join(p.Features, ", "),
			Quantity:    1,
			UnitPrice:   float64(p.Price),
			CurrencyID:  p.Currency,
		}},
		ExternalReference: ExternalReference(b.ID, p.ID),
		NotificationURL:   s.urls.Notification,
		BackURLs: &preference.BackURLsRequest{
			Success: s.urls.Success,
			Failure: s.urls.Failure,
			Pending: s.urls.Success,
		},
	}
	if s.urls.Success != "" {
		req.AutoReturn = "approved"
	}

	res, err := s.prefs.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("billing: create preference: %w", err)
	}

	s.log.Info("checkout created", "business_id", b.ID, "plan", p.ID, "preference_id", res.ID)
	return &Checkout{PreferenceID: res.ID, InitPoint: res.InitPoint, Plan: string(p.ID)}, nil
}

type Activation struct {
	BusinessID uint
	Plan       plan.ID
}

// HandlePayment looks the payment up and, when approved, activates the plan
// named by its external reference. Non-approved payments return nil.
func (s *Service) HandlePayment(ctx context.Context, paymentID int) (*Activation, error) {
	if s == nil {
		return nil, ErrDisabled
	}

	p, err := s.payments.Get(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("billing: get payment %d: %w", paymentID, err)
	}
	if p.Status != "approved" {
		s.log.Info("payment not approved", "payment_id", paymentID, "status", p.Status)
		return nil, nil
	}

	businessID, planID, err := ParseExternalReference(p.ExternalReference)
	if err != nil {
		return nil, err
	}
	if err := s.plans.SetPlan(ctx, businessID, string(planID), string(plan.StatusActive)); err != nil {
		return nil, err
	}

	s.log.Info("plan activated", "business_id", businessID, "plan", planID, "payment_id", paymentID)
	return &Activation{BusinessID: businessID, Plan: planID}, nil
}

func ExternalReference(businessID uint, p plan.ID) string {
	return fmt.Sprintf("%d:%s", businessID, p)
}

func ParseExternalReference(ref string) (uint, plan.ID, error) {
	idPart, planPart, ok := strings.Cut(ref, ":")
	if !ok {
		return 0, "", ErrInvalidReference
	}
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil || id == 0 {
		return 0, "", ErrInvalidReference
	}
	if !plan.Known(planPart) || plan.ID(planPart) == plan.Trial {
		return 0, "", ErrInvalidReference
	}
	return uint(id), plan.ID(planPart), nil
}
