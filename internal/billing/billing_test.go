package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/turnos/internal/domain/plan"
	"github.com/BruksfildServices01/turnos/internal/logging"
	"github.com/BruksfildServices01/turnos/internal/models"
)

type fakePrefs struct {
	got preference.Request
	err error
}

func (f *fakePrefs) Create(_ context.Context, req preference.Request) (*preference.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &preference.Response{ID: "pref-1", InitPoint: "https://mp.example/checkout/pref-1"}, nil
}

type fakePayments struct {
	res *payment.Response
}

func (f *fakePayments) Get(_ context.Context, _ int) (*payment.Response, error) {
	return f.res, nil
}

type fakePlans struct {
	businessID uint
	plan       string
	status     string
}

func (f *fakePlans) SetPlan(_ context.Context, id uint, p, status string) error {
	f.businessID, f.plan, f.status = id, p, status
	return nil
}

func TestCheckoutBuildsPreference(t *testing.T) {
	prefs := &fakePrefs{}
	s := NewService(prefs, nil, nil, URLs{Success: "https://app/ok", Notification: "https://api/hook"}, logging.Discard())
	b := &models.Business{ID: 9, Name: "Centro", Plan: "trial", PlanStatus: "trialing"}

	co, err := s.Checkout(context.Background(), b, "pro")
	require.NoError(t, err)
	assert.Equal(t, "pref-1", co.PreferenceID)
	assert.Equal(t, "pro", co.Plan)

	require.Len(t, prefs.got.Items, 1)
	assert.Equal(t, 25000.0, prefs.got.Items[0].UnitPrice)
	assert.Equal(t, "9:pro", prefs.got.ExternalReference)
	assert.Equal(t, "https://api/hook", prefs.got.NotificationURL)
	assert.Equal(t, "approved", prefs.got.AutoReturn)
}

func TestCheckoutRejects(t *testing.T) {
	s := NewService(&fakePrefs{}, nil, nil, URLs{}, logging.Discard())
	b := &models.Business{ID: 1, Plan: "pro", PlanStatus: "active"}

	_, err := s.Checkout(context.Background(), b, "trial")
	assert.ErrorIs(t, err, ErrInvalidPlan)
	_, err = s.Checkout(context.Background(), b, "gold")
	assert.ErrorIs(t, err, ErrInvalidPlan)
	_, err = s.Checkout(context.Background(), b, "pro")
	assert.ErrorIs(t, err, ErrPlanAlreadyActive)

	var disabled *Service
	_, err = disabled.Checkout(context.Background(), b, "pro")
	assert.ErrorIs(t, err, ErrDisabled)

	failing := NewService(&fakePrefs{err: errors.New("timeout")}, nil, nil, URLs{}, logging.Discard())
	_, err = failing.Checkout(context.Background(), b, "basico")
	assert.Error(t, err)
}

func TestHandlePaymentActivatesApprovedPlan(t *testing.T) {
	plans := &fakePlans{}
	pays := &fakePayments{res: &payment.Response{Status: "approved", ExternalReference: "9:basico"}}
	s := NewService(nil, pays, plans, URLs{}, logging.Discard())

	act, err := s.HandlePayment(context.Background(), 123)
	require.NoError(t, err)
	require.NotNil(t, act)
	assert.Equal(t, uint(9), act.BusinessID)
	assert.Equal(t, plan.Basico, act.Plan)
	assert.Equal(t, "basico", plans.plan)
	assert.Equal(t, "active", plans.status)
}

func TestHandlePaymentIgnoresPending(t *testing.T) {
	plans := &fakePlans{}
	pays := &fakePayments{res: &payment.Response{Status: "pending", ExternalReference: "9:pro"}}
	s := NewService(nil, pays, plans, URLs{}, logging.Discard())

	act, err := s.HandlePayment(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, act)
	assert.Zero(t, plans.businessID)
}

func TestParseExternalReference(t *testing.T) {
	id, p, err := ParseExternalReference("12:pro")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)
	assert.Equal(t, plan.Pro, p)

	for _, bad := range []string{"", "12", "x:pro", "0:pro", "12:trial", "12:gold"} {
		_, _, err := ParseExternalReference(bad)
		assert.ErrorIs(t, err, ErrInvalidReference, bad)
	}
}
