package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/turnos/internal/audit"
	"github.com/BruksfildServices01/turnos/internal/billing"
	"github.com/BruksfildServices01/turnos/internal/config"
	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
	"github.com/BruksfildServices01/turnos/internal/domain/availability"
	"github.com/BruksfildServices01/turnos/internal/domain/booking"
	"github.com/BruksfildServices01/turnos/internal/domain/plan"
	"github.com/BruksfildServices01/turnos/internal/dto"
	"github.com/BruksfildServices01/turnos/internal/middleware"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/session"
	"github.com/BruksfildServices01/turnos/internal/usecase/appointment"
	ucBooking "github.com/BruksfildServices01/turnos/internal/usecase/booking"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var shop = models.Business{
	ID:          1,
	Name:        "Barbería Centro",
	Slug:        "barberia-centro",
	Plan:        "trial",
	PlanStatus:  "trialing",
	OpeningHour: 9,
	ClosingHour: 20,
	Timezone:    "America/Argentina/Buenos_Aires",
}

// withSession attaches an owner session the way SessionMiddleware does.
func withSession(b models.Business) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uint(7))
		c.Set(middleware.ContextBusinessID, b.ID)
		session.Attach(c, session.New(7, "owner", b))
		c.Next()
	}
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func codeOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	code, _ := body["error_code"].(string)
	return code
}

// ======================================================
// ERRORS
// ======================================================

func TestWriteError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrTimeConflict, http.StatusConflict, "time_conflict"},
		{fmt.Errorf("wrapped: %w", domain.ErrNotFound), http.StatusNotFound, "appointment_not_found"},
		{domain.ErrInvalidState, http.StatusConflict, "invalid_state"},
		{appointment.ErrTooSoon, http.StatusBadRequest, "too_soon"},
		{booking.ErrWrongStep, http.StatusConflict, "wrong_step"},
		{billing.ErrDisabled, http.StatusServiceUnavailable, "billing_disabled"},
		{errors.New("db down"), http.StatusInternalServerError, "fallback"},
	}

	for _, tc := range cases {
		r := gin.New()
		r.GET("/", func(c *gin.Context) { writeError(c, tc.err, "fallback") })
		rec := do(r, http.MethodGet, "/", nil)
		assert.Equal(t, tc.status, rec.Code, tc.code)
		assert.Equal(t, tc.code, codeOf(t, rec))
	}
}

// ======================================================
// APPOINTMENTS
// ======================================================

type stubCreate struct {
	in  appointment.CreateAppointmentInput
	err error
}

func (s *stubCreate) Execute(_ context.Context, in appointment.CreateAppointmentInput) (*models.Appointment, error) {
	s.in = in
	if s.err != nil {
		return nil, s.err
	}
	return &models.Appointment{ID: 99, BusinessID: in.BusinessID, StaffID: in.StaffID, Status: "pending"}, nil
}

type stubStatus struct{ err error }

func (s stubStatus) Execute(_ context.Context, _, _, id uint, status string) (*models.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Appointment{ID: id, Status: status}, nil
}

type stubDelete struct{ err error }

func (s stubDelete) Execute(context.Context, uint, uint, uint) error { return s.err }

type stubByMonth struct{ got [3]int }

func (s *stubByMonth) Execute(_ context.Context, _, staffID uint, year, month int) ([]dto.AppointmentListDTO, error) {
	s.got = [3]int{int(staffID), year, month}
	return []dto.AppointmentListDTO{}, nil
}

type stubAvailability struct {
	in appointment.AvailabilityInput
}

func (s *stubAvailability) Execute(_ context.Context, in appointment.AvailabilityInput) ([]availability.Slot, error) {
	s.in = in
	return []availability.Slot{
		{Time: "09:00", Available: true},
		{Time: "09:30", Available: false, Reason: availability.ReasonBooked},
	}, nil
}

func agendaRouter(uc AppointmentUseCases) *gin.Engine {
	h := NewAppointmentHandler(uc)
	r := gin.New()
	g := r.Group("/me/appointments", withSession(shop))
	g.POST("", h.Create)
	g.GET("/month", h.ListByMonth)
	g.GET("/availability", h.Availability)
	g.PATCH("/:id/status", h.UpdateStatus)
	g.DELETE("/:id", h.Delete)
	return r
}

func TestAppointmentCreate(t *testing.T) {
	create := &stubCreate{}
	r := agendaRouter(AppointmentUseCases{Create: create})

	rec := do(r, http.MethodPost, "/me/appointments", CreateAppointmentRequest{
		StaffID: 3, ServiceID: 4, Date: "2026-03-10", Time: "14:00",
		ClientName: "Ana", ClientPhone: "1155551234",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, uint(1), create.in.BusinessID)
	assert.Equal(t, domain.SourceOwner, create.in.Source)
	require.NotNil(t, create.in.UserID)
	assert.Equal(t, uint(7), *create.in.UserID)
}

func TestAppointmentCreateConflict(t *testing.T) {
	r := agendaRouter(AppointmentUseCases{Create: &stubCreate{err: domain.ErrTimeConflict}})

	rec := do(r, http.MethodPost, "/me/appointments", CreateAppointmentRequest{
		StaffID: 3, ServiceID: 4, Date: "2026-03-10", Time: "14:00",
		ClientName: "Ana", ClientPhone: "1155551234",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "time_conflict", codeOf(t, rec))
}

func TestAppointmentCreateRequiresFields(t *testing.T) {
	create := &stubCreate{}
	r := agendaRouter(AppointmentUseCases{Create: create})

	rec := do(r, http.MethodPost, "/me/appointments", map[string]any{"staff_id": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, create.in.StaffID, "use case must not run")
}

func TestAppointmentStatusAndDelete(t *testing.T) {
	r := agendaRouter(AppointmentUseCases{
		UpdateStatus: stubStatus{},
		Delete:       stubDelete{},
	})

	rec := do(r, http.MethodPatch, "/me/appointments/5/status", UpdateStatusRequest{Status: "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"confirmed"`, mustField(t, rec, "status"))

	rec = do(r, http.MethodDelete, "/me/appointments/5", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(r, http.MethodDelete, "/me/appointments/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	r = agendaRouter(AppointmentUseCases{
		UpdateStatus: stubStatus{err: domain.ErrInvalidState},
		Delete:       stubDelete{err: domain.ErrNotFound},
	})
	rec = do(r, http.MethodPatch, "/me/appointments/5/status", UpdateStatusRequest{Status: "pending"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = do(r, http.MethodDelete, "/me/appointments/5", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAppointmentListByMonthValidation(t *testing.T) {
	byMonth := &stubByMonth{}
	r := agendaRouter(AppointmentUseCases{ByMonth: byMonth})

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/me/appointments/month?year=2026", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/me/appointments/month?year=2026&month=13", nil).Code)

	rec := do(r, http.MethodGet, "/me/appointments/month?year=2026&month=3&staff_id=4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [3]int{4, 2026, 3}, byMonth.got)
}

func TestOwnerAvailabilityUsesExactMatch(t *testing.T) {
	slots := &stubAvailability{}
	r := agendaRouter(AppointmentUseCases{Availability: slots})

	rec := do(r, http.MethodGet, "/me/appointments/availability?date=2026-03-10&staff_id=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, availability.MatchExact, slots.in.Match)
	assert.Equal(t, uint(1), slots.in.BusinessID)
}

func mustField(t *testing.T, rec *httptest.ResponseRecorder, key string) string {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return string(body[key])
}

// ======================================================
// PUBLIC
// ======================================================

type stubLookup struct{}

func (stubLookup) GetBySlug(_ context.Context, slug string) (*models.Business, error) {
	switch slug {
	case shop.Slug:
		b := shop
		return &b, nil
	case "caido":
		return nil, errors.New("dial tcp: connection refused")
	}
	return nil, gorm.ErrRecordNotFound
}

type stubFlow struct {
	BookingFlow
	submitErr error
}

func (s *stubFlow) Start(_ context.Context, _ uint) (*ucBooking.Session, error) {
	return &ucBooking.Session{ID: "s1", Step: "select_service", Flow: booking.New()}, nil
}

func (s *stubFlow) Submit(_ context.Context, _ uint, id string, _ booking.Contact) (*ucBooking.Session, *models.Appointment, error) {
	f := booking.New()
	if s.submitErr != nil {
		f.Step = booking.StepConfirmDetails
		f.MarkFailed(s.submitErr)
		return &ucBooking.Session{ID: id, Flow: f}, nil, s.submitErr
	}
	return &ucBooking.Session{ID: id, Flow: f}, &models.Appointment{ID: 5, Status: "pending", Notes: "interna"}, nil
}

func publicRouter(flow BookingFlow, slots AvailabilityFinder) *gin.Engine {
	h := NewPublicHandler(nil, stubLookup{}, slots, flow)
	r := gin.New()
	g := r.Group("/public/:slug")
	g.GET("/availability", h.Availability)
	g.POST("/bookings", h.StartBooking)
	g.POST("/bookings/:session/submit", h.Submit)
	return r
}

func TestPublicAvailabilityUsesOverlap(t *testing.T) {
	slots := &stubAvailability{}
	r := publicRouter(&stubFlow{}, slots)

	rec := do(r, http.MethodGet, "/public/barberia-centro/availability?date=2026-03-10&staff_id=3&service_id=4&only_available=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, availability.MatchOverlap, slots.in.Match)

	var body struct {
		Slots []availability.Slot `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Slots, 1)

	rec = do(r, http.MethodGet, "/public/barberia-centro/availability?date=2026-03-10&staff_id=3", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodGet, "/public/otro/availability?date=2026-03-10&staff_id=3&service_id=4", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "business_not_found", codeOf(t, rec))

	rec = do(r, http.MethodGet, "/public/caido/availability?date=2026-03-10&staff_id=3&service_id=4", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "business_lookup_failed", codeOf(t, rec))
}

func TestPublicSubmit(t *testing.T) {
	r := publicRouter(&stubFlow{}, nil)

	rec := do(r, http.MethodPost, "/public/barberia-centro/bookings", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	contact := ContactRequest{ClientName: "Ana", ClientPhone: "1155551234"}
	rec = do(r, http.MethodPost, "/public/barberia-centro/bookings/s1/submit", contact)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "interna", "internal notes stay private")

	r = publicRouter(&stubFlow{submitErr: domain.ErrTimeConflict}, nil)
	rec = do(r, http.MethodPost, "/public/barberia-centro/bookings/s1/submit", contact)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "time_conflict", codeOf(t, rec))
}

func TestPublicServicesHidePrice(t *testing.T) {
	out := publicServices([]models.Service{
		{ID: 1, Name: "Corte", Price: 8000, DurationMin: 30},
		{ID: 2, Name: "Color", Price: 20000, DurationMin: 90, HidePrice: true},
	})
	require.Len(t, out, 2)
	require.NotNil(t, out[0].Price)
	assert.Equal(t, 8000.0, *out[0].Price)
	assert.Nil(t, out[1].Price)

	raw, err := json.Marshal(out[1])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "price")
}

// ======================================================
// SETTINGS
// ======================================================

func ptr[T any](v T) *T { return &v }

func TestBusinessUpdates(t *testing.T) {
	cases := []struct {
		name string
		req  UpdateBusinessRequest
		code string
	}{
		{"slug change", UpdateBusinessRequest{Slug: ptr("otro")}, "slug_immutable"},
		{"same slug", UpdateBusinessRequest{Slug: ptr(shop.Slug)}, ""},
		{"bad color", UpdateBusinessRequest{BrandColor: ptr("red")}, "invalid_brand_color"},
		{"good color", UpdateBusinessRequest{BrandColor: ptr("#FF8800")}, ""},
		{"open after close", UpdateBusinessRequest{OpeningHour: ptr(21)}, "invalid_hours"},
		{"close past midnight", UpdateBusinessRequest{ClosingHour: ptr(25)}, "invalid_hours"},
		{"bad timezone", UpdateBusinessRequest{Timezone: ptr("Mars/Olympus")}, "invalid_timezone"},
		{"negative advance", UpdateBusinessRequest{MinAdvanceMinutes: ptr(-5)}, "invalid_min_advance"},
		{"blank name", UpdateBusinessRequest{Name: ptr("  ")}, "invalid_name"},
		{"bad email", UpdateBusinessRequest{Email: ptr("nope")}, "invalid_email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := shop
			_, code, _ := businessUpdates(&b, &tc.req)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestBusinessUpdatesNeverWritesSlug(t *testing.T) {
	b := shop
	fields, code, _ := businessUpdates(&b, &UpdateBusinessRequest{
		Slug:       ptr(shop.Slug),
		BrandColor: ptr("#00AA11"),
		Phone:      ptr("+54 11 5555-1234"),
	})
	require.Empty(t, code)
	assert.NotContains(t, fields, "slug")
	assert.Equal(t, "#00aa11", fields["brand_color"])
	assert.Equal(t, "+541155551234", fields["phone"])
}

func TestWorkingHoursRows(t *testing.T) {
	day := func(wd int, active bool, start, end, ls, le string) WorkingDayConfig {
		return WorkingDayConfig{Weekday: &wd, Active: active, StartTime: start, EndTime: end, LunchStart: ls, LunchEnd: le}
	}

	rows, code := workingHoursRows(3, []WorkingDayConfig{
		day(0, false, "", "", "", ""),
		day(1, true, "09:00", "18:00", "13:00", "14:00"),
	})
	require.Empty(t, code)
	require.Len(t, rows, 2)
	assert.Equal(t, uint(3), rows[1].StaffID)
	assert.Equal(t, 0, rows[0].Weekday)

	_, code = workingHoursRows(3, []WorkingDayConfig{day(1, true, "18:00", "09:00", "", "")})
	assert.Equal(t, "invalid_working_hours", code)

	_, code = workingHoursRows(3, []WorkingDayConfig{day(1, true, "09:00", "18:00", "17:00", "19:00")})
	assert.Equal(t, "invalid_lunch_break", code)

	_, code = workingHoursRows(3, []WorkingDayConfig{day(2, true, "09:00", "18:00", "13:00", "")})
	assert.Equal(t, "invalid_lunch_break", code)

	_, code = workingHoursRows(3, []WorkingDayConfig{day(2, false, "", "", "", ""), day(2, false, "", "", "", "")})
	assert.Equal(t, "duplicate_weekday", code)
}

// ======================================================
// FINANCE
// ======================================================

func TestExpenseCreateValidatesBeforeWriting(t *testing.T) {
	h := NewExpenseHandler(nil, nil)
	r := gin.New()
	r.POST("/expenses", withSession(shop), h.Create)

	rec := do(r, http.MethodPost, "/expenses", CreateExpenseRequest{Category: "marketing", Amount: 10, Date: "2026-03-01"})
	assert.Equal(t, "invalid_category", codeOf(t, rec))

	rec = do(r, http.MethodPost, "/expenses", CreateExpenseRequest{Category: "luz", Amount: -10, Date: "2026-03-01"})
	assert.Equal(t, "invalid_amount", codeOf(t, rec))

	rec = do(r, http.MethodPost, "/expenses", CreateExpenseRequest{Category: "luz", Amount: 10, Date: "01/03/2026"})
	assert.Equal(t, "invalid_date", codeOf(t, rec))
}

func TestMonthDates(t *testing.T) {
	from, to := monthDates(2026, 12)
	assert.Equal(t, "2026-12-01", from)
	assert.Equal(t, "2027-01-01", to)
}

// ======================================================
// PLANS
// ======================================================

type stubBilling struct {
	activation *billing.Activation
	target     string
}

func (s *stubBilling) Checkout(_ context.Context, b *models.Business, target string) (*billing.Checkout, error) {
	s.target = target
	if target == "trial" {
		return nil, billing.ErrInvalidPlan
	}
	return &billing.Checkout{PreferenceID: "pref-1", InitPoint: "https://mp.test/pref-1", Plan: target}, nil
}

func (s *stubBilling) HandlePayment(context.Context, int) (*billing.Activation, error) {
	return s.activation, nil
}

type stubStore struct{}

func (stubStore) GetByID(_ context.Context, id uint) (*models.Business, error) {
	b := shop
	b.ID = id
	return &b, nil
}

func (stubStore) Update(context.Context, uint, map[string]any) error { return nil }

type recordingCache struct{ invalidated []uint }

func (r *recordingCache) Invalidate(_ context.Context, b *models.Business) {
	r.invalidated = append(r.invalidated, b.ID)
}

func planRouter(b Billing, cache Invalidator, biz models.Business) *gin.Engine {
	h := NewPlanHandler(b, stubStore{}, cache, (*audit.Dispatcher)(nil), nil)
	r := gin.New()
	r.GET("/plans", h.Catalog)
	r.POST("/webhook", h.Webhook)
	me := r.Group("/me", withSession(biz))
	me.POST("/plan/checkout", h.Checkout)
	me.GET("/sections/:section", h.Section)
	return r
}

func TestPlanCatalogAndSections(t *testing.T) {
	r := planRouter(&stubBilling{}, &recordingCache{}, shop)

	rec := do(r, http.MethodGet, "/plans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var plans []plan.Plan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plans))
	require.Len(t, plans, 3)
	assert.Equal(t, plan.Trial, plans[0].ID)

	rec = do(r, http.MethodGet, "/me/sections/finance", nil)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	var up middleware.UpgradeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &up))
	assert.Equal(t, plan.Pro, up.RequiredPlan)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/me/sections/agenda", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/me/sections/reports", nil).Code)
}

func TestPlanCheckout(t *testing.T) {
	b := &stubBilling{}
	r := planRouter(b, &recordingCache{}, shop)

	rec := do(r, http.MethodPost, "/me/plan/checkout", CheckoutRequest{Plan: "pro"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "pro", b.target)

	rec = do(r, http.MethodPost, "/me/plan/checkout", CheckoutRequest{Plan: "trial"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_plan", codeOf(t, rec))
}

func TestWebhookActivatesAndInvalidates(t *testing.T) {
	cache := &recordingCache{}
	r := planRouter(&stubBilling{activation: &billing.Activation{BusinessID: 1, Plan: plan.Pro}}, cache, shop)

	rec := do(r, http.MethodPost, "/webhook", map[string]any{"type": "merchant_order"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, cache.invalidated)

	rec = do(r, http.MethodPost, "/webhook", map[string]any{"type": "payment", "data": map[string]any{"id": "123"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uint{1}, cache.invalidated)

	rec = do(r, http.MethodPost, "/webhook?type=payment&data.id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ======================================================
// AUTH
// ======================================================

type recordingRevoker struct {
	jti string
	exp time.Time
}

func (r *recordingRevoker) Revoke(_ context.Context, jti string, exp time.Time) error {
	r.jti, r.exp = jti, exp
	return nil
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret", JWTTTL: time.Hour}
	h := NewAuthHandler(nil, cfg, nil)

	tok, err := h.generateToken(&models.User{ID: 12, BusinessID: 4, Role: "owner"})
	require.NoError(t, err)

	claims, err := middleware.ParseToken("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, uint(4), claims.BusinessID)
	assert.Equal(t, "12", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	other, err := h.generateToken(&models.User{ID: 12, BusinessID: 4, Role: "owner"})
	require.NoError(t, err)
	otherClaims, err := middleware.ParseToken("s3cret", other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID)
}

func TestLogoutRevokesCurrentToken(t *testing.T) {
	revoker := &recordingRevoker{}
	h := NewAuthHandler(nil, &config.Config{}, revoker)
	exp := time.Now().Add(time.Hour)

	r := gin.New()
	r.POST("/logout", func(c *gin.Context) {
		c.Set(middleware.ContextTokenID, "jti-1")
		c.Set(middleware.ContextTokenExp, exp)
		c.Next()
	}, h.Logout)

	rec := do(r, http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "jti-1", revoker.jti)
	assert.True(t, exp.Equal(revoker.exp))
}

func TestRegisterRejectsBadSlugBeforeWriting(t *testing.T) {
	h := NewAuthHandler(nil, &config.Config{}, nil)
	r := gin.New()
	r.POST("/register", h.Register)

	rec := do(r, http.MethodPost, "/register", RegisterRequest{
		BusinessName: "X", BusinessSlug: "Mi Local!", Name: "Ana", Email: "ana@gmail.com", Password: "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_slug", codeOf(t, rec))
}
