package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/turnos/internal/audit"
	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
	"github.com/BruksfildServices01/turnos/internal/domain/availability"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/metrics"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/notify"
	"github.com/BruksfildServices01/turnos/internal/timezone"
	"github.com/BruksfildServices01/turnos/internal/validators"
)

var tracer = otel.Tracer("github.com/BruksfildServices01/turnos/internal/usecase/appointment")

var (
	ErrServiceNotFound     = httperr.ErrBusiness("service_not_found")
	ErrStaffNotFound       = httperr.ErrBusiness("staff_not_found")
	ErrInvalidDateTime     = httperr.ErrBusiness("invalid_date_or_time")
	ErrPastTime            = httperr.ErrBusiness("past_time")
	ErrTooSoon             = httperr.ErrBusiness("too_soon")
	ErrOutsideWorkingHours = httperr.ErrBusiness("outside_working_hours")
	ErrClientName          = httperr.ErrBusiness("missing_client_name")
	ErrClientPhone         = httperr.ErrBusiness("invalid_client_phone")
	ErrClientEmail         = httperr.ErrBusiness("invalid_client_email")
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BusinessID uint
	UserID     *uint

	StaffID   uint
	ServiceID uint

	// Start wins over Date/Time when set.
	Start time.Time
	Date  string
	Time  string

	ClientName  string
	ClientPhone string
	ClientEmail string
	Notes       string

	Source domain.Source
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	notify  *notify.Dispatcher
	metrics *metrics.Metrics
	now     clock
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notify *notify.Dispatcher,
	metrics *metrics.Metrics,
) *CreateAppointment {
	return &CreateAppointment{
		repo:    repo,
		audit:   audit,
		notify:  notify,
		metrics: metrics,
		now:     time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (ap *models.Appointment, err error) {

	if in.Source == "" {
		in.Source = domain.SourceOwner
	}

	ctx, span := tracer.Start(ctx, "appointment.create")
	span.SetAttributes(
		attribute.Int64("business.id", int64(in.BusinessID)),
		attribute.Int64("staff.id", int64(in.StaffID)),
		attribute.String("source", string(in.Source)),
	)
	defer func() {
		uc.metrics.ObserveBooking(string(in.Source), outcome(err))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	// --------------------------------------------------
	// 1️⃣ Negocio
	// --------------------------------------------------
	shop, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(shop.Timezone)

	// --------------------------------------------------
	// 2️⃣ Serviço e profissional
	// --------------------------------------------------
	svc, err := uc.repo.GetService(ctx, in.BusinessID, in.ServiceID)
	if err != nil {
		return nil, notFoundAs(err, ErrServiceNotFound)
	}
	if !svc.Active || svc.DurationMin <= 0 {
		return nil, ErrServiceNotFound
	}

	staff, err := uc.repo.GetStaff(ctx, in.BusinessID, in.StaffID)
	if err != nil {
		return nil, notFoundAs(err, ErrStaffNotFound)
	}
	if !staff.Active {
		return nil, ErrStaffNotFound
	}

	// --------------------------------------------------
	// 3️⃣ Data / hora no timezone do negocio
	// --------------------------------------------------
	start := in.Start
	if start.IsZero() {
		start, err = timezone.ParseDateTime(shop.Timezone, in.Date, in.Time)
		if err != nil {
			return nil, ErrInvalidDateTime
		}
	}
	start = start.In(loc)
	end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

	now := uc.now().In(loc)
	if start.Before(now) {
		return nil, ErrPastTime
	}
	if in.Source == domain.SourcePublic && start.Before(now.Add(minAdvanceOf(shop))) {
		return nil, ErrTooSoon
	}

	// --------------------------------------------------
	// 4️⃣ Grade do dia + expediente do profissional
	// --------------------------------------------------
	hours, err := uc.repo.ListWorkingHours(ctx, staff.ID)
	if err != nil {
		return nil, err
	}
	grid := dayGrid{
		business: shop,
		hours:    hours,
		duration: end.Sub(start),
		now:      now,
		match:    availability.MatchOverlap,
	}
	slot, ok := availability.Lookup(grid.slots(start, nil), start)
	if !ok || slot.Reason == availability.ReasonBreak || slot.Reason == availability.ReasonClosing {
		return nil, ErrOutsideWorkingHours
	}

	// --------------------------------------------------
	// 5️⃣ Cliente (get or create)
	// --------------------------------------------------
	name := strings.TrimSpace(in.ClientName)
	phone := validators.NormalizePhone(in.ClientPhone)
	email := strings.ToLower(strings.TrimSpace(in.ClientEmail))
	switch {
	case name == "":
		return nil, ErrClientName
	case !validators.IsPhone(phone):
		return nil, ErrClientPhone
	case email != "" && !validators.IsEmail(email):
		return nil, ErrClientEmail
	}

	client, err := uc.repo.GetOrCreateClient(ctx, in.BusinessID, name, phone, email)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Criação com checagem de conflito
	// --------------------------------------------------
	ap = &models.Appointment{
		BusinessID:  in.BusinessID,
		StaffID:     staff.ID,
		ServiceID:   svc.ID,
		ClientID:    &client.ID,
		ClientName:  name,
		ClientPhone: phone,
		ClientEmail: email,
		StartTime:   start,
		EndTime:     end,
		Status:      string(domain.InitialStatus()),
		Source:      string(in.Source),
		Notes:       strings.TrimSpace(in.Notes),
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}
	ap.Service = *svc
	ap.Staff = *staff

	// --------------------------------------------------
	// 7️⃣ Auditoria + aviso ao cliente
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     in.UserID,
		Action:     "appointment_created",
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata:   map[string]any{"source": in.Source, "start": start.Format(time.RFC3339)},
	})

	uc.notify.BookingCreated(notify.BookingCreated{
		BusinessName: shop.Name,
		ClientName:   name,
		ClientEmail:  email,
		ServiceName:  svc.Name,
		StaffName:    staff.Name,
		Start:        start,
	})

	span.SetAttributes(attribute.Int64("appointment.id", int64(ap.ID)))
	return ap, nil
}

func notFoundAs(err error, be error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return be
	}
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, domain.ErrTimeConflict):
		return "conflict"
	}
	if _, ok := httperr.CodeOf(err); ok {
		return "rejected"
	}
	return "error"
}
