package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
	"github.com/BruksfildServices01/turnos/internal/domain/availability"
	"github.com/BruksfildServices01/turnos/internal/domain/booking"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/turnos/internal/usecase/appointment"
)

var (
	ErrSessionNotFound = httperr.ErrBusiness("booking_session_not_found")
	ErrSlotUnavailable = httperr.ErrBusiness("slot_unavailable")
)

// Store persists flows per business. Load returns (nil, nil) for unknown
// or expired sessions.
type Store interface {
	Load(ctx context.Context, businessID uint, id string) (*booking.Flow, error)
	Save(ctx context.Context, businessID uint, id string, f *booking.Flow) error
}

// Catalog answers whether a public selection is valid.
type Catalog interface {
	GetService(ctx context.Context, businessID, serviceID uint) (*models.Service, error)
	GetStaff(ctx context.Context, businessID, staffID uint) (*models.Staff, error)
}

type Creator interface {
	Execute(ctx context.Context, in ucAppointment.CreateAppointmentInput) (*models.Appointment, error)
}

type Availability interface {
	Execute(ctx context.Context, in ucAppointment.AvailabilityInput) ([]availability.Slot, error)
}

// Session is the API view of a stored flow.
type Session struct {
	ID   string        `json:"id"`
	Step string        `json:"step_name"`
	Flow *booking.Flow `json:"flow"`
}

// Service drives the public booking wizard on top of a Store.
type Service struct {
	store      Store
	catalog    Catalog
	slots      Availability
	create     Creator
	resetDelay time.Duration
	now        func() time.Time
}

func NewService(store Store, catalog Catalog, slots Availability, create Creator, resetDelay time.Duration) *Service {
	return &Service{
		store:      store,
		catalog:    catalog,
		slots:      slots,
		create:     create,
		resetDelay: resetDelay,
		now:        time.Now,
	}
}

func (s *Service) view(id string, f *booking.Flow) *Session {
	return &Session{ID: id, Step: f.Step.String(), Flow: f}
}

func (s *Service) Start(ctx context.Context, businessID uint) (*Session, error) {
	id := uuid.NewString()
	f := booking.New()
	if err := s.store.Save(ctx, businessID, id, f); err != nil {
		return nil, err
	}
	return s.view(id, f), nil
}

// load applies the post-submit reset before handing the flow out.
func (s *Service) load(ctx context.Context, businessID uint, id string) (*booking.Flow, error) {
	f, err := s.store.Load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrSessionNotFound
	}
	if f.ResetIfDue(s.now(), s.resetDelay) {
		if err := s.store.Save(ctx, businessID, id, f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (s *Service) Get(ctx context.Context, businessID uint, id string) (*Session, error) {
	f, err := s.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	return s.view(id, f), nil
}

func (s *Service) mutate(ctx context.Context, businessID uint, id string, fn func(*booking.Flow) error) (*Session, error) {
	f, err := s.load(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(f); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, businessID, id, f); err != nil {
		return nil, err
	}
	return s.view(id, f), nil
}

func (s *Service) SelectService(ctx context.Context, b *models.Business, id string, serviceID uint) (*Session, error) {
	return s.mutate(ctx, b.ID, id, func(f *booking.Flow) error {
		if err := s.checkService(ctx, b.ID, serviceID); err != nil {
			return err
		}
		return f.SelectService(serviceID)
	})
}

func (s *Service) SelectStaff(ctx context.Context, b *models.Business, id string, staffID uint) (*Session, error) {
	return s.mutate(ctx, b.ID, id, func(f *booking.Flow) error {
		if err := s.checkStaff(ctx, b.ID, staffID); err != nil {
			return err
		}
		return f.SelectStaff(staffID)
	})
}

// SelectDateTime only accepts a slot that is free right now for the chosen
// service and staff member.
func (s *Service) SelectDateTime(ctx context.Context, b *models.Business, id, date, hm string) (*Session, error) {
	return s.mutate(ctx, b.ID, id, func(f *booking.Flow) error {
		if f.Step != booking.StepSelectDateTime {
			return booking.ErrWrongStep
		}
		start, err := timezone.ParseDateTime(b.Timezone, date, hm)
		if err != nil {
			return ucAppointment.ErrInvalidDateTime
		}
		if err := s.checkSlot(ctx, b.ID, f.ServiceID, f.StaffID, date, start); err != nil {
			return err
		}
		return f.SelectDateTime(start)
	})
}

func (s *Service) Back(ctx context.Context, businessID uint, id string) (*Session, error) {
	return s.mutate(ctx, businessID, id, func(f *booking.Flow) error {
		return f.Back()
	})
}

// Submit creates the appointment. A failure is recorded on the flow and the
// selections are kept so the customer can try again.
func (s *Service) Submit(ctx context.Context, businessID uint, id string, c booking.Contact) (*Session, *models.Appointment, error) {
	f, err := s.load(ctx, businessID, id)
	if err != nil {
		return nil, nil, err
	}

	req, err := f.Confirm(c)
	if err != nil {
		return nil, nil, err
	}

	ap, err := s.create.Execute(ctx, createInput(businessID, req))
	if err != nil {
		f.MarkFailed(err)
		if saveErr := s.store.Save(ctx, businessID, id, f); saveErr != nil {
			return nil, nil, saveErr
		}
		return s.view(id, f), nil, err
	}

	f.MarkSubmitted(ap.ID, s.now())
	if err := s.store.Save(ctx, businessID, id, f); err != nil {
		return nil, nil, err
	}
	return s.view(id, f), ap, nil
}

// Book runs the four steps in one call for clients that do not keep a
// session.
func (s *Service) Book(ctx context.Context, b *models.Business, serviceID, staffID uint, date, hm string, c booking.Contact) (*models.Appointment, error) {
	f := booking.New()

	if err := s.checkService(ctx, b.ID, serviceID); err != nil {
		return nil, err
	}
	if err := f.SelectService(serviceID); err != nil {
		return nil, err
	}
	if err := s.checkStaff(ctx, b.ID, staffID); err != nil {
		return nil, err
	}
	if err := f.SelectStaff(staffID); err != nil {
		return nil, err
	}
	start, err := timezone.ParseDateTime(b.Timezone, date, hm)
	if err != nil {
		return nil, ucAppointment.ErrInvalidDateTime
	}
	if err := f.SelectDateTime(start); err != nil {
		return nil, err
	}

	req, err := f.Confirm(c)
	if err != nil {
		return nil, err
	}
	return s.create.Execute(ctx, createInput(b.ID, req))
}

func createInput(businessID uint, req booking.Request) ucAppointment.CreateAppointmentInput {
	return ucAppointment.CreateAppointmentInput{
		BusinessID:  businessID,
		StaffID:     req.StaffID,
		ServiceID:   req.ServiceID,
		Start:       req.StartAt,
		ClientName:  req.Contact.Name,
		ClientPhone: req.Contact.Phone,
		ClientEmail: req.Contact.Email,
		Notes:       req.Contact.Notes,
		Source:      domain.SourcePublic,
	}
}

func (s *Service) checkService(ctx context.Context, businessID, serviceID uint) error {
	svc, err := s.catalog.GetService(ctx, businessID, serviceID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !svc.Active) {
		return ucAppointment.ErrServiceNotFound
	}
	return err
}

func (s *Service) checkStaff(ctx context.Context, businessID, staffID uint) error {
	st, err := s.catalog.GetStaff(ctx, businessID, staffID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !st.Active) {
		return ucAppointment.ErrStaffNotFound
	}
	return err
}

func (s *Service) checkSlot(ctx context.Context, businessID, serviceID, staffID uint, date string, start time.Time) error {
	slots, err := s.slots.Execute(ctx, ucAppointment.AvailabilityInput{
		BusinessID: businessID,
		StaffID:    staffID,
		ServiceID:  serviceID,
		Date:       date,
		Match:      availability.MatchOverlap,
	})
	if err != nil {
		return err
	}
	slot, ok := availability.Lookup(slots, start)
	if !ok || !slot.Available {
		return ErrSlotUnavailable
	}
	return nil
}
