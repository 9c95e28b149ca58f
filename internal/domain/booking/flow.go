package booking

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/validators"
)

// ===============================
// Steps
// ===============================

type Step int

const (
	StepSelectService Step = iota + 1
	StepSelectStaff
	StepSelectDateTime
	StepConfirmDetails
)

func (s Step) String() string {
	switch s {
	case StepSelectService:
		return "select_service"
	case StepSelectStaff:
		return "select_staff"
	case StepSelectDateTime:
		return "select_datetime"
	case StepConfirmDetails:
		return "confirm_details"
	}
	return "unknown"
}

var (
	ErrWrongStep        = httperr.ErrBusiness("wrong_step")
	ErrFirstStep        = httperr.ErrBusiness("first_step")
	ErrIncomplete       = httperr.ErrBusiness("incomplete_selection")
	ErrAlreadySubmitted = httperr.ErrBusiness("already_submitted")
	ErrInvalidSelection = httperr.ErrBusiness("invalid_selection")
	ErrContactName      = httperr.ErrBusiness("missing_client_name")
	ErrContactPhone     = httperr.ErrBusiness("invalid_client_phone")
	ErrContactEmail     = httperr.ErrBusiness("invalid_client_email")
)

// ===============================
// Flow
// ===============================

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Request is what a confirmed flow asks the appointment use case to create.
type Request struct {
	ServiceID uint
	StaffID   uint
	StartAt   time.Time
	Contact   Contact
}

// Flow is the four-step public booking wizard. Moving back never clears a
// selection; a successful submit clears everything once the reset delay
// has passed.
type Flow struct {
	Step      Step       `json:"step"`
	ServiceID uint       `json:"service_id,omitempty"`
	StaffID   uint       `json:"staff_id,omitempty"`
	StartAt   *time.Time `json:"start_at,omitempty"`
	Contact   Contact    `json:"contact"`

	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	AppointmentID uint       `json:"appointment_id,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}

func New() *Flow {
	return &Flow{Step: StepSelectService}
}

func (f *Flow) Submitted() bool {
	return f.SubmittedAt != nil
}

// Complete reports whether service, staff and date/time are all chosen.
func (f *Flow) Complete() bool {
	return f.ServiceID != 0 && f.StaffID != 0 && f.StartAt != nil
}

func (f *Flow) guard(step Step) error {
	if f.Submitted() {
		return ErrAlreadySubmitted
	}
	if f.Step != step {
		return ErrWrongStep
	}
	return nil
}

func (f *Flow) SelectService(serviceID uint) error {
	if err := f.guard(StepSelectService); err != nil {
		return err
	}
	if serviceID == 0 {
		return ErrInvalidSelection
	}
	f.ServiceID = serviceID
	f.Step = StepSelectStaff
	f.LastError = ""
	return nil
}

func (f *Flow) SelectStaff(staffID uint) error {
	if err := f.guard(StepSelectStaff); err != nil {
		return err
	}
	if staffID == 0 {
		return ErrInvalidSelection
	}
	f.StaffID = staffID
	f.Step = StepSelectDateTime
	f.LastError = ""
	return nil
}

func (f *Flow) SelectDateTime(start time.Time) error {
	if err := f.guard(StepSelectDateTime); err != nil {
		return err
	}
	if start.IsZero() {
		return ErrInvalidSelection
	}
	f.StartAt = &start
	if !f.Complete() {
		return ErrIncomplete
	}
	f.Step = StepConfirmDetails
	f.LastError = ""
	return nil
}

func (f *Flow) Back() error {
	if f.Submitted() {
		return ErrAlreadySubmitted
	}
	if f.Step <= StepSelectService {
		return ErrFirstStep
	}
	f.Step--
	f.LastError = ""
	return nil
}

// Confirm validates the contact details and produces the create request.
// The flow stays on ConfirmDetails until MarkSubmitted or MarkFailed.
func (f *Flow) Confirm(c Contact) (Request, error) {
	if err := f.guard(StepConfirmDetails); err != nil {
		return Request{}, err
	}
	if !f.Complete() {
		return Request{}, ErrIncomplete
	}

	c.Name = strings.TrimSpace(c.Name)
	c.Phone = validators.NormalizePhone(c.Phone)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Notes = strings.TrimSpace(c.Notes)

	switch {
	case c.Name == "":
		return Request{}, ErrContactName
	case !validators.IsPhone(c.Phone):
		return Request{}, ErrContactPhone
	case c.Email != "" && !validators.IsEmail(c.Email):
		return Request{}, ErrContactEmail
	}

	f.Contact = c
	return Request{
		ServiceID: f.ServiceID,
		StaffID:   f.StaffID,
		StartAt:   *f.StartAt,
		Contact:   c,
	}, nil
}

func (f *Flow) MarkSubmitted(appointmentID uint, now time.Time) {
	f.SubmittedAt = &now
	f.AppointmentID = appointmentID
	f.LastError = ""
}

// MarkFailed keeps every selection so the customer can resubmit.
func (f *Flow) MarkFailed(err error) {
	if err != nil {
		f.LastError = err.Error()
	}
}

// ResetIfDue returns the flow to step one once delay has passed since a
// successful submit. It reports whether a reset happened.
func (f *Flow) ResetIfDue(now time.Time, delay time.Duration) bool {
	if f.SubmittedAt == nil || now.Before(f.SubmittedAt.Add(delay)) {
		return false
	}
	*f = *New()
	return true
}
