package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/models"
)

var (
	ErrTimeConflict = httperr.ErrBusiness("time_conflict")
	ErrNotFound     = httperr.ErrBusiness("appointment_not_found")
)

// ListFilter selects appointments of one business whose start falls in
// [From, To). Zero StaffID means every staff member; empty Statuses means
// any status.
type ListFilter struct {
	BusinessID uint
	StaffID    uint
	From       time.Time
	To         time.Time
	Statuses   []string
}

type Repository interface {
	// -------- Business --------
	GetBusinessByID(
		ctx context.Context,
		id uint,
	) (*models.Business, error)

	// -------- Catalog --------
	GetService(
		ctx context.Context,
		businessID uint,
		serviceID uint,
	) (*models.Service, error)

	GetStaff(
		ctx context.Context,
		businessID uint,
		staffID uint,
	) (*models.Staff, error)

	ListWorkingHours(
		ctx context.Context,
		staffID uint,
	) ([]models.WorkingHours, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		businessID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Appointment (create / conflict) --------

	// CreateAppointment inserts ap unless a blocking appointment of the
	// same staff member overlaps it, in which case it returns
	// ErrTimeConflict.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) error

	// -------- Listing / availability --------
	ListAppointments(
		ctx context.Context,
		f ListFilter,
	) ([]models.Appointment, error)
}
