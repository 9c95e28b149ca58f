package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Business
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBusinessByID(
	ctx context.Context,
	id uint,
) (*models.Business, error) {

	var b models.Business
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	businessID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", serviceID, businessID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetStaff(
	ctx context.Context,
	businessID uint,
	staffID uint,
) (*models.Staff, error) {

	var st models.Staff
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", staffID, businessID).
		First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *AppointmentGormRepository) ListWorkingHours(
	ctx context.Context,
	staffID uint,
) ([]models.WorkingHours, error) {

	var rows []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

// GetOrCreateClient returns the client of businessID with phone, creating it
// when missing. A concurrent insert of the same phone loses on the unique
// index and reads the winner's row instead.
func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	businessID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	client, err := r.findClient(ctx, businessID, phone)
	if err == nil {
		if email != "" && client.Email == "" {
			client.Email = email
			if err := r.db.WithContext(ctx).
				Model(client).
				Update("email", email).Error; err != nil {
				return nil, err
			}
		}
		return client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := models.Client{
		BusinessID: businessID,
		Name:       name,
		Phone:      phone,
		Email:      email,
	}

	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return r.findClient(ctx, businessID, phone)
		}
		return nil, err
	}

	return &created, nil
}

func (r *AppointmentGormRepository) findClient(ctx context.Context, businessID uint, phone string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND phone = ?", businessID, phone).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

// CreateAppointment locks the staff row so concurrent bookings for the same
// staff member run one at a time, then checks for an overlapping blocking
// appointment before inserting. The partial unique index on
// (staff_id, start_time) catches anything that slips through.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var staff models.Staff
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ? AND business_id = ?", ap.StaffID, ap.BusinessID).
			First(&staff).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Where(
				"staff_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
				ap.StaffID,
				domain.BlockingStatuses(),
				ap.EndTime,
				ap.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrTimeConflict
		}

		if err := tx.Omit(clause.Associations).Create(ap).Error; err != nil {
			if httperr.IsUniqueViolation(err) || httperr.IsExclusionConflict(err) {
				return domain.ErrTimeConflict
			}
			return err
		}
		return nil
	})
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	businessID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	businessID uint,
	appointmentID uint,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Service").
		Where(
			"business_id = ? AND start_time >= ? AND start_time < ?",
			f.BusinessID,
			f.From,
			f.To,
		)

	if f.StaffID != 0 {
		q = q.Where("staff_id = ?", f.StaffID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
