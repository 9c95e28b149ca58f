package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/turnos/internal/httperr"
	"github.com/BruksfildServices01/turnos/internal/models"
)

var ErrBusinessNotFound = httperr.ErrBusiness("business_not_found")

type BusinessGormRepository struct {
	db *gorm.DB
}

func NewBusinessGormRepository(db *gorm.DB) *BusinessGormRepository {
	return &BusinessGormRepository{db: db}
}

func (r *BusinessGormRepository) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	var b models.Business
	err := r.db.WithContext(ctx).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessGormRepository) GetBySlug(ctx context.Context, slug string) (*models.Business, error) {
	var b models.Business
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Update applies a partial update. The slug column is never written.
func (r *BusinessGormRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	delete(fields, "slug")
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Business{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *BusinessGormRepository) SetPlan(ctx context.Context, id uint, plan, status string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Business{}).
		Where("id = ?", id).
		Updates(map[string]any{"plan": plan, "plan_status": status})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBusinessNotFound
	}
	return nil
}
