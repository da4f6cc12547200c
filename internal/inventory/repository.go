package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateConfiguration(ctx context.Context, types []UnitType, units []Unit) error
	GetUnitTypesByEvent(ctx context.Context, eventID uuid.UUID) ([]UnitType, error)
	GetUnitsByEvent(ctx context.Context, eventID uuid.UUID) ([]Unit, error)
	GetUnitsByLabels(ctx context.Context, eventID uuid.UUID, unitIDs []string) ([]Unit, error)
	UpdateUnitTypePrice(ctx context.Context, eventID uuid.UUID, name string, price float64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateConfiguration(ctx context.Context, types []UnitType, units []Unit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(types) > 0 {
			if err := tx.Create(&types).Error; err != nil {
				return err
			}
		}
		if len(units) > 0 {
			if err := tx.Create(&units).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) GetUnitTypesByEvent(ctx context.Context, eventID uuid.UUID) ([]UnitType, error) {
	var types []UnitType
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) GetUnitsByEvent(ctx context.Context, eventID uuid.UUID) ([]Unit, error) {
	var units []Unit
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("unit_id ASC").
		Find(&units).Error
	return units, err
}

func (r *repository) GetUnitsByLabels(ctx context.Context, eventID uuid.UUID, unitIDs []string) ([]Unit, error) {
	var units []Unit
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where("unit_id IN ?", unitIDs).
		Find(&units).Error
	return units, err
}

func (r *repository) UpdateUnitTypePrice(ctx context.Context, eventID uuid.UUID, name string, price float64) error {
	return r.db.WithContext(ctx).
		Model(&UnitType{}).
		Where("event_id = ? AND name = ?", eventID, name).
		Update("price", price).Error
}
