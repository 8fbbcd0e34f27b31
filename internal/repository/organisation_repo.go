package repository

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrganisationRepository defines the interface for data access of Organisation entities
type OrganisationRepository interface {
	Create(ctx context.Context, org *model.Organisation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Organisation, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Organisation, error)
	List(ctx context.Context, page, limit int) ([]model.Organisation, int64, error)
	Update(ctx context.Context, org *model.Organisation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type organisationRepository struct {
	db *gorm.DB
}

// NewOrganisationRepository returns a new instance of OrganisationRepository
func NewOrganisationRepository(db *gorm.DB) OrganisationRepository {
	return &organisationRepository{db: db}
}

func (r *organisationRepository) Create(ctx context.Context, org *model.Organisation) error {
	return GetDB(ctx, r.db).Create(org).Error
}

func (r *organisationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Organisation, error) {
	var org model.Organisation
	if err := GetDB(ctx, r.db).Preload("Owner").First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: organisation with id %s does not exist", model.ErrNotFound, id)
		}
		return nil, err
	}
	return &org, nil
}

func (r *organisationRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Organisation, error) {
	var orgs []model.Organisation
	if err := GetDB(ctx, r.db).Where("owner_id = ?", ownerID).Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *organisationRepository) List(ctx context.Context, page, limit int) ([]model.Organisation, int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.Organisation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orgs []model.Organisation
	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).Preload("Owner").Order("name asc").Offset(offset).Limit(limit).Find(&orgs).Error; err != nil {
		return nil, 0, err
	}

	return orgs, total, nil
}

func (r *organisationRepository) Update(ctx context.Context, org *model.Organisation) error {
	return GetDB(ctx, r.db).Save(org).Error
}

func (r *organisationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Organisation{}).Error
}
