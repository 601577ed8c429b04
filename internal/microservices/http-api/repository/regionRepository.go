package repository

import (
	"context"
	"fmt"

	"novelhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type RegionRepo struct {
	db *gorm.DB
}

func NewRegionRepo(db *gorm.DB) *RegionRepo {
	return &RegionRepo{db: db}
}

func (r *RegionRepo) GetAll(ctx context.Context) ([]models.Region, error) {
	var list []models.Region
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get regions: %w", err)
	}
	return list, nil
}

func (r *RegionRepo) GetByID(ctx context.Context, id int64) (*models.Region, error) {
	var region models.Region
	if err := r.db.WithContext(ctx).First(&region, id).Error; err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *RegionRepo) Create(ctx context.Context, region *models.Region) error {
	if err := r.db.WithContext(ctx).Create(region).Error; err != nil {
		return fmt.Errorf("create region: %w", err)
	}
	return nil
}
