package repo

import (
	"StampVault/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ImageRepository — таблица images хранилища (бинарные данные изображений).
type ImageRepository interface {
	Put(ctx context.Context, img *model.Image) error
	Get(ctx context.Context, id string) (*model.Image, error)
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]model.Image, error)
}

type imageRepo struct {
	db *gorm.DB
}

// NewImageRepository создаёт реализацию репозитория для Image.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepo{db: db}
}

func (r *imageRepo) Put(ctx context.Context, img *model.Image) error {
	if img == nil || img.ID == "" {
		return model.ErrEmptyIdentifier
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(img).Error
}

func (r *imageRepo) Get(ctx context.Context, id string) (*model.Image, error) {
	var img model.Image
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&img).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &img, nil
}

func (r *imageRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Image{}).Error
}

func (r *imageRepo) GetAll(ctx context.Context) ([]model.Image, error) {
	var list []model.Image
	if err := r.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
