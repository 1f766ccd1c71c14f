package repo

import (
	"StampVault/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StampRepository — таблица stamps хранилища записей.
type StampRepository interface {
	// Put полностью перезаписывает запись по ID (вставка, если записи нет).
	Put(ctx context.Context, s *model.Stamp) error
	// Get возвращает запись или ErrNotFound.
	Get(ctx context.Context, id string) (*model.Stamp, error)
	// Delete удаляет запись; отсутствие записи ошибкой не считается.
	Delete(ctx context.Context, id string) error
	// GetAll возвращает все записи в порядке хранения.
	GetAll(ctx context.Context) ([]model.Stamp, error)
}

type stampRepo struct {
	db *gorm.DB
}

// NewStampRepository создаёт реализацию репозитория для Stamp.
func NewStampRepository(db *gorm.DB) StampRepository {
	return &stampRepo{db: db}
}

func (r *stampRepo) Put(ctx context.Context, s *model.Stamp) error {
	if s == nil || s.ID == "" {
		return model.ErrEmptyIdentifier
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(s).Error
}

func (r *stampRepo) Get(ctx context.Context, id string) (*model.Stamp, error) {
	var s model.Stamp
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *stampRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Stamp{}).Error
}

func (r *stampRepo) GetAll(ctx context.Context) ([]model.Stamp, error) {
	var list []model.Stamp
	if err := r.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ThemeStore — хранилище темы интерфейса; живёт вне базы записей.
type ThemeStore interface {
	LoadTheme() (string, error)
	SaveTheme(theme string) error
	ToggleTheme() (string, error)
}
