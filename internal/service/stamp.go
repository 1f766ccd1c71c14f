package service

import (
	"StampVault/internal/model"
	"StampVault/internal/repo"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidYear — год не указан или вне [1934, 2100].
	ErrInvalidYear = model.ErrInvalidYear
	// ErrImageRequired — новая запись без изображения.
	ErrImageRequired = errors.New("please add an image")
	// ErrImageTooLarge — изображение больше лимита.
	ErrImageTooLarge = errors.New("image is too large")
)

// SaveRequest — вход Save. Пустой EditingID означает создание новой записи.
type SaveRequest struct {
	EditingID string
	Patch     model.StampPatch
	Image     []byte // nil — изображение не прикладывалось
}

// StampService инкапсулирует сценарии добавления, редактирования и удаления марок.
type StampService struct {
	stamps   repo.StampRepository
	images   repo.ImageRepository
	logger   *zap.SugaredLogger
	maxImage int64

	now   func() time.Time
	newID func() string
}

// NewStampService создаёт сервис поверх двух таблиц хранилища.
// maxImage <= 0 отключает проверку размера изображения.
func NewStampService(stamps repo.StampRepository, images repo.ImageRepository, logger *zap.SugaredLogger, maxImage int64) *StampService {
	return &StampService{
		stamps:   stamps,
		images:   images,
		logger:   logger,
		maxImage: maxImage,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Save создаёт или редактирует запись.
// Порядок: проверка и слияние, запись изображения, запись марки, удаление заменённого изображения.
func (s *StampService) Save(ctx context.Context, req SaveRequest) (*model.Stamp, error) {
	creating := req.EditingID == ""
	if creating && (req.Patch.Year == nil || model.ValidateYear(*req.Patch.Year) != nil) {
		return nil, ErrInvalidYear
	}
	if creating && len(req.Image) == 0 {
		return nil, ErrImageRequired
	}
	if s.maxImage > 0 && int64(len(req.Image)) > s.maxImage {
		return nil, ErrImageTooLarge
	}

	var base model.Stamp
	if creating {
		base = model.Stamp{ID: s.newID(), AddedAt: s.now().UnixMilli()}
	} else {
		existing, err := s.stamps.Get(ctx, req.EditingID)
		if err != nil {
			return nil, fmt.Errorf("load stamp %s: %w", req.EditingID, err)
		}
		base = *existing
	}
	merged, err := model.Merge(base, req.Patch)
	if err != nil {
		return nil, err
	}

	oldImage := base.ImageID
	if len(req.Image) > 0 {
		img := &model.Image{
			ID:          s.newID(),
			ContentType: http.DetectContentType(req.Image),
			Data:        req.Image,
		}
		if err := s.images.Put(ctx, img); err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		merged.ImageID = img.ID
	}

	if err := s.stamps.Put(ctx, &merged); err != nil {
		return nil, fmt.Errorf("store stamp: %w", err)
	}

	// прежнее изображение больше ни на что не ссылается
	if oldImage != "" && oldImage != merged.ImageID {
		if err := s.images.Delete(ctx, oldImage); err != nil {
			s.logger.Warnw("Save: failed to delete replaced image", "stamp_id", merged.ID, "image_id", oldImage, "error", err)
		}
	}
	s.logger.Debugw("Save: stamp stored", "stamp_id", merged.ID, "created", creating)
	return &merged, nil
}

// Delete удаляет запись и её изображение: сначала изображение, затем запись.
func (s *StampService) Delete(ctx context.Context, id string) error {
	st, err := s.stamps.Get(ctx, id)
	if err != nil {
		return err
	}
	if st.ImageID != "" {
		if err := s.images.Delete(ctx, st.ImageID); err != nil {
			return fmt.Errorf("delete image: %w", err)
		}
	}
	if err := s.stamps.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete stamp: %w", err)
	}
	s.logger.Debugw("Delete: stamp removed", "stamp_id", id)
	return nil
}

// Get возвращает запись по ID.
func (s *StampService) Get(ctx context.Context, id string) (*model.Stamp, error) {
	return s.stamps.Get(ctx, id)
}

// Image возвращает изображение по ID.
func (s *StampService) Image(ctx context.Context, id string) (*model.Image, error) {
	return s.images.Get(ctx, id)
}

// List возвращает все записи, новые первыми.
func (s *StampService) List(ctx context.Context) ([]model.Stamp, error) {
	list, err := s.stamps.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	model.SortNewestFirst(list)
	return list, nil
}
