package render

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"StampVault/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EmptyCollection — текст пустой коллекции.
const EmptyCollection = `No stamps yet. Go to "Add a stamp".`

// StampLister — источник всех записей.
type StampLister interface {
	GetAll(ctx context.Context) ([]model.Stamp, error)
}

// ImageGetter — источник изображений.
type ImageGetter interface {
	Get(ctx context.Context, id string) (*model.Image, error)
}

// Card — одна карточка коллекции, все значения уже отформатированы.
type Card struct {
	ID        string
	Year      string
	Scott     string
	Species   string
	Artist    string
	Condition string
	Signature string
	Face      string
	Paid      string
	Est       string
	Acquired  string
	Date      string
	PlatePos  string
	Notes     string
	ImageURL  string // пусто, если изображения нет или оно не читается
}

// Totals — агрегаты по коллекции. Отсутствующая оценка считается нулём.
type Totals struct {
	Count int
	Spend decimal.Decimal
	Est   decimal.Decimal
}

// Delta — разница оценки и затрат.
func (t Totals) Delta() decimal.Decimal { return t.Est.Sub(t.Spend) }

// String — строка итогов; пустая для пустой коллекции.
func (t Totals) String() string {
	if t.Count == 0 {
		return ""
	}
	return fmt.Sprintf("Items: %d • Total Spend: %s • Total Est. Value: %s • Δ: %s",
		t.Count, FormatUSD(t.Spend), FormatUSD(t.Est), FormatUSD(t.Delta()))
}

// CollectionView — результат Render.
type CollectionView struct {
	Cards  []Card
	Totals Totals
}

// Empty сообщает, что в коллекции нет записей.
func (v *CollectionView) Empty() bool { return v == nil || len(v.Cards) == 0 }

// CollectionRenderer строит карточки коллекции.
// Ссылки на изображения живут до следующего Render или Close.
type CollectionRenderer struct {
	stamps StampLister
	images ImageGetter
	linker Linker
	logger *zap.SugaredLogger

	mu    sync.Mutex
	links []string
}

// NewCollectionRenderer создаёт рендерер. logger может быть nil.
func NewCollectionRenderer(stamps StampLister, images ImageGetter, linker Linker, logger *zap.SugaredLogger) *CollectionRenderer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CollectionRenderer{stamps: stamps, images: images, linker: linker, logger: logger}
}

// Render читает все записи и строит представление. Ресурсы предыдущего вызова освобождаются до создания новых.
func (r *CollectionRenderer) Render(ctx context.Context) (*CollectionView, error) {
	list, err := r.stamps.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stamps: %w", err)
	}
	model.SortNewestFirst(list)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked()

	view := &CollectionView{Cards: make([]Card, 0, len(list))}
	for _, s := range list {
		view.Totals.Count++
		view.Totals.Spend = view.Totals.Spend.Add(s.Price)
		view.Totals.Est = view.Totals.Est.Add(estOrZero(s.EstValue))

		card := NewCard(s)
		card.ImageURL = r.link(ctx, s)
		view.Cards = append(view.Cards, card)
	}
	return view, nil
}

// Close освобождает все ресурсы последнего Render.
func (r *CollectionRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked()
}

func (r *CollectionRenderer) releaseLocked() {
	for _, l := range r.links {
		r.linker.Revoke(l)
	}
	r.links = nil
}

// link создаёт ресурс для изображения записи; ошибки не прерывают рендер.
func (r *CollectionRenderer) link(ctx context.Context, s model.Stamp) string {
	if s.ImageID == "" || r.images == nil || r.linker == nil {
		return ""
	}
	img, err := r.images.Get(ctx, s.ImageID)
	if err != nil {
		r.logger.Debugw("render: image unavailable", "stamp_id", s.ID, "image_id", s.ImageID, "error", err)
		return ""
	}
	l, err := r.linker.Create(img)
	if err != nil {
		r.logger.Warnw("render: failed to link image", "stamp_id", s.ID, "error", err)
		return ""
	}
	r.links = append(r.links, l)
	return l
}

// NewCard форматирует запись для показа; ImageURL не заполняется.
func NewCard(s model.Stamp) Card {
	year := Placeholder
	if s.Year != 0 {
		year = strconv.Itoa(s.Year)
	}
	return Card{
		ID:        s.ID,
		Year:      year,
		Scott:     s.Scott,
		Species:   s.Species,
		Artist:    s.Artist,
		Condition: orPlaceholder(s.Condition),
		Signature: s.SignatureType,
		Face:      FormatFace(s.FaceValue),
		Paid:      FormatUSD(s.Price),
		Est:       FormatEst(s.EstValue),
		Acquired:  orPlaceholder(s.Acquisition),
		Date:      FormatPurchaseDate(s.PurchaseDate),
		PlatePos:  s.PlatePos,
		Notes:     s.Notes,
	}
}
