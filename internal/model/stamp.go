package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// MinYear — первый выпуск федеральной утиной марки (RW1).
	MinYear = 1934
	MaxYear = 2100

	// DateLayout — формат даты покупки.
	DateLayout = "2006-01-02"
)

var (
	ErrInvalidYear     = fmt.Errorf("enter a valid year (%d–%d)", MinYear, MaxYear)
	ErrNegativeAmount  = errors.New("amounts must not be negative")
	ErrInvalidDate     = errors.New("purchase date must be YYYY-MM-DD")
	ErrEmptyIdentifier = errors.New("empty id")
)

// Stamp — запись коллекции (одна марка). JSON-ключи совпадают с форматом экспорта.
type Stamp struct {
	ID      string `gorm:"primaryKey" json:"id"`
	AddedAt int64  `gorm:"not null;index" json:"addedAt,omitempty"` // Unix ms, 0 — неизвестно
	Year    int    `gorm:"index" json:"year"`

	// суммы хранятся строкой: numeric в SQLite теряет точность после 15 знаков
	FaceValue decimal.NullDecimal `gorm:"type:text" json:"faceValue"`
	Price     decimal.Decimal     `gorm:"type:text" json:"price"`
	EstValue  decimal.NullDecimal `gorm:"type:text" json:"estValue"`

	PurchaseDate  *string `json:"purchaseDate"`
	Condition     string  `json:"condition"`
	SignatureType string  `json:"signatureType"`
	Acquisition   string  `json:"acquisition"`
	Artist        string  `json:"artist"`
	Species       string  `json:"species"`
	Scott         string  `json:"scott"`
	PlatePos      string  `json:"platePos"`
	Notes         string  `json:"notes"`

	ImageID string `gorm:"index" json:"imageId,omitempty"`
}

// TimePoint возвращает момент, к которому относится покупка:
// дата покупки, иначе время добавления, иначе now.
func (s Stamp) TimePoint(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	if s.PurchaseDate != nil && *s.PurchaseDate != "" {
		if t, err := time.ParseInLocation(DateLayout, *s.PurchaseDate, loc); err == nil {
			return t
		}
	}
	if s.AddedAt != 0 {
		return time.UnixMilli(s.AddedAt).In(loc)
	}
	return now.In(loc)
}

// ValidateYear проверяет год для формы ввода.
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return ErrInvalidYear
	}
	return nil
}

// Validate проверяет инварианты записи перед сохранением из формы.
func (s Stamp) Validate() error {
	if s.ID == "" {
		return ErrEmptyIdentifier
	}
	if err := ValidateYear(s.Year); err != nil {
		return err
	}
	if err := s.CheckAmounts(); err != nil {
		return err
	}
	if s.PurchaseDate != nil && *s.PurchaseDate != "" {
		if _, err := time.Parse(DateLayout, *s.PurchaseDate); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

// CheckAmounts отклоняет отрицательные суммы.
func (s Stamp) CheckAmounts() error {
	if s.Price.IsNegative() ||
		(s.FaceValue.Valid && s.FaceValue.Decimal.IsNegative()) ||
		(s.EstValue.Valid && s.EstValue.Decimal.IsNegative()) {
		return ErrNegativeAmount
	}
	return nil
}

// StampPatch — только редактируемые пользователем поля; nil означает «не менять».
type StampPatch struct {
	Year          *int
	FaceValue     *decimal.NullDecimal
	Price         *decimal.Decimal
	EstValue      *decimal.NullDecimal
	PurchaseDate  *string // "" очищает дату
	Condition     *string
	SignatureType *string
	Acquisition   *string
	Artist        *string
	Species       *string
	Scott         *string
	PlatePos      *string
	Notes         *string
}

// Merge применяет patch к existing и возвращает новую проверенную запись.
// ID, AddedAt и ImageID не меняются: ими управляет сервис.
func Merge(existing Stamp, p StampPatch) (Stamp, error) {
	out := existing
	if p.Year != nil {
		out.Year = *p.Year
	}
	if p.FaceValue != nil {
		out.FaceValue = *p.FaceValue
	}
	if p.Price != nil {
		out.Price = *p.Price
	}
	if p.EstValue != nil {
		out.EstValue = *p.EstValue
	}
	if p.PurchaseDate != nil {
		if d := strings.TrimSpace(*p.PurchaseDate); d != "" {
			out.PurchaseDate = &d
		} else {
			out.PurchaseDate = nil
		}
	}
	setText(&out.Condition, p.Condition)
	setText(&out.SignatureType, p.SignatureType)
	setText(&out.Acquisition, p.Acquisition)
	setText(&out.Artist, p.Artist)
	setText(&out.Species, p.Species)
	setText(&out.Scott, p.Scott)
	setText(&out.PlatePos, p.PlatePos)
	setText(&out.Notes, p.Notes)

	if err := out.Validate(); err != nil {
		return Stamp{}, err
	}
	return out, nil
}

func setText(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// SortNewestFirst упорядочивает по AddedAt по убыванию. Записи без AddedAt идут в конец, равные сортируются по ID.
func SortNewestFirst(list []Stamp) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].AddedAt != list[j].AddedAt {
			return list[i].AddedAt > list[j].AddedAt
		}
		return list[i].ID < list[j].ID
	})
}
