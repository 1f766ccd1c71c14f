// Package catalog holds the read-only reference data loaded at startup:
// the catalog (year → artist, species, face value) and the reference images.
package catalog

import (
	"context"
	"math"
	"sort"

	"github.com/bitly/go-simplejson"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultCatalogAsset — имя встроенного справочника в офлайн-ассетах.
const DefaultCatalogAsset = "catalog.json"

// Entry — справочные данные выпуска одного года.
type Entry struct {
	Artist  string
	Species string
	Face    decimal.NullDecimal
}

// Lookup — неизменяемое отображение год → Entry. Нулевое значение пусто и готово к чтению.
type Lookup struct {
	entries map[int]Entry
}

// NewLookup копирует entries в новый Lookup.
func NewLookup(entries map[int]Entry) *Lookup {
	m := make(map[int]Entry, len(entries))
	for y, e := range entries {
		m[y] = e
	}
	return &Lookup{entries: m}
}

// Defaults возвращает встроенную таблицу.
func Defaults() *Lookup {
	return NewLookup(map[int]Entry{
		1934: {Artist: `J.N. "Ding" Darling`, Species: "Mallards", Face: face("1.00")},
		1959: {Artist: "Maynard Reece", Species: "King Eiders", Face: face("3.00")},
		1991: {Artist: "Robert Steiner", Species: "Snow Geese", Face: face("25.00")},
		2020: {Artist: "James Hautman", Species: "Black-bellied Whistling-Ducks", Face: face("25.00")},
	})
}

func face(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// Lookup возвращает запись для года.
func (l *Lookup) Lookup(year int) (Entry, bool) {
	if l == nil {
		return Entry{}, false
	}
	e, ok := l.entries[year]
	return e, ok
}

// Len — число лет в справочнике.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Years возвращает годы по возрастанию.
func (l *Lookup) Years() []int {
	if l == nil {
		return nil
	}
	years := make([]int, 0, len(l.entries))
	for y := range l.entries {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Load строит справочник: встроенная таблица плюс внешний документ по location.
// Ошибки загрузки и разбора документа не возвращаются: остаётся встроенная таблица.
func Load(ctx context.Context, f Fetcher, location string, logger *zap.SugaredLogger) *Lookup {
	base := Defaults()
	data, err := f.Fetch(ctx, location, DefaultCatalogAsset)
	if err != nil {
		logger.Debugw("catalog: external document skipped", "location", location, "error", err)
		return base
	}
	merged, err := ParseCatalog(data, base)
	if err != nil {
		logger.Debugw("catalog: external document ignored", "location", location, "error", err)
		return base
	}
	return merged
}

// ParseCatalog накладывает документ [{year, artist, species, face}] поверх base.
// Строка документа заменяет запись года целиком; face учитывается, только если это конечное число.
func ParseCatalog(data []byte, base *Lookup) (*Lookup, error) {
	entries := make(map[int]Entry, base.Len())
	if base != nil {
		for y, e := range base.entries {
			entries[y] = e
		}
	}
	err := eachRow(data, func(year int, row *simplejson.Json) {
		e := Entry{
			Artist:  row.Get("artist").MustString(),
			Species: row.Get("species").MustString(),
		}
		if f, err := row.Get("face").Float64(); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			e.Face = decimal.NewNullDecimal(decimal.NewFromFloat(f))
		}
		entries[year] = e
	})
	if err != nil {
		return nil, err
	}
	return &Lookup{entries: entries}, nil
}
