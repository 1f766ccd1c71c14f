// Package autofill fills empty stamp form fields from the catalog by year.
package autofill

import (
	"strconv"

	"StampVault/internal/catalog"
	"StampVault/internal/model"
)

// Form — поля формы, которые может заполнить политика. Значения хранятся строками, как в форме ввода.
type Form struct {
	Scott     string
	FaceValue string
	Artist    string
	Species   string
}

// CatalogNumber выводит номер по каталогу Скотта: RW1 для 1934, пусто для более ранних лет.
func CatalogNumber(year int) string {
	if year < model.MinYear {
		return ""
	}
	return "RW" + strconv.Itoa(year-(model.MinYear-1))
}

// Policy — политика автозаполнения.
type Policy struct {
	Catalog *catalog.Lookup
	Enabled bool
}

// Apply заполняет только пустые поля формы; непустые никогда не перезаписываются.
func (p Policy) Apply(form *Form, year int) {
	if !p.Enabled || form == nil {
		return
	}
	if sc := CatalogNumber(year); sc != "" && form.Scott == "" {
		form.Scott = sc
	}
	e, ok := p.Catalog.Lookup(year)
	if !ok {
		return
	}
	if e.Face.Valid && !e.Face.Decimal.IsZero() && form.FaceValue == "" {
		form.FaceValue = e.Face.Decimal.StringFixed(2)
	}
	if e.Artist != "" && form.Artist == "" {
		form.Artist = e.Artist
	}
	if e.Species != "" && form.Species == "" {
		form.Species = e.Species
	}
}
