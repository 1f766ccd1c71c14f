// Package render builds the collection and value chart views.
package render

import (
	"time"

	"StampVault/internal/model"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Placeholder выводится вместо отсутствующего значения.
const Placeholder = "—"

// DisplayDateLayout — формат даты покупки в карточке.
const DisplayDateLayout = "Jan 2, 2006"

// usd — через конструктор Money, чтобы валюта никогда не была nil.
var usd = *money.New(0, money.USD).Currency()

// FormatUSD форматирует сумму в долларах: $1,234.50, -$5.00.
func FormatUSD(d decimal.Decimal) string {
	minor := d.Shift(int32(usd.Fraction)).Round(0)
	return usd.Formatter().Format(minor.IntPart())
}

// FormatFace — номинал; прочерк, только если значение отсутствует.
func FormatFace(v decimal.NullDecimal) string {
	if !v.Valid {
		return Placeholder
	}
	return FormatUSD(v.Decimal)
}

// FormatEst — оценка; прочерк при отсутствии или нуле.
func FormatEst(v decimal.NullDecimal) string {
	if !v.Valid || v.Decimal.IsZero() {
		return Placeholder
	}
	return FormatUSD(v.Decimal)
}

// FormatPurchaseDate выводит дату покупки как "Jan 2, 2006".
// Нераспознанная дата выводится как есть.
func FormatPurchaseDate(d *string) string {
	if d == nil || *d == "" {
		return Placeholder
	}
	t, err := time.Parse(model.DateLayout, *d)
	if err != nil {
		return *d
	}
	return t.Format(DisplayDateLayout)
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// estOrZero — оценка для сумм; отсутствие считается нулём.
func estOrZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}
