package render

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"StampVault/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BucketLayout — ключ месячной корзины.
const BucketLayout = "2006-01"

// Point — накопленные суммы на конец месяца.
type Point struct {
	Label string
	Spend decimal.Decimal
	Est   decimal.Decimal
}

// BuildSeries группирует записи по месяцам и возвращает накопленные итоги по возрастанию месяца.
func BuildSeries(stamps []model.Stamp, now time.Time, loc *time.Location) []Point {
	type dated struct {
		at         time.Time
		spend, est decimal.Decimal
	}
	pts := make([]dated, 0, len(stamps))
	for _, s := range stamps {
		pts = append(pts, dated{at: s.TimePoint(now, loc), spend: s.Price, est: estOrZero(s.EstValue)})
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].at.Before(pts[j].at) })

	sums := make(map[string]*Point)
	var keys []string
	for _, p := range pts {
		k := p.at.Format(BucketLayout)
		b, ok := sums[k]
		if !ok {
			b = &Point{Label: k}
			sums[k] = b
			keys = append(keys, k)
		}
		b.Spend = b.Spend.Add(p.spend)
		b.Est = b.Est.Add(p.est)
	}
	sort.Strings(keys)

	series := make([]Point, 0, len(keys))
	var spend, est decimal.Decimal
	for _, k := range keys {
		spend = spend.Add(sums[k].Spend)
		est = est.Add(sums[k].Est)
		series = append(series, Point{Label: k, Spend: spend, Est: est})
	}
	return series
}

// Summary — итог последней точки ряда.
type Summary struct {
	Buckets int
	Spend   decimal.Decimal
	Est     decimal.Decimal
}

func (s Summary) Delta() decimal.Decimal { return s.Est.Sub(s.Spend) }

// String — текст под графиком; пустой, если данных нет.
func (s Summary) String() string {
	if s.Buckets == 0 {
		return ""
	}
	return fmt.Sprintf("Cumulative spend %s vs. estimated value %s (Δ %s)",
		FormatUSD(s.Spend), FormatUSD(s.Est), FormatUSD(s.Delta()))
}

// ChartConfig — внешний вид графика.
type ChartConfig struct {
	Width, Height                        float64
	PadLeft, PadRight, PadTop, PadBottom float64

	Background string
	GridColor  string
	LabelColor string
	SpendColor string
	EstColor   string

	GridWidth float64
	LineWidth float64
	Font      string

	// MinCeiling — минимальный потолок оси Y.
	MinCeiling float64
}

// DefaultChartConfig — светлая тема.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      720,
		Height:     280,
		PadLeft:    56,
		PadRight:   10,
		PadTop:     12,
		PadBottom:  26,
		Background: "#ffffff",
		GridColor:  "rgba(200,200,200,.15)",
		LabelColor: "#6b7280",
		SpendColor: "#e35d6a",
		EstColor:   "#20c997",
		GridWidth:  1,
		LineWidth:  2.4,
		Font:       "12px system-ui",
		MinCeiling: 10,
	}
}

// ChartConfigForTheme возвращает пресет для light или dark.
func ChartConfigForTheme(theme string) ChartConfig {
	cfg := DefaultChartConfig()
	if theme == ThemeDark {
		cfg.Background = "#0f1216"
		cfg.LabelColor = "#9aa4b2"
	}
	return cfg
}

var axisPrinter = message.NewPrinter(language.English)

// ChartRenderer рисует накопленные затраты и оценку на Canvas.
type ChartRenderer struct {
	Source   StampLister
	Canvas   Canvas
	Config   ChartConfig
	Now      func() time.Time
	Location *time.Location
}

// Render всегда очищает холст; для пустой коллекции ничего не рисует и возвращает пустой Summary.
func (r *ChartRenderer) Render(ctx context.Context) (Summary, error) {
	r.Canvas.Clear()

	stamps, err := r.Source.GetAll(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load stamps: %w", err)
	}
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	series := BuildSeries(stamps, now, r.Location)
	if len(series) == 0 {
		return Summary{}, nil
	}
	r.draw(series)

	last := series[len(series)-1]
	return Summary{Buckets: len(series), Spend: last.Spend, Est: last.Est}, nil
}

func (r *ChartRenderer) draw(series []Point) {
	cfg := r.Config
	w, h := r.Canvas.Size()
	iW := w - cfg.PadLeft - cfg.PadRight
	iH := h - cfg.PadTop - cfg.PadBottom

	maxY := cfg.MinCeiling
	for _, p := range series {
		maxY = math.Max(maxY, math.Max(p.Spend.InexactFloat64(), p.Est.InexactFloat64()))
	}
	n := len(series)
	x := func(i int) float64 {
		if n <= 1 {
			return cfg.PadLeft
		}
		return cfg.PadLeft + float64(i)/float64(n-1)*iW
	}
	y := func(v decimal.Decimal) float64 {
		return cfg.PadTop + iH - v.InexactFloat64()/maxY*iH
	}

	grid := Stroke{Color: cfg.GridColor, Width: cfg.GridWidth}
	label := TextStyle{Color: cfg.LabelColor, Font: cfg.Font}
	for i := 0; i <= 4; i++ {
		yy := cfg.PadTop + float64(i)/4*iH
		r.Canvas.Line(Vec{cfg.PadLeft, yy}, Vec{cfg.PadLeft + iW, yy}, grid)
		val := math.Round(maxY * (1 - float64(i)/4))
		r.Canvas.Text(Vec{8, yy + 4}, axisPrinter.Sprintf("%d", int64(val)), label)
	}

	spend := make([]Vec, n)
	est := make([]Vec, n)
	for i, p := range series {
		spend[i] = Vec{x(i), y(p.Spend)}
		est[i] = Vec{x(i), y(p.Est)}
	}
	r.Canvas.Polyline(spend, Stroke{Color: cfg.SpendColor, Width: cfg.LineWidth})
	r.Canvas.Polyline(est, Stroke{Color: cfg.EstColor, Width: cfg.LineWidth})

	seen := make(map[int]bool, 3)
	for _, i := range []int{0, n / 2, n - 1} {
		if seen[i] {
			continue
		}
		seen[i] = true
		r.Canvas.Text(Vec{x(i) - 14, cfg.PadTop + iH + 18}, series[i].Label, label)
	}
}
