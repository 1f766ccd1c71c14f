package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"StampVault/internal/bootstrap"
	"StampVault/internal/render"
	"StampVault/internal/repo"

	"go.uber.org/zap"
)

var valueTmpl = template.Must(template.New("value").Parse(`<h1>Value over time</h1>
{{if .Summary}}<img class="chart" src="/value/chart.svg?v={{.Version}}" alt="Cumulative spend and estimated value">
<p class="summary">{{.Summary}}</p>{{else}}<p class="summary">No data yet. Add a stamp with a price or estimated value.</p>{{end}}
`))

// ValueHandler строит график затрат и оценки.
type ValueHandler struct {
	Stamps render.StampLister
	Prefs  repo.ThemeStore
	Logger *zap.SugaredLogger
	Now    func() time.Time

	pages *pages
}

// NewValueHandler создаёт хендлер графика
func NewValueHandler(app *bootstrap.App, p *pages) *ValueHandler {
	return &ValueHandler{Stamps: app.Stamps, Prefs: app.Prefs, Logger: app.Logger, Now: time.Now, pages: p}
}

// draw рендерит график на новый SVG-холст в цветах текущей темы.
func (h *ValueHandler) draw(r *http.Request) (*render.SVGCanvas, render.Summary, error) {
	cfg := render.ChartConfigForTheme(h.pages.theme())
	canvas := render.NewSVGCanvas(cfg.Width, cfg.Height, cfg.Background)
	chart := &render.ChartRenderer{Source: h.Stamps, Canvas: canvas, Config: cfg, Now: h.Now, Location: time.Local}
	summary, err := chart.Render(r.Context())
	return canvas, summary, err
}

// Page страница графика с итоговой строкой
func (h *ValueHandler) Page(w http.ResponseWriter, r *http.Request) {
	_, summary, err := h.draw(r)
	if err != nil {
		h.Logger.Errorw("Value: render failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.pages.writeTemplate(w, r, "Value", valueTmpl, map[string]any{
		"Summary": summary.String(),
		"Version": h.Now().UnixMilli(),
	})
}

// Chart SVG графика
func (h *ValueHandler) Chart(w http.ResponseWriter, r *http.Request) {
	canvas, _, err := h.draw(r)
	if err != nil {
		h.Logger.Errorw("Chart: render failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if _, err := canvas.WriteTo(&buf); err != nil {
		h.Logger.Errorw("Chart: write failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}
