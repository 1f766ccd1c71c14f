package handlers

import (
	"net/http"

	"StampVault/internal/assets"
	"StampVault/internal/bootstrap"
	"StampVault/internal/middleware"
	"StampVault/internal/render"

	"github.com/go-chi/chi/v5"
)

// blobPrefix — маршрут, по которому отдаются изображения коллекции.
const blobPrefix = "/blob/"

type Handler struct {
	Router chi.Router

	collection *render.CollectionRenderer
}

// NewHandler разводящий для хендлеров
func NewHandler(app *bootstrap.App, cache *assets.Cache) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)

	urls := render.NewObjectURLs(blobPrefix)
	collection := render.NewCollectionRenderer(app.Stamps, app.Images, urls, app.Logger)
	p := &pages{prefs: app.Prefs, logger: app.Logger}

	// Handlers
	stampHandler := NewStampHandler(app, collection, urls, p)
	valueHandler := NewValueHandler(app, p)
	exchangeHandler := NewExchangeHandler(app)

	// Pages
	r.Get("/", stampHandler.Collection)
	r.Get("/add", stampHandler.Form)
	r.Post("/stamps", stampHandler.Save)
	r.Get("/stamps/{id}/delete", stampHandler.ConfirmDelete)
	r.Post("/stamps/{id}/delete", stampHandler.Delete)
	r.Get("/blob/{token}", stampHandler.Blob)
	r.Get("/api/autofill", stampHandler.AutofillAPI)

	r.Get("/value", valueHandler.Page)
	r.Get("/value/chart.svg", valueHandler.Chart)

	r.Get("/export", exchangeHandler.Export)
	r.Get("/export.xlsx", exchangeHandler.ExportXLSX)
	r.Post("/import", exchangeHandler.Import)

	r.Post("/theme", p.ToggleTheme)

	// офлайн-ассеты
	if cache != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets", cache.Handler()))
	}

	return &Handler{Router: r, collection: collection}
}

// Close освобождает ссылки на изображения последнего рендера коллекции.
func (h *Handler) Close() {
	h.collection.Close()
}
