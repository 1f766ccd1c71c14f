package handlers

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"StampVault/internal/autofill"
	"StampVault/internal/bootstrap"
	"StampVault/internal/catalog"
	"StampVault/internal/model"
	"StampVault/internal/render"
	"StampVault/internal/repo"
	"StampVault/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// multipartOverhead — запас на поля формы сверх лимита изображения.
const multipartOverhead = 1 << 20

var formTmpl = template.Must(template.New("form").Parse(`<h1>{{if .ID}}Edit stamp{{else}}Add a stamp{{end}}</h1>
{{if .RefImage}}<p><img src="{{.RefImage}}" alt="Reference {{.Year}}" width="240">{{if .RefPage}}<br><a href="{{.RefPage}}" rel="noopener" target="_blank">Source</a> · <a href="{{.RefImage}}" download>Download</a>{{end}}</p>{{end}}
<form class="stamp" method="get" action="/add">
<label>Year <input type="number" name="year" min="1934" max="2100" value="{{.Year}}"></label>
{{if .ID}}<input type="hidden" name="edit" value="{{.ID}}">{{end}}
<label>&nbsp;<button type="submit">Look up year</button></label>
</form>
<form class="stamp" method="post" action="/stamps" enctype="multipart/form-data">
{{if .ID}}<input type="hidden" name="id" value="{{.ID}}">{{end}}
<label>Image <input type="file" name="image" accept="image/*"{{if not .ID}} required{{end}}></label>
<label>Year <input type="number" name="year" min="1934" max="2100" value="{{.Year}}" required></label>
<label>Face value <input type="number" name="faceValue" step="0.01" min="0" value="{{.Face}}"></label>
<label>Price paid <input type="number" name="price" step="0.01" min="0" value="{{.Price}}"></label>
<label>Est. value <input type="number" name="estValue" step="0.01" min="0" value="{{.Est}}"></label>
<label>Purchase date <input type="date" name="purchaseDate" value="{{.Date}}"></label>
<label>Condition <input type="text" name="condition" value="{{.Condition}}"></label>
<label>Signature <input type="text" name="signatureType" value="{{.Signature}}"></label>
<label>Acquisition <input type="text" name="acq" value="{{.Acquisition}}"></label>
<label>Artist <input type="text" name="artist" value="{{.Artist}}"></label>
<label>Species <input type="text" name="species" value="{{.Species}}"></label>
<label>Scott # <input type="text" name="scott" value="{{.Scott}}"></label>
<label>Plate/Pos <input type="text" name="platePos" value="{{.PlatePos}}"></label>
<label>Notes <textarea name="notes">{{.Notes}}</textarea></label>
<label><span><input type="checkbox" name="autofill" value="1"{{if .Autofill}} checked{{end}}> Autofill from catalog</span></label>
<label>&nbsp;<button class="primary" type="submit">{{if .ID}}Save Changes{{else}}Add{{end}}</button></label>
</form>
`))

var confirmTmpl = template.Must(template.New("confirm").Parse(`<h1>Delete stamp</h1>
<p>Remove this stamp from your vault?</p>
<p><strong>{{.Year}}{{if .Scott}} · {{.Scott}}{{end}}{{if .Species}} · {{.Species}}{{end}}</strong></p>
<form method="post" action="/stamps/{{.ID}}/delete">
<button class="danger" type="submit">Delete</button>
<a href="/">Cancel</a>
</form>
`))

// StampHandler обрабатывает коллекцию и форму марки.
type StampHandler struct {
	Service  *service.StampService
	Autofill autofill.Policy
	Refs     *catalog.ImageRefs
	Logger   *zap.SugaredLogger
	MaxImage int64

	collection *render.CollectionRenderer
	urls       *render.ObjectURLs
	pages      *pages
}

// NewStampHandler создаёт хендлер марок
func NewStampHandler(app *bootstrap.App, collection *render.CollectionRenderer, urls *render.ObjectURLs, p *pages) *StampHandler {
	return &StampHandler{
		Service:    app.Service,
		Autofill:   app.Autofill,
		Refs:       app.Refs,
		Logger:     app.Logger,
		MaxImage:   app.Config.ImageMaxBytes(),
		collection: collection,
		urls:       urls,
		pages:      p,
	}
}

// Collection страница коллекции с итогами
func (h *StampHandler) Collection(w http.ResponseWriter, r *http.Request) {
	view, err := h.collection.Render(r.Context())
	if err != nil {
		h.Logger.Errorw("Collection: render failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.pages.writeMarkdown(w, r, "My Collection", render.CollectionMarkdown(view, render.MarkdownOptions{WithActions: true}))
}

type formData struct {
	ID          string
	Year        string
	Face        string
	Price       string
	Est         string
	Date        string
	Condition   string
	Signature   string
	Acquisition string
	Artist      string
	Species     string
	Scott       string
	PlatePos    string
	Notes       string
	Autofill    bool
	RefImage    string
	RefPage     string
}

// Form форма добавления (?year=) или редактирования (?edit=) марки
func (h *StampHandler) Form(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := formData{Autofill: h.Autofill.Enabled}

	if id := q.Get("edit"); id != "" {
		st, err := h.Service.Get(r.Context(), id)
		if errors.Is(err, repo.ErrNotFound) {
			redirectFlash(w, r, "/", "Stamp not found", true)
			return
		}
		if err != nil {
			h.Logger.Errorw("Form: load failed", "id", id, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		data = stampForm(st)
		data.Autofill = false
	}

	if y := strings.TrimSpace(q.Get("year")); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil || model.ValidateYear(year) != nil {
			redirectFlash(w, r, "/add", model.ErrInvalidYear.Error(), true)
			return
		}
		data.Year = strconv.Itoa(year)
		form := autofill.Form{Scott: data.Scott, FaceValue: data.Face, Artist: data.Artist, Species: data.Species}
		h.Autofill.Apply(&form, year)
		data.Scott, data.Face, data.Artist, data.Species = form.Scott, form.FaceValue, form.Artist, form.Species
	}
	if year, err := strconv.Atoi(data.Year); err == nil {
		if ref, ok := h.Refs.Get(year); ok {
			data.RefImage, data.RefPage = ref.ImageURL, ref.PageURL
		}
	}

	title := "Add a stamp"
	if data.ID != "" {
		title = "Edit stamp"
	}
	h.pages.writeTemplate(w, r, title, formTmpl, data)
}

func stampForm(s *model.Stamp) formData {
	d := formData{
		ID:          s.ID,
		Year:        strconv.Itoa(s.Year),
		Price:       s.Price.StringFixed(2),
		Condition:   s.Condition,
		Signature:   s.SignatureType,
		Acquisition: s.Acquisition,
		Artist:      s.Artist,
		Species:     s.Species,
		Scott:       s.Scott,
		PlatePos:    s.PlatePos,
		Notes:       s.Notes,
	}
	if s.FaceValue.Valid {
		d.Face = s.FaceValue.Decimal.StringFixed(2)
	}
	if s.EstValue.Valid {
		d.Est = s.EstValue.Decimal.StringFixed(2)
	}
	if s.PurchaseDate != nil {
		d.Date = *s.PurchaseDate
	}
	return d
}

// Save создание или редактирование марки из multipart-формы
func (h *StampHandler) Save(w http.ResponseWriter, r *http.Request) {
	if h.MaxImage > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxImage+multipartOverhead)
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.Logger.Warnw("Save: invalid multipart form", "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			redirectFlash(w, r, "/add", service.ErrImageTooLarge.Error(), true)
			return
		}
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	id := strings.TrimSpace(r.FormValue("id"))
	back := "/add"
	if id != "" {
		back = "/add?edit=" + url.QueryEscape(id)
	}

	form := autofill.Form{
		Scott:     strings.TrimSpace(r.FormValue("scott")),
		FaceValue: strings.TrimSpace(r.FormValue("faceValue")),
		Artist:    strings.TrimSpace(r.FormValue("artist")),
		Species:   strings.TrimSpace(r.FormValue("species")),
	}
	year, yearErr := strconv.Atoi(strings.TrimSpace(r.FormValue("year")))
	if yearErr == nil && r.FormValue("autofill") != "" {
		policy := h.Autofill
		policy.Enabled = true
		policy.Apply(&form, year)
	}

	patch, err := formPatch(r, form)
	if err != nil {
		redirectFlash(w, r, back, err.Error(), true)
		return
	}
	if yearErr == nil {
		patch.Year = &year
	} else if id == "" {
		redirectFlash(w, r, back, service.ErrInvalidYear.Error(), true)
		return
	}

	img, err := formImage(r)
	if err != nil {
		h.Logger.Warnw("Save: failed to read image", "error", err)
		http.Error(w, "failed to read image", http.StatusBadRequest)
		return
	}

	st, err := h.Service.Save(r.Context(), service.SaveRequest{EditingID: id, Patch: patch, Image: img})
	switch {
	case err == nil:
		h.Logger.Debugw("Save: stored", "id", st.ID, "year", st.Year)
		redirectFlash(w, r, "/", "Saved ✅", false)
	case errors.Is(err, repo.ErrNotFound):
		redirectFlash(w, r, "/", "Stamp not found", true)
	case errors.Is(err, service.ErrInvalidYear),
		errors.Is(err, service.ErrImageRequired),
		errors.Is(err, service.ErrImageTooLarge),
		errors.Is(err, model.ErrNegativeAmount),
		errors.Is(err, model.ErrInvalidDate):
		redirectFlash(w, r, back, err.Error(), true)
	default:
		h.Logger.Errorw("Save: service error", "id", id, "error", err)
		redirectFlash(w, r, back, "Could not save the stamp", true)
	}
}

// errInvalidAmount — сумма в форме не число.
var errInvalidAmount = errors.New("amounts must be numbers")

// formPatch собирает patch из всех полей формы: форма всегда присылает полный набор.
func formPatch(r *http.Request, form autofill.Form) (model.StampPatch, error) {
	var p model.StampPatch

	price := decimal.Zero
	if s := strings.TrimSpace(r.FormValue("price")); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return p, errInvalidAmount
		}
		price = d
	}
	p.Price = &price

	face, err := nullAmount(form.FaceValue)
	if err != nil {
		return p, err
	}
	p.FaceValue = &face
	est, err := nullAmount(r.FormValue("estValue"))
	if err != nil {
		return p, err
	}
	p.EstValue = &est

	text := func(name string) *string {
		v := r.FormValue(name)
		return &v
	}
	p.PurchaseDate = text("purchaseDate")
	p.Condition = text("condition")
	p.SignatureType = text("signatureType")
	p.Acquisition = text("acq")
	p.PlatePos = text("platePos")
	p.Notes = text("notes")
	p.Artist = &form.Artist
	p.Species = &form.Species
	p.Scott = &form.Scott
	return p, nil
}

func nullAmount(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, errInvalidAmount
	}
	return decimal.NewNullDecimal(d), nil
}

// formImage читает файл image; отсутствие файла — не ошибка.
func formImage(r *http.Request) ([]byte, error) {
	f, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	return b, nil
}

// ConfirmDelete страница подтверждения удаления
func (h *StampHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := h.Service.Get(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		redirectFlash(w, r, "/", "Stamp not found", true)
		return
	}
	if err != nil {
		h.Logger.Errorw("ConfirmDelete: load failed", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.pages.writeTemplate(w, r, "Delete stamp", confirmTmpl, st)
}

// Delete удаление марки вместе с изображением
func (h *StampHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.Logger.Errorw("Delete: service error", "id", id, "error", err)
		redirectFlash(w, r, "/", "Could not delete the stamp", true)
		return
	}
	redirectFlash(w, r, "/", "Deleted 🗑️", false)
}

// Blob отдаёт изображение по токену последнего рендера коллекции
func (h *StampHandler) Blob(w http.ResponseWriter, r *http.Request) {
	img, ok := h.urls.Open(chi.URLParam(r, "token"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	ct := img.ContentType
	if ct == "" {
		ct = http.DetectContentType(img.Data)
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "private, no-store")
	_, _ = w.Write(img.Data)
}

// AutofillResponse — подсказки для формы по году.
type AutofillResponse struct {
	Year      int    `json:"year"`
	Scott     string `json:"scott,omitempty"`
	FaceValue string `json:"faceValue,omitempty"`
	Artist    string `json:"artist,omitempty"`
	Species   string `json:"species,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	PageURL   string `json:"pageUrl,omitempty"`
}

// AutofillAPI JSON-подсказки по году для пустой формы
func (h *StampHandler) AutofillAPI(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || model.ValidateYear(year) != nil {
		http.Error(w, model.ErrInvalidYear.Error(), http.StatusBadRequest)
		return
	}

	policy := h.Autofill
	policy.Enabled = true
	var form autofill.Form
	policy.Apply(&form, year)

	resp := AutofillResponse{Year: year, Scott: form.Scott, FaceValue: form.FaceValue, Artist: form.Artist, Species: form.Species}
	if ref, ok := h.Refs.Get(year); ok {
		resp.ImageURL, resp.PageURL = ref.ImageURL, ref.PageURL
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
