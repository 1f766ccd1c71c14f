package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"StampVault/internal/bootstrap"
	"StampVault/internal/impexp"

	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExchangeHandler экспорт и импорт коллекции.
type ExchangeHandler struct {
	Exchange *impexp.Exchanger
	Logger   *zap.SugaredLogger
	MaxBody  int64
}

// NewExchangeHandler создаёт хендлер экспорта/импорта
func NewExchangeHandler(app *bootstrap.App) *ExchangeHandler {
	return &ExchangeHandler{Exchange: app.Exchange, Logger: app.Logger, MaxBody: 64 << 20}
}

// Export скачивание JSON-документа
func (h *ExchangeHandler) Export(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, impexp.FileName, "application/json", h.Exchange.Export)
}

// ExportXLSX скачивание таблицы
func (h *ExchangeHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, impexp.XLSXFileName, xlsxContentType, h.Exchange.ExportXLSX)
}

func (h *ExchangeHandler) download(w http.ResponseWriter, r *http.Request, name, contentType string, write func(context.Context, io.Writer) error) {
	// ответ пишется только после успешной выгрузки
	var buf bytes.Buffer
	if err := write(r.Context(), &buf); err != nil {
		h.Logger.Errorw("Export: failed", "file", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(buf.Bytes())
}

// Import загрузка JSON-документа (перезапись по id)
func (h *ExchangeHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBody)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.Logger.Warnw("Import: invalid multipart form", "error", err)
		redirectFlash(w, r, "/", "Import failed: invalid upload", true)
		return
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		h.Logger.Warnw("Import: missing file", "error", err)
		redirectFlash(w, r, "/", "Import failed: choose a file", true)
		return
	}
	defer f.Close()

	n, err := h.Exchange.Import(r.Context(), f)
	if err != nil {
		h.Logger.Warnw("Import: failed", "written", n, "error", err)
		msg := "Import failed: " + err.Error()
		if !errors.Is(err, impexp.ErrFormat) {
			msg = fmt.Sprintf("Import failed after %d records", n)
		}
		redirectFlash(w, r, "/", msg, true)
		return
	}
	redirectFlash(w, r, "/", fmt.Sprintf("Import complete 📥 (%d records)", n), false)
}
