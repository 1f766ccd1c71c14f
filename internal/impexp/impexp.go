// Package impexp exports stamp records to JSON and XLSX and imports them back from JSON.
package impexp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"StampVault/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func init() {
	// суммы в документе — числа, а не строки
	decimal.MarshalJSONWithoutQuotes = true
}

// FileName — имя файла экспорта по умолчанию.
const FileName = "duck-stamp-vault.json"

// ErrFormat — документ импорта не является массивом записей.
var ErrFormat = errors.New("invalid format")

// Store — часть хранилища записей, нужная импорту и экспорту.
type Store interface {
	Put(ctx context.Context, s *model.Stamp) error
	GetAll(ctx context.Context) ([]model.Stamp, error)
}

// Exchanger выполняет импорт и экспорт поверх Store.
type Exchanger struct {
	store  Store
	logger *zap.SugaredLogger
	newID  func() string
}

// NewExchanger создаёт Exchanger. logger может быть nil.
func NewExchanger(store Store, logger *zap.SugaredLogger) *Exchanger {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Exchanger{store: store, logger: logger, newID: uuid.NewString}
}

// Export пишет все записи JSON-массивом с отступом в два пробела. Изображения не экспортируются.
func (e *Exchanger) Export(ctx context.Context, w io.Writer) error {
	list, err := e.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load stamps: %w", err)
	}
	if list == nil {
		list = []model.Stamp{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("encode stamps: %w", err)
	}
	return nil
}

// Import читает JSON-массив и записывает записи по одной через Put.
// Возвращает число записанных записей; при ошибке на середине ранее записанные остаются.
func (e *Exchanger) Import(ctx context.Context, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read document: %w", err)
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if rows == nil {
		return 0, fmt.Errorf("%w: document is not an array", ErrFormat)
	}

	n := 0
	for i, raw := range rows {
		var s model.Stamp
		dec := json.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(&s); err != nil {
			return n, fmt.Errorf("%w: record %d: %w", ErrFormat, i, err)
		}
		if err := s.CheckAmounts(); err != nil {
			return n, fmt.Errorf("%w: record %d: %w", ErrFormat, i, err)
		}
		if s.ID == "" {
			s.ID = e.newID()
		}
		if err := e.store.Put(ctx, &s); err != nil {
			return n, fmt.Errorf("store record %d: %w", i, err)
		}
		n++
	}
	e.logger.Debugw("import: records stored", "count", n)
	return n, nil
}
