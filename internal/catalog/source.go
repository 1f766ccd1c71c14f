package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/bitly/go-simplejson"
)

// maxDocSize ограничивает размер справочного документа.
const maxDocSize = 4 << 20

// Fetcher получает сырой справочный документ по location.
// Пустой location означает встроенный ассет fallback.
type Fetcher interface {
	Fetch(ctx context.Context, location, fallback string) ([]byte, error)
}

// Source — Fetcher для http(s) URL, путей к файлам и встроенных ассетов.
type Source struct {
	Client *http.Client
	Assets fs.FS
}

func (s Source) Fetch(ctx context.Context, location, fallback string) ([]byte, error) {
	switch {
	case location == "":
		if s.Assets == nil || fallback == "" {
			return nil, errors.New("no bundled asset")
		}
		return fs.ReadFile(s.Assets, fallback)
	case strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://"):
		return s.get(ctx, location)
	default:
		return os.ReadFile(location)
	}
}

func (s Source) get(ctx context.Context, url string) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocSize))
}

// eachRow разбирает документ-массив и вызывает fn для каждой строки с годом.
// Строки без года (или с годом 0) пропускаются.
func eachRow(data []byte, fn func(year int, row *simplejson.Json)) error {
	js, err := simplejson.NewJson(data)
	if err != nil {
		return err
	}
	arr, err := js.Array()
	if err != nil {
		return fmt.Errorf("reference document is not an array: %w", err)
	}
	for i := range arr {
		row := js.GetIndex(i)
		if _, err := row.Map(); err != nil {
			continue
		}
		year, ok := rowYear(row.Get("year"))
		if !ok {
			continue
		}
		fn(year, row)
	}
	return nil
}

// rowYear принимает год числом или строкой.
func rowYear(v *simplejson.Json) (int, bool) {
	if n, err := v.Int(); err == nil && n != 0 {
		return n, true
	}
	if s, err := v.String(); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n != 0 {
			return n, true
		}
	}
	return 0, false
}
