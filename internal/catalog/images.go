package catalog

import (
	"context"

	"github.com/bitly/go-simplejson"
	"go.uber.org/zap"
)

// DefaultImagesAsset — встроенный документ ссылок на изображения.
const DefaultImagesAsset = "images-commons.json"

// ImageRef — ссылки на эталонное изображение марки года.
type ImageRef struct {
	ImageURL string
	PageURL  string
}

// ImageRefs — неизменяемое отображение год → ImageRef.
type ImageRefs struct {
	refs map[int]ImageRef
}

// Get возвращает ссылку для года; записи без image_url считаются отсутствующими.
func (r *ImageRefs) Get(year int) (ImageRef, bool) {
	if r == nil {
		return ImageRef{}, false
	}
	ref, ok := r.refs[year]
	if !ok || ref.ImageURL == "" {
		return ImageRef{}, false
	}
	return ref, true
}

// Len — число записей.
func (r *ImageRefs) Len() int {
	if r == nil {
		return 0
	}
	return len(r.refs)
}

// LoadImageRefs загружает документ [{year, image_url, page_url}]; при ошибке — пустой набор.
func LoadImageRefs(ctx context.Context, f Fetcher, location string, logger *zap.SugaredLogger) *ImageRefs {
	data, err := f.Fetch(ctx, location, DefaultImagesAsset)
	if err != nil {
		logger.Debugw("image refs: document skipped", "location", location, "error", err)
		return &ImageRefs{}
	}
	refs, err := ParseImageRefs(data)
	if err != nil {
		logger.Debugw("image refs: document ignored", "location", location, "error", err)
		return &ImageRefs{}
	}
	return refs
}

// ParseImageRefs разбирает документ ссылок на изображения.
func ParseImageRefs(data []byte) (*ImageRefs, error) {
	refs := make(map[int]ImageRef)
	err := eachRow(data, func(year int, row *simplejson.Json) {
		refs[year] = ImageRef{
			ImageURL: row.Get("image_url").MustString(),
			PageURL:  row.Get("page_url").MustString(),
		}
	})
	if err != nil {
		return nil, err
	}
	return &ImageRefs{refs: refs}, nil
}
