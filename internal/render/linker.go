package render

import (
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"StampVault/internal/model"

	"github.com/google/uuid"
)

// ErrNilImage — Create вызван без изображения.
var ErrNilImage = errors.New("nil image")

// Linker создаёт временный отображаемый ресурс для изображения и освобождает его.
type Linker interface {
	Create(img *model.Image) (string, error)
	Revoke(link string)
}

// ObjectURLs — реестр изображений в памяти для веб-интерфейса.
// Ссылка имеет вид <Prefix><token>; пока ссылка не отозвана, изображение доступно через Open.
type ObjectURLs struct {
	prefix string

	mu      sync.RWMutex
	objects map[string]*model.Image
}

// NewObjectURLs создаёт реестр. prefix — путь, под которым обработчик отдаёт изображения.
func NewObjectURLs(prefix string) *ObjectURLs {
	return &ObjectURLs{prefix: prefix, objects: make(map[string]*model.Image)}
}

func (o *ObjectURLs) Create(img *model.Image) (string, error) {
	if img == nil {
		return "", ErrNilImage
	}
	token := uuid.NewString()
	o.mu.Lock()
	o.objects[token] = img
	o.mu.Unlock()
	return o.prefix + token, nil
}

func (o *ObjectURLs) Revoke(link string) {
	token := strings.TrimPrefix(link, o.prefix)
	o.mu.Lock()
	delete(o.objects, token)
	o.mu.Unlock()
}

// Open возвращает изображение по токену.
func (o *ObjectURLs) Open(token string) (*model.Image, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	img, ok := o.objects[token]
	return img, ok
}

// Len — число живых ссылок.
func (o *ObjectURLs) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.objects)
}

// TempFiles пишет изображения во временные файлы для терминала и удаляет их при отзыве.
type TempFiles struct {
	dir string

	mu    sync.Mutex
	files map[string]string // link -> path
}

// NewTempFiles создаёт Linker поверх каталога dir ("" — системный временный каталог).
func NewTempFiles(dir string) *TempFiles {
	return &TempFiles{dir: dir, files: make(map[string]string)}
}

func (t *TempFiles) Create(img *model.Image) (string, error) {
	if img == nil {
		return "", ErrNilImage
	}
	ext := ""
	if exts, _ := mime.ExtensionsByType(img.ContentType); len(exts) > 0 {
		ext = exts[0]
	}
	f, err := os.CreateTemp(t.dir, "stamp-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	if _, err := f.Write(img.Data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close temp image: %w", err)
	}

	abs, err := filepath.Abs(f.Name())
	if err != nil {
		abs = f.Name()
	}
	link := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()

	t.mu.Lock()
	t.files[link] = f.Name()
	t.mu.Unlock()
	return link, nil
}

func (t *TempFiles) Revoke(link string) {
	t.mu.Lock()
	path, ok := t.files[link]
	delete(t.files, link)
	t.mu.Unlock()
	if ok {
		_ = os.Remove(path)
	}
}

// Len — число живых временных файлов.
func (t *TempFiles) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.files)
}

// Purge удаляет файлы, оставшиеся от прошлых запусков в каталоге dir.
func (t *TempFiles) Purge() error {
	if t.dir == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(t.dir, "stamp-*"))
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range matches {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("purge %s: %w", p, err)
		}
	}
	t.files = make(map[string]string)
	return nil
}
