// Package assets bundles the static files of the web UI and pins them in a versioned on-disk cache.
package assets

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Version — версия набора ассетов; каталоги других версий удаляются при Activate.
const Version = "duck-stamp-vault-v5.1"

// Files — закрепляемые в кэше файлы.
var Files = []string{
	"index.css",
	"manifest.webmanifest",
	"catalog.json",
	"images-commons.json",
}

// Встроенные статические файлы.
//
//go:embed static
var bundled embed.FS

// Static возвращает встроенные файлы с корнем в static/.
func Static() fs.FS {
	sub, err := fs.Sub(bundled, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Cache — версионированный кэш ассетов в каталоге dir.
type Cache struct {
	dir     string
	version string
	files   []string
	src     fs.FS
	logger  *zap.SugaredLogger
}

// NewCache создаёт кэш встроенных ассетов текущей версии. logger может быть nil.
func NewCache(dir string, logger *zap.SugaredLogger) *Cache {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Cache{dir: dir, version: Version, files: Files, src: Static(), logger: logger}
}

// VersionDir — каталог текущей версии.
func (c *Cache) VersionDir() string { return filepath.Join(c.dir, c.version) }

// Install копирует все файлы списка в каталог текущей версии.
func (c *Cache) Install() error {
	dst := c.VersionDir()
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	for _, name := range c.files {
		b, err := fs.ReadFile(c.src, name)
		if err != nil {
			return fmt.Errorf("read bundled %s: %w", name, err)
		}
		tmp := filepath.Join(dst, name+".tmp")
		if err := os.WriteFile(tmp, b, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		if err := os.Rename(tmp, filepath.Join(dst, name)); err != nil {
			return fmt.Errorf("install %s: %w", name, err)
		}
	}
	c.logger.Debugw("assets: installed", "version", c.version, "dir", dst)
	return nil
}

// Activate удаляет всё в каталоге кэша, кроме текущей версии.
func (c *Cache) Activate() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache dir: %w", err)
	}
	for _, e := range entries {
		if e.Name() == c.version {
			continue
		}
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return fmt.Errorf("purge %s: %w", e.Name(), err)
		}
		c.logger.Debugw("assets: purged stale version", "name", e.Name())
	}
	return nil
}

// Handler отдаёт файлы из кэша, при промахе — встроенную копию.
// Путь запроса берётся без ведущего "/", префикс маршрута снимает вызывающий.
func (c *Cache) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)[1:]
		if name == "" {
			http.NotFound(w, r)
			return
		}
		b, err := c.read(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
			w.Header().Set("Content-Type", ct)
		} else if path.Ext(name) == ".webmanifest" {
			w.Header().Set("Content-Type", "application/manifest+json")
		}
		http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(b))
	})
}

func (c *Cache) read(name string) ([]byte, error) {
	if c.pinned(name) {
		b, err := os.ReadFile(filepath.Join(c.VersionDir(), filepath.FromSlash(name)))
		if err == nil {
			return b, nil
		}
		c.logger.Debugw("assets: cache miss", "name", name, "error", err)
	}
	return fs.ReadFile(c.src, name)
}

func (c *Cache) pinned(name string) bool {
	for _, f := range c.files {
		if f == name {
			return true
		}
	}
	return false
}
