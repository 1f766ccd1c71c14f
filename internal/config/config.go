package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Хранилище
	DatabaseDSN string `env:"DATABASE_URI"`
	DataDir     string `env:"DATA_DIR"`

	// Справочники (URL или путь к файлу; пусто — встроенный ассет)
	CatalogURL   string `env:"CATALOG_URL"`
	ImagesRefURL string `env:"IMAGES_REF_URL"`

	// Web UI
	BaseURL       string `env:"BASE_URL"`
	AssetCacheDir string `env:"ASSET_CACHE_DIR"`
	ImageMaxMB    int    `env:"IMAGE_MAX_MB"`

	Autofill bool `env:"AUTOFILL" envDefault:"true"`
	Debug    bool `env:"DEBUG"`
	Version  bool `env:"-"` // show version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// флаги по умолчанию берут значения из env
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (путь к SQLite или postgres:// URL)")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "каталог данных (БД, настройки, кэш)")
	flag.StringVar(&cfg.CatalogURL, "catalog", cfg.CatalogURL, "URL или путь к catalog.json")
	flag.StringVar(&cfg.ImagesRefURL, "images-ref", cfg.ImagesRefURL, "URL или путь к images-commons.json")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "адрес web UI (host:port)")
	flag.StringVar(&cfg.AssetCacheDir, "asset-cache", cfg.AssetCacheDir, "каталог офлайн-кэша ассетов")
	flag.IntVar(&cfg.ImageMaxMB, "image-max-mb", cfg.ImageMaxMB, "максимальный размер изображения, МБ")
	flag.BoolVar(&cfg.Autofill, "autofill", cfg.Autofill, "автозаполнение полей по году")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "подробный лог")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show version and exit")

	flag.Parse()

	applyDefaults(cfg)
	return cfg
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func applyDefaults(cfg *Config) {
	// BaseURL: только "address:port" (без схемы и пути), иначе значение по умолчанию
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}
	if cfg.ImageMaxMB <= 0 {
		cfg.ImageMaxMB = 10
	}
	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base, _ = os.UserHomeDir()
		}
		cfg.DataDir = filepath.Join(base, "StampVault")
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = filepath.Join(cfg.DataDir, "vault.sqlite")
	}
	if cfg.AssetCacheDir == "" {
		cfg.AssetCacheDir = filepath.Join(cfg.DataDir, "cache")
	}
}

// ImageMaxBytes returns the image upload limit in bytes.
func (c *Config) ImageMaxBytes() int64 {
	return int64(c.ImageMaxMB) * 1024 * 1024
}
