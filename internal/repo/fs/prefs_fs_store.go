package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"StampVault/internal/model"
)

// ErrInvalidTheme — неизвестная тема.
var ErrInvalidTheme = errors.New("theme must be light or dark")

// PrefsFSStore — файловое хранилище пользовательских настроек (тема) рядом с базой, но не в ней.
// Пустой Dir — пользовательский конфиг‑каталог.
type PrefsFSStore struct {
	Dir string
}

func (s PrefsFSStore) configDir() (string, error) {
	dir := s.Dir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "StampVault")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func (s PrefsFSStore) themePath() (string, error) {
	dir, err := s.configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme"), nil
}

// SaveTheme сохраняет тему.
func (s PrefsFSStore) SaveTheme(theme string) error {
	if !model.ValidTheme(theme) {
		return ErrInvalidTheme
	}
	p, err := s.themePath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(theme), 0o600)
}

// LoadTheme читает тему. Нет файла или мусор в нём — светлая тема.
func (s PrefsFSStore) LoadTheme() (string, error) {
	p, err := s.themePath()
	if err != nil {
		return model.ThemeLight, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.ThemeLight, nil
		}
		return model.ThemeLight, err
	}
	// обрезаем завершающие переводы строки/пробелы
	theme := strings.TrimSpace(string(b))
	if !model.ValidTheme(theme) {
		return model.ThemeLight, nil
	}
	return theme, nil
}

// ToggleTheme переключает light <-> dark и возвращает новую тему.
func (s PrefsFSStore) ToggleTheme() (string, error) {
	cur, err := s.LoadTheme()
	if err != nil {
		return "", fmt.Errorf("load theme: %w", err)
	}
	next := model.ThemeDark
	if cur == model.ThemeDark {
		next = model.ThemeLight
	}
	if err := s.SaveTheme(next); err != nil {
		return "", fmt.Errorf("save theme: %w", err)
	}
	return next, nil
}
