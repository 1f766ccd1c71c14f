package render

import (
	"bytes"
	"fmt"

	"StampVault/internal/model"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	ThemeLight = model.ThemeLight
	ThemeDark  = model.ThemeDark
)

var htmlConverter = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Terminal рендерит Markdown для терминала в стиле темы.
func Terminal(markdown, theme string, width int) (string, error) {
	style := ThemeLight
	if theme == ThemeDark {
		style = ThemeDark
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// HTML конвертирует Markdown в HTML (GFM). Сырой HTML во входе не пропускается.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := htmlConverter.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
