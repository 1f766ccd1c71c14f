package model

// Темы интерфейса.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ValidTheme сообщает, известна ли тема.
func ValidTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}
