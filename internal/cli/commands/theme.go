package commands

import (
	"context"
	"fmt"

	"StampVault/internal/config"
	fsrepo "StampVault/internal/repo/fs"
)

type themeCmd struct{}

func (themeCmd) Name() string        { return "theme" }
func (themeCmd) Description() string { return "Показать или сменить тему: light|dark|toggle" }
func (themeCmd) Usage() string       { return "theme [light|dark|toggle]" }

// Тема хранится отдельно от базы, поэтому хранилище не открывается.
func (themeCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	prefs := fsrepo.PrefsFSStore{Dir: cfg.DataDir}

	if len(args) == 0 {
		theme, err := prefs.LoadTheme()
		if err != nil {
			return err
		}
		fmt.Fprintln(Out, theme)
		return nil
	}

	var theme string
	switch args[0] {
	case "toggle":
		next, err := prefs.ToggleTheme()
		if err != nil {
			return err
		}
		theme = next
	default:
		if err := prefs.SaveTheme(args[0]); err != nil {
			return ErrUsage
		}
		theme = args[0]
	}
	fmt.Fprintf(Out, "✓ Theme: %s\n", theme)
	return nil
}

func init() { RegisterCmd(themeCmd{}) }
