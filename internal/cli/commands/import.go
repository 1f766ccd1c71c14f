package commands

import (
	"context"
	"fmt"
	"os"

	"StampVault/internal/config"
)

type importCmd struct{}

func (importCmd) Name() string        { return "import" }
func (importCmd) Description() string { return "Импорт записей из JSON (перезапись по id)" }
func (importCmd) Usage() string       { return "import <file>" }

func (importCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	n, err := app.Exchange.Import(ctx, f)
	if err != nil {
		if n > 0 {
			fmt.Fprintf(Out, "! Записано до ошибки: %d\n", n)
		}
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(Out, "Import complete 📥 (%d records)\n", n)
	return nil
}

func init() { RegisterCmd(importCmd{}) }
