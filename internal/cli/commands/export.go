package commands

import (
	"context"
	"fmt"
	"os"

	"StampVault/internal/config"
	"StampVault/internal/impexp"
)

type exportCmd struct{}

func (exportCmd) Name() string        { return "export" }
func (exportCmd) Description() string { return "Экспорт записей в JSON (или XLSX); '-' — в stdout" }
func (exportCmd) Usage() string       { return "export [--xlsx] [file|-]" }

func (exportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("export")
	xlsx := fs.Bool("xlsx", false, "таблица Excel вместо JSON")
	if err := fs.Parse(args); err != nil || fs.NArg() > 1 {
		return ErrUsage
	}
	name := impexp.FileName
	if *xlsx {
		name = impexp.XLSXFileName
	}
	if fs.NArg() == 1 {
		name = fs.Arg(0)
	}

	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	write := app.Exchange.Export
	if *xlsx {
		write = app.Exchange.ExportXLSX
	}

	if name == "-" {
		return write(ctx, Out)
	}
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := write(ctx, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(Out, "✓ Exported → %s\n", name)
	return nil
}

func init() { RegisterCmd(exportCmd{}) }
