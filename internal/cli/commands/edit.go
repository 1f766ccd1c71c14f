package commands

import (
	"context"
	"fmt"

	"StampVault/internal/config"
	"StampVault/internal/service"
)

type editCmd struct{}

func (editCmd) Name() string        { return "edit" }
func (editCmd) Description() string { return "Изменить поля марки (меняются только указанные флаги)" }
func (editCmd) Usage() string {
	return "edit [--year y] [--price N] [--image file] [--notes text] ... <id>"
}

func (editCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	// Парсим флагами: разрешаем только префиксные флаги перед позиционными аргументами
	fs := newFlagSet("edit")
	f := bindStampFlags(fs)
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	id := fs.Arg(0)

	patch, err := f.patch(fs)
	if err != nil {
		return err
	}
	img, err := f.readImage()
	if err != nil {
		return err
	}

	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	st, err := app.Service.Save(ctx, service.SaveRequest{EditingID: id, Patch: patch, Image: img})
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Saved ✅")
	fmt.Fprintf(Out, "  id:   %s\n", st.ID)
	fmt.Fprintf(Out, "  year: %d\n", st.Year)
	if img != nil {
		fmt.Fprintln(Out, "  image: <replaced>")
	}
	return nil
}

func init() { RegisterCmd(editCmd{}) }
