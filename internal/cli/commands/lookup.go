package commands

import (
	"context"
	"fmt"

	"StampVault/internal/autofill"
	"StampVault/internal/config"
	"StampVault/internal/model"
	"StampVault/internal/render"
)

type lookupCmd struct{}

func (lookupCmd) Name() string        { return "lookup" }
func (lookupCmd) Description() string { return "Справка по году: номер Скотта, художник, вид, номинал" }
func (lookupCmd) Usage() string       { return "lookup <year>" }

func (lookupCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	year, err := parseYear(args[0])
	if err != nil {
		return err
	}
	if err := model.ValidateYear(year); err != nil {
		return err
	}

	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	fmt.Fprintf(Out, "year:    %d\n", year)
	fmt.Fprintf(Out, "scott:   %s\n", autofill.CatalogNumber(year))
	e, ok := app.Catalog.Lookup(year)
	if !ok {
		fmt.Fprintln(Out, "• Нет данных в каталоге")
	} else {
		fmt.Fprintf(Out, "artist:  %s\n", e.Artist)
		fmt.Fprintf(Out, "species: %s\n", e.Species)
		fmt.Fprintf(Out, "face:    %s\n", render.FormatFace(e.Face))
	}
	printImageRef(app.Refs, year)
	return nil
}

func init() { RegisterCmd(lookupCmd{}) }
