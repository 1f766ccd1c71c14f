package commands

import (
	"context"
	"fmt"

	"StampVault/internal/catalog"
	"StampVault/internal/config"
	"StampVault/internal/render"
)

type showCmd struct{}

func (showCmd) Name() string        { return "show" }
func (showCmd) Description() string { return "Показать марку по id" }
func (showCmd) Usage() string       { return "show <id>" }

func (showCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	st, err := app.Service.Get(ctx, args[0])
	if err != nil {
		return err
	}
	c := render.NewCard(*st)
	fmt.Fprintf(Out, "id:        %s\n", c.ID)
	fmt.Fprintf(Out, "year:      %s\n", c.Year)
	fmt.Fprintf(Out, "scott:     %s\n", c.Scott)
	fmt.Fprintf(Out, "species:   %s\n", c.Species)
	fmt.Fprintf(Out, "artist:    %s\n", c.Artist)
	fmt.Fprintf(Out, "condition: %s\n", c.Condition)
	fmt.Fprintf(Out, "signature: %s\n", c.Signature)
	fmt.Fprintf(Out, "face:      %s\n", c.Face)
	fmt.Fprintf(Out, "paid:      %s\n", c.Paid)
	fmt.Fprintf(Out, "est:       %s\n", c.Est)
	fmt.Fprintf(Out, "acquired:  %s\n", c.Acquired)
	fmt.Fprintf(Out, "date:      %s\n", c.Date)
	if c.PlatePos != "" {
		fmt.Fprintf(Out, "plate/pos: %s\n", c.PlatePos)
	}
	if c.Notes != "" {
		fmt.Fprintf(Out, "notes:     %s\n", c.Notes)
	}
	if st.ImageID != "" {
		fmt.Fprintf(Out, "image:     %s\n", st.ImageID)
	}
	return nil
}

// printImageRef печатает ссылки на справочное изображение года, если оно есть.
func printImageRef(refs *catalog.ImageRefs, year int) {
	ref, ok := refs.Get(year)
	if !ok {
		return
	}
	fmt.Fprintf(Out, "  reference image: %s\n", ref.ImageURL)
	if ref.PageURL != "" {
		fmt.Fprintf(Out, "  commons page:    %s\n", ref.PageURL)
	}
}

func init() { RegisterCmd(showCmd{}) }
