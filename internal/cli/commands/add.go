package commands

import (
	"context"
	"fmt"

	"StampVault/internal/autofill"
	"StampVault/internal/config"
	"StampVault/internal/service"
)

type addCmd struct{}

func (addCmd) Name() string        { return "add" }
func (addCmd) Description() string { return "Добавить марку (изображение обязательно)" }
func (addCmd) Usage() string {
	return "add --year <y> --image <file> [--price N] [--face N] [--est N] [--date YYYY-MM-DD] [--no-autofill] ..."
}

func (addCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("add")
	f := bindStampFlags(fs)
	noAutofill := fs.Bool("no-autofill", false, "не заполнять поля из каталога")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}

	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	// автозаполнение только пустых полей; заполненные значения помечаются как заданные
	policy := app.Autofill
	policy.Enabled = policy.Enabled && !*noAutofill
	form := autofill.Form{Scott: *f.scott, FaceValue: *f.face, Artist: *f.artist, Species: *f.species}
	policy.Apply(&form, *f.year)
	for name, v := range map[string]string{
		"scott": form.Scott, "face": form.FaceValue, "artist": form.Artist, "species": form.Species,
	} {
		if v != "" {
			_ = fs.Set(name, v)
		}
	}

	patch, err := f.patch(fs)
	if err != nil {
		return err
	}
	img, err := f.readImage()
	if err != nil {
		return err
	}
	st, err := app.Service.Save(ctx, service.SaveRequest{Patch: patch, Image: img})
	if err != nil {
		return err
	}

	fmt.Fprintln(Out, "Saved ✅")
	fmt.Fprintf(Out, "  id:      %s\n", st.ID)
	fmt.Fprintf(Out, "  year:    %d\n", st.Year)
	if st.Scott != "" {
		fmt.Fprintf(Out, "  scott:   %s\n", st.Scott)
	}
	if st.Species != "" {
		fmt.Fprintf(Out, "  species: %s\n", st.Species)
	}
	if st.Artist != "" {
		fmt.Fprintf(Out, "  artist:  %s\n", st.Artist)
	}
	printImageRef(app.Refs, st.Year)
	return nil
}

func init() { RegisterCmd(addCmd{}) }
