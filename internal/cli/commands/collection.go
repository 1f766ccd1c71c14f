package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"StampVault/internal/config"
	"StampVault/internal/render"
)

type collectionCmd struct{}

func (collectionCmd) Name() string        { return "collection" }
func (collectionCmd) Description() string { return "Показать коллекцию карточками с итогами" }
func (collectionCmd) Usage() string       { return "collection [--plain] [--width N]" }

func (collectionCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("collection")
	plain := fs.Bool("plain", false, "вывести Markdown без оформления")
	width := fs.Int("width", 100, "ширина переноса строк")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}

	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	// превью живут до следующего вызова collection
	dir := filepath.Join(cfg.DataDir, "previews")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create previews dir: %w", err)
	}
	previews := render.NewTempFiles(dir)
	if err := previews.Purge(); err != nil {
		app.Logger.Warnw("collection: purge previews", "error", err)
	}
	r := render.NewCollectionRenderer(app.Stamps, app.Images, previews, app.Logger)
	view, err := r.Render(ctx)
	if err != nil {
		return err
	}
	md := render.CollectionMarkdown(view, render.MarkdownOptions{})
	if *plain {
		fmt.Fprint(Out, md)
		return nil
	}

	theme, err := app.Prefs.LoadTheme()
	if err != nil {
		app.Logger.Debugw("collection: theme fallback", "error", err)
	}
	out, err := render.Terminal(md, theme, *width)
	if err != nil {
		return err
	}
	fmt.Fprint(Out, out)
	return nil
}

func init() { RegisterCmd(collectionCmd{}) }
