package commands

import (
	"context"
	"fmt"

	"StampVault/internal/config"
)

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Удалить марку вместе с изображением" }
func (deleteCmd) Usage() string       { return "delete [-y] <id>" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("delete")
	yes := fs.Bool("y", false, "не спрашивать подтверждение")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	id := fs.Arg(0)

	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	if _, err := app.Service.Get(ctx, id); err != nil {
		return err
	}
	if !*yes && !confirm("Remove this stamp from your vault?") {
		fmt.Fprintln(Out, "• Отменено пользователем")
		return nil
	}
	if err := app.Service.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Deleted 🗑️")
	return nil
}

func init() { RegisterCmd(deleteCmd{}) }
