package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"StampVault/internal/config"
	"StampVault/internal/render"
)

type chartCmd struct{}

func (chartCmd) Name() string        { return "chart" }
func (chartCmd) Description() string { return "Построить график затрат и оценки (SVG)" }
func (chartCmd) Usage() string       { return "chart [--out chart.svg]" }

func (chartCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("chart")
	out := fs.String("out", "chart.svg", "файл SVG")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 || *out == "" {
		return ErrUsage
	}

	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	theme, _ := app.Prefs.LoadTheme()
	chartCfg := render.ChartConfigForTheme(theme)
	canvas := render.NewSVGCanvas(chartCfg.Width, chartCfg.Height, chartCfg.Background)
	r := &render.ChartRenderer{Source: app.Stamps, Canvas: canvas, Config: chartCfg, Now: time.Now, Location: time.Local}

	summary, err := r.Render(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	if _, err := canvas.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", *out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	if s := summary.String(); s != "" {
		fmt.Fprintln(Out, s)
	} else {
		fmt.Fprintln(Out, "• Нет данных для графика")
	}
	fmt.Fprintf(Out, "→ %s\n", *out)
	return nil
}

func init() { RegisterCmd(chartCmd{}) }
