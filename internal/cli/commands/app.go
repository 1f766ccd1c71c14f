package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"StampVault/internal/bootstrap"
	"StampVault/internal/config"
	"StampVault/internal/model"

	"github.com/shopspring/decimal"
)

// openApp открывает хранилище и справочники для команды; cleanup закрывает БД.
func openApp(ctx context.Context, cfg *config.Config) (*bootstrap.App, func() error, error) {
	logger, err := bootstrap.NewLogger(cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return bootstrap.Open(ctx, cfg, logger)
}

// newFlagSet — флаги команды без вывода в stderr; ошибки разбора превращаются в ErrUsage.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// stampFlags — поля записи, общие для add и edit.
type stampFlags struct {
	year      *int
	face      *string
	price     *string
	est       *string
	date      *string
	condition *string
	signature *string
	acq       *string
	artist    *string
	species   *string
	scott     *string
	plate     *string
	notes     *string
	image     *string
}

func bindStampFlags(fs *flag.FlagSet) *stampFlags {
	return &stampFlags{
		year:      fs.Int("year", 0, "год выпуска (1934–2100)"),
		face:      fs.String("face", "", "номинал, USD"),
		price:     fs.String("price", "", "цена покупки, USD"),
		est:       fs.String("est", "", "оценочная стоимость, USD"),
		date:      fs.String("date", "", "дата покупки YYYY-MM-DD"),
		condition: fs.String("condition", "", "состояние"),
		signature: fs.String("signature", "", "тип подписи"),
		acq:       fs.String("acq", "", "способ приобретения"),
		artist:    fs.String("artist", "", "художник"),
		species:   fs.String("species", "", "вид"),
		scott:     fs.String("scott", "", "номер по каталогу Скотта"),
		plate:     fs.String("plate", "", "номер пластины/позиция"),
		notes:     fs.String("notes", "", "заметки"),
		image:     fs.String("image", "", "путь к файлу изображения"),
	}
}

// patch собирает StampPatch только из флагов, заданных в командной строке.
func (f *stampFlags) patch(fs *flag.FlagSet) (model.StampPatch, error) {
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	var p model.StampPatch
	if set["year"] {
		p.Year = f.year
	}
	if set["price"] {
		d, err := parseAmount("price", *f.price)
		if err != nil {
			return p, err
		}
		p.Price = &d
	}
	if set["face"] {
		d, err := parseNullAmount("face", *f.face)
		if err != nil {
			return p, err
		}
		p.FaceValue = &d
	}
	if set["est"] {
		d, err := parseNullAmount("est", *f.est)
		if err != nil {
			return p, err
		}
		p.EstValue = &d
	}
	for _, t := range []struct {
		name string
		dst  **string
		val  *string
	}{
		{"date", &p.PurchaseDate, f.date},
		{"condition", &p.Condition, f.condition},
		{"signature", &p.SignatureType, f.signature},
		{"acq", &p.Acquisition, f.acq},
		{"artist", &p.Artist, f.artist},
		{"species", &p.Species, f.species},
		{"scott", &p.Scott, f.scott},
		{"plate", &p.PlatePos, f.plate},
		{"notes", &p.Notes, f.notes},
	} {
		if set[t.name] {
			*t.dst = t.val
		}
	}
	return p, nil
}

// readImage читает файл изображения; пустой путь — изображения нет.
func (f *stampFlags) readImage() ([]byte, error) {
	if *f.image == "" {
		return nil, nil
	}
	b, err := os.ReadFile(*f.image)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return b, nil
}

func parseAmount(name, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q", name, s)
	}
	return d, nil
}

func parseNullAmount(name, s string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseAmount(name, s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// confirm задаёт вопрос и читает ответ из In.
func confirm(question string) bool {
	fmt.Fprintf(Out, "%s [y/N]: ", question)
	line, _ := bufio.NewReader(In).ReadString('\n')
	switch strings.TrimSpace(strings.ToLower(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrUsage
	}
	return y, nil
}
