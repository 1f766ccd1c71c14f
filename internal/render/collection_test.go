package render

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"StampVault/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStamps struct {
	list []model.Stamp
	err  error
}

func (f *fakeStamps) GetAll(context.Context) ([]model.Stamp, error) {
	return append([]model.Stamp(nil), f.list...), f.err
}

type fakeImages map[string]*model.Image

func (f fakeImages) Get(_ context.Context, id string) (*model.Image, error) {
	if img, ok := f[id]; ok {
		return img, nil
	}
	return nil, errors.New("not found")
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nullDec(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }

func strPtr(s string) *string { return &s }

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0.00", FormatUSD(decimal.Zero))
	assert.Equal(t, "$1,234.50", FormatUSD(dec("1234.5")))
	assert.Equal(t, "-$5.00", FormatUSD(dec("-5")))
	assert.Equal(t, "$0.13", FormatUSD(dec("0.125")))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, Placeholder, FormatFace(decimal.NullDecimal{}))
	assert.Equal(t, "$0.00", FormatFace(nullDec("0")))
	assert.Equal(t, Placeholder, FormatEst(decimal.NullDecimal{}))
	assert.Equal(t, Placeholder, FormatEst(nullDec("0")))
	assert.Equal(t, "$50.00", FormatEst(nullDec("50")))
	assert.Equal(t, Placeholder, FormatPurchaseDate(nil))
	assert.Equal(t, Placeholder, FormatPurchaseDate(strPtr("")))
	assert.Equal(t, "Mar 5, 2024", FormatPurchaseDate(strPtr("2024-03-05")))
}

func TestCollectionRenderer_Empty(t *testing.T) {
	r := NewCollectionRenderer(&fakeStamps{}, fakeImages{}, NewObjectURLs("/blob/"), nil)

	view, err := r.Render(context.Background())
	require.NoError(t, err)
	assert.True(t, view.Empty())
	assert.Equal(t, "", view.Totals.String())

	out := CollectionMarkdown(view, MarkdownOptions{})
	assert.Contains(t, out, EmptyCollection)
	assert.NotContains(t, out, "Items:")
}

func TestCollectionRenderer_OrderTotalsAndCards(t *testing.T) {
	src := &fakeStamps{list: []model.Stamp{
		{ID: "none", Year: 1934},
		{ID: "a", AddedAt: 1000, Year: 1959, Price: dec("10"), EstValue: nullDec("50"), Scott: "RW26", Species: "King Eiders"},
		{ID: "b", AddedAt: 2000, Year: 1991, Price: dec("5"), EstValue: nullDec("20"), FaceValue: nullDec("25"), PurchaseDate: strPtr("2024-03-05")},
	}}
	r := NewCollectionRenderer(src, fakeImages{}, NewObjectURLs("/blob/"), nil)

	view, err := r.Render(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Cards, 3)

	assert.Equal(t, []string{"b", "a", "none"}, []string{view.Cards[0].ID, view.Cards[1].ID, view.Cards[2].ID})
	assert.Equal(t, "Items: 3 • Total Spend: $15.00 • Total Est. Value: $70.00 • Δ: $55.00", view.Totals.String())

	b := view.Cards[0]
	assert.Equal(t, "1991", b.Year)
	assert.Equal(t, "$25.00", b.Face)
	assert.Equal(t, "$5.00", b.Paid)
	assert.Equal(t, "$20.00", b.Est)
	assert.Equal(t, "Mar 5, 2024", b.Date)
	assert.Equal(t, Placeholder, b.Condition)
	assert.Equal(t, Placeholder, b.Acquired)

	none := view.Cards[2]
	assert.Equal(t, Placeholder, none.Face)
	assert.Equal(t, "$0.00", none.Paid)
	assert.Equal(t, Placeholder, none.Est)
	assert.Equal(t, Placeholder, none.Date)
	assert.Empty(t, none.ImageURL)
}

func TestCollectionRenderer_ReleasesPreviousLinks(t *testing.T) {
	images := fakeImages{
		"i1": {ID: "i1", ContentType: "image/png", Data: []byte("png")},
		"i2": {ID: "i2", ContentType: "image/jpeg", Data: []byte("jpg")},
	}
	src := &fakeStamps{list: []model.Stamp{
		{ID: "s1", AddedAt: 1, Year: 1934, ImageID: "i1"},
		{ID: "s2", AddedAt: 2, Year: 1935, ImageID: "i2"},
		{ID: "s3", AddedAt: 3, Year: 1936, ImageID: "missing"},
	}}
	urls := NewObjectURLs("/blob/")
	r := NewCollectionRenderer(src, images, urls, nil)
	ctx := context.Background()

	first, err := r.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, urls.Len())
	assert.Empty(t, first.Cards[0].ImageURL, "unreadable image renders without a link")

	for i := 0; i < 5; i++ {
		_, err = r.Render(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, urls.Len())

	// ссылки первого рендера отозваны
	token := strings.TrimPrefix(first.Cards[1].ImageURL, "/blob/")
	_, ok := urls.Open(token)
	assert.False(t, ok)

	r.Close()
	assert.Equal(t, 0, urls.Len())
}

func TestCollectionRenderer_StorageError(t *testing.T) {
	boom := errors.New("unavailable")
	r := NewCollectionRenderer(&fakeStamps{err: boom}, nil, nil, nil)
	_, err := r.Render(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestTempFiles_CreateRevoke(t *testing.T) {
	dir := t.TempDir()
	tf := NewTempFiles(dir)

	link, err := tf.Create(&model.Image{ContentType: "image/png", Data: []byte("data")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "file://"))
	require.Equal(t, 1, tf.Len())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	tf.Revoke(link)
	assert.Equal(t, 0, tf.Len())
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = tf.Create(nil)
	assert.ErrorIs(t, err, ErrNilImage)
}

func TestTempFiles_PurgeLeftovers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/stamp-old.png", []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(dir+"/keep.txt", []byte("x"), 0o600))

	tf := NewTempFiles(dir)
	_, err := tf.Create(&model.Image{ContentType: "image/png", Data: []byte("new")})
	require.NoError(t, err)

	require.NoError(t, tf.Purge())
	assert.Equal(t, 0, tf.Len())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep.txt", entries[0].Name())
}

func TestCollectionMarkdown_Cards(t *testing.T) {
	view := &CollectionView{
		Cards: []Card{{
			ID: "s1", Year: "1959", Scott: "RW26", Species: "King Eiders", Artist: "Maynard Reece",
			Condition: "Mint", Signature: "Signed", Face: "$3.00", Paid: "$10.00", Est: "$50.00",
			Acquired: "eBay", Date: "Mar 5, 2024", PlatePos: "UL 123", Notes: "Nice gum",
			ImageURL: "/blob/tok",
		}},
		Totals: Totals{Count: 1, Spend: dec("10"), Est: dec("50")},
	}

	out := CollectionMarkdown(view, MarkdownOptions{WithActions: true})
	assert.Contains(t, out, "1959 · RW26 · King Eiders · Artist: Maynard Reece")
	assert.Contains(t, out, "![Stamp 1959](/blob/tok)")
	assert.Contains(t, out, "**Face:** $3.00 • **Paid:** $10.00 • **Est:** $50.00")
	assert.Contains(t, out, "**Plate/Pos:** UL 123")
	assert.Contains(t, out, "**Signature:** Signed")
	assert.Contains(t, out, "Nice gum")
	assert.Contains(t, out, "[Edit](/add?edit=s1)")
	assert.Contains(t, out, "[Delete](/stamps/s1/delete)")
	assert.Contains(t, out, "Items: 1")

	plain := CollectionMarkdown(view, MarkdownOptions{})
	assert.NotContains(t, plain, "[Edit]")
}

func TestHTMLAndTerminal(t *testing.T) {
	html, err := HTML("# Vault\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Vault</h1>")
	assert.Contains(t, html, "<table>")

	out, err := Terminal("# Vault\n\nMallards\n", ThemeDark, 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Mallards")
}

func TestCollectionMarkdown_UserTextIsLiteral(t *testing.T) {
	view := &CollectionView{
		Cards: []Card{{
			ID: "s1", Year: "1959", Scott: "RW26", Artist: "Reece *and* Co",
			Condition: "[mint](/x)", Face: "—", Paid: "$10.00", Est: "—",
			Acquired: "# show", Date: "—", Notes: "Signed <John> *rare*\n- not a list",
		}},
		Totals: Totals{Count: 1, Spend: dec("10")},
	}

	html, err := HTML(CollectionMarkdown(view, MarkdownOptions{}))
	require.NoError(t, err)
	assert.Contains(t, html, "<h2>1959 · RW26 · Artist: Reece *and* Co</h2>")
	assert.Contains(t, html, "<p>Signed &lt;John&gt; *rare*\n- not a list</p>")
	assert.Contains(t, html, "[mint](/x)")
	assert.Contains(t, html, "# show")
	assert.NotContains(t, html, "<em>")
	assert.NotContains(t, html, "<a href")
	assert.NotContains(t, html, "<h1># show")
	// заметка не приклеилась к последнему пункту списка
	assert.NotContains(t, html, "Signed &lt;John&gt; *rare*</li>")
}

func TestEscapeText(t *testing.T) {
	assert.Equal(t, "", escapeText(""))
	assert.Equal(t, "Frank W. Benson", escapeText("Frank W. Benson"))
	assert.Equal(t, `a \*b\* \<c\>`, escapeText("a *b* <c>"))
	assert.Equal(t, "1959\\. good\n\\- item\n\\#tag", escapeText("1959. good\n- item\n   #tag"))
}
