package render

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	md "github.com/nao1215/markdown"
)

// MarkdownOptions управляет выводом CollectionMarkdown.
type MarkdownOptions struct {
	Title       string
	WithActions bool // ссылки Edit/Delete веб-интерфейса
}

// CollectionMarkdown рендерит коллекцию в Markdown.
func CollectionMarkdown(v *CollectionView, opts MarkdownOptions) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	title := opts.Title
	if title == "" {
		title = "My Collection"
	}
	doc.H1(title)

	if v.Empty() {
		doc.PlainText(EmptyCollection)
		return doc.String()
	}
	doc.PlainText(md.Bold(v.Totals.String()))

	for _, c := range v.Cards {
		doc.H2(cardTitle(c))
		if c.ImageURL != "" {
			doc.PlainText(md.Image("Stamp "+c.Year, c.ImageURL))
		}

		details := []string{
			joinParts(labeled("Condition", escapeText(c.Condition)), optional("Signature", escapeText(c.Signature))),
			joinParts(labeled("Face", c.Face), labeled("Paid", c.Paid), labeled("Est", c.Est)),
			joinParts(labeled("Acquired", escapeText(c.Acquired)), labeled("Date", c.Date), optional("Plate/Pos", escapeText(c.PlatePos))),
		}
		doc.BulletList(details...)

		// пустая строка закрывает список, иначе текст станет его продолжением
		if c.Notes != "" {
			doc.PlainText("")
			doc.PlainText(escapeText(c.Notes))
		}
		if opts.WithActions {
			id := url.PathEscape(c.ID)
			doc.PlainText("")
			doc.PlainText(joinParts(
				md.Link("Edit", "/add?edit="+url.QueryEscape(c.ID)),
				md.Link("Delete", "/stamps/"+id+"/delete"),
			))
		}
	}
	return doc.String()
}

// cardTitle: год и непустые номер, вид, художник.
func cardTitle(c Card) string {
	parts := []string{c.Year}
	if c.Scott != "" {
		parts = append(parts, escapeText(c.Scott))
	}
	if c.Species != "" {
		parts = append(parts, escapeText(c.Species))
	}
	if c.Artist != "" {
		parts = append(parts, "Artist: "+escapeText(c.Artist))
	}
	return strings.Join(strings.Fields(strings.Join(parts, " · ")), " ")
}

// inlineMarkup — символы строчной разметки и сырого HTML.
const inlineMarkup = "\\`*_[]<>!|~&"

// blockMarker — начало строки, которое Markdown примет за заголовок, список или цитату.
var blockMarker = regexp.MustCompile(`^([#>+=-]|\d+[.)])`)

// escapeText экранирует пользовательский текст, чтобы он выводился буквально.
func escapeText(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// отступ в четыре пробела превратился бы в блок кода
		line = strings.TrimLeft(line, " \t")
		var b strings.Builder
		for _, r := range line {
			if strings.ContainsRune(inlineMarkup, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		lines[i] = blockMarker.ReplaceAllStringFunc(b.String(), func(m string) string {
			last := len(m) - 1
			return m[:last] + "\\" + m[last:]
		})
	}
	return strings.Join(lines, "\n")
}

func labeled(label, value string) string {
	return fmt.Sprintf("%s %s", md.Bold(label+":"), value)
}

func optional(label, value string) string {
	if value == "" {
		return ""
	}
	return labeled(label, value)
}

func joinParts(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " • ")
}
