package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"StampVault/internal/model"
	"StampVault/internal/render"
	"StampVault/internal/repo"

	"go.uber.org/zap"
)

// flashKey — параметр запроса с сообщением после редиректа; flashErrKey помечает ошибку.
const (
	flashKey    = "flash"
	flashErrKey = "error"
)

var layout = template.Must(template.New("layout").Parse(`<!doctype html>
<html lang="en" data-theme="{{.Theme}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · Duck Stamp Vault</title>
<link rel="stylesheet" href="/assets/index.css">
<link rel="manifest" href="/assets/manifest.webmanifest">
</head>
<body>
<header>
<nav>
<a href="/">Collection</a>
<a href="/value">Value</a>
<a href="/add">Add a stamp</a>
<a href="/export">Export</a>
<a href="/export.xlsx">Export XLSX</a>
<form method="post" action="/theme"><button type="submit">{{if eq .Theme "dark"}}☀️ Light{{else}}🌙 Dark{{end}}</button></form>
</nav>
{{if .Flash}}<p class="flash{{if .FlashError}} error{{end}}">{{.Flash}}</p>{{end}}
</header>
<main>
{{.Body}}
</main>
<footer>
<form method="post" action="/import" enctype="multipart/form-data">
<label>Import JSON <input type="file" name="file" accept="application/json,.json" required></label>
<button type="submit">Import</button>
</form>
</footer>
</body>
</html>
`))

type layoutData struct {
	Title      string
	Theme      string
	Flash      string
	FlashError bool
	Body       template.HTML
}

// pages собирает страницы в общий макет с учётом темы.
type pages struct {
	prefs  repo.ThemeStore
	logger *zap.SugaredLogger
}

func (p *pages) theme() string {
	if p.prefs == nil {
		return model.ThemeLight
	}
	t, err := p.prefs.LoadTheme()
	if err != nil {
		p.logger.Debugw("pages: theme fallback", "error", err)
	}
	return t
}

// writeHTML отдаёт готовый фрагмент в макете.
func (p *pages) writeHTML(w http.ResponseWriter, r *http.Request, status int, title string, body template.HTML) {
	q := r.URL.Query()
	data := layoutData{
		Title:      title,
		Theme:      p.theme(),
		Flash:      q.Get(flashKey),
		FlashError: q.Get(flashErrKey) != "",
		Body:       body,
	}
	var buf bytes.Buffer
	if err := layout.Execute(&buf, data); err != nil {
		p.logger.Errorw("pages: layout failed", "title", title, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeMarkdown конвертирует Markdown в HTML и отдаёт в макете.
func (p *pages) writeMarkdown(w http.ResponseWriter, r *http.Request, title, markdown string) {
	html, err := render.HTML(markdown)
	if err != nil {
		p.logger.Errorw("pages: markdown failed", "title", title, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	// goldmark без WithUnsafe не пропускает сырой HTML
	p.writeHTML(w, r, http.StatusOK, title, template.HTML(html))
}

// writeTemplate исполняет шаблон тела страницы и отдаёт его в макете.
func (p *pages) writeTemplate(w http.ResponseWriter, r *http.Request, title string, t *template.Template, data any) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		p.logger.Errorw("pages: template failed", "title", title, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	p.writeHTML(w, r, http.StatusOK, title, template.HTML(buf.String()))
}

// ToggleTheme переключает тему и возвращает на исходную страницу.
func (p *pages) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	back := localPath(r)
	theme, err := p.prefs.ToggleTheme()
	if err != nil {
		p.logger.Errorw("ToggleTheme: failed", "error", err)
		redirectFlash(w, r, back, "Could not save theme", true)
		return
	}
	p.logger.Debugw("ToggleTheme: switched", "theme", theme)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// localPath возвращает путь страницы-источника на этом же хосте или "/".
func localPath(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Host != r.Host {
		return "/"
	}
	p := ref.Path
	// "//host" и "/\host" браузер понимает как другой хост
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}

// redirectFlash перенаправляет на target с сообщением.
func redirectFlash(w http.ResponseWriter, r *http.Request, target, msg string, isErr bool) {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	q := u.Query()
	q.Set(flashKey, msg)
	if isErr {
		q.Set(flashErrKey, "1")
	}
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}
