package view

import (
	"embed"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("page.html").Funcs(template.FuncMap{
		"loadingText":    func() string { return LoadingText },
		"noParticipants": func() string { return NoParticipants },
	}).ParseFS(templateFS, "templates/page.html"),
)

// Page is the data handed to the page template.
type Page struct {
	Snapshot
	// CSRFField is the hidden token input added to every form, empty when
	// CSRF protection is off.
	CSRFField template.HTML
	// HideMessageAfter is how long the visible message stays on screen
	// before the page hides it.
	HideMessageAfter time.Duration
}

// HideMessageMillis returns HideMessageAfter in milliseconds for the page
// script.
func (p Page) HideMessageMillis() int64 {
	return max(p.HideMessageAfter.Milliseconds(), 0)
}

// Render writes the full HTML page to w.
func Render(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, p)
}
