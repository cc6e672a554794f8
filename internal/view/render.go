package view

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded dashboard templates.
type Renderer struct {
	tpl *template.Template
}

// NewRenderer parses the embedded templates once at startup.
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"formatNumber": FormatNumber,
	}
	tpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tpl: tpl}, nil
}

// Dashboard renders the player table page.
func (r *Renderer) Dashboard(w io.Writer, tv TableView) error {
	return r.tpl.ExecuteTemplate(w, "dashboard.html", tv)
}

// Login renders the session-cookie entry page. message carries an optional
// error shown above the form.
func (r *Renderer) Login(w io.Writer, message string) error {
	return r.tpl.ExecuteTemplate(w, "login.html", map[string]string{"Message": message})
}

// Error renders the failure page with the underlying error text and a retry
// link.
func (r *Renderer) Error(w io.Writer, page ErrorPage) error {
	return r.tpl.ExecuteTemplate(w, "error.html", page)
}
