package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// messageStatuses are the labels offered by the dashboard; stored labels
// outside this list are still shown as-is.
var messageStatuses = []string{"New", "Contacted", "In Progress", "Closed"}

//go:embed templates/*.html
var templateFiles embed.FS

// Renderer renders the embedded page templates for echo
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"imageURL":    imageURL,
		"stars":       stars,
		"statuses":    func() []string { return messageStatuses },
		"knownStatus": knownStatus,
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Renderer{templates: tmpl}, nil
}

// Render implements echo.Renderer
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

func knownStatus(status string) bool {
	for _, s := range messageStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// imageURL maps a stored upload name to its public path
func imageURL(name *string) string {
	if name == nil || *name == "" {
		return ""
	}
	return "/static/uploads/" + *name
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	out := make([]rune, 0, 5)
	for i := 0; i < 5; i++ {
		if i < rating {
			out = append(out, '★')
		} else {
			out = append(out, '☆')
		}
	}
	return string(out)
}
