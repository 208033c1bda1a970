package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gartstein/employees/internal/employee/form"
	"github.com/gartstein/employees/internal/employee/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names.
const (
	viewList   = "list"
	viewDetail = "detail"
	viewError  = "error"
)

// ListView is the view model of the employee list page.
type ListView struct {
	AdminName  string
	Employees  []models.Employee
	SearchName string
	// Searched is set when the list is the result of a search.
	Searched  bool
	NoResults bool
}

// DetailForm echoes the update form fields back to the page.
type DetailForm struct {
	ID              string
	DependentsCount string
}

// DetailView is the view model of the employee detail page.
type DetailView struct {
	AdminName string
	Employee  *models.Employee
	Form      DetailForm
	Errors    form.ValidationErrors
}

type ErrorView struct {
	AdminName string
	Status    int
	Message   string
}

// Renderer executes the embedded HTML templates.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"formatDate": formatDate,
		"statusText": http.StatusText,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

// Render writes the named template with the given status. Nothing is
// written when the template fails; write errors to the client are ignored.
func (v *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := v.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
