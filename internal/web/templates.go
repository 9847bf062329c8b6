package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/mmynk/minishop/internal/middleware"
	"github.com/mmynk/minishop/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"login", "register", "products", "cart", "error"}

// pageData is the model handed to every template.
type pageData struct {
	Title string
	// Username and DisplayName describe the signed-in viewer; render fills
	// them from the request.
	Username    string
	DisplayName string
	Notice      string
	Error       string

	Form     formValues
	Products []*models.Product
	Cart     *models.Cart
}

// formValues echoes user input back into a re-rendered form. Passwords are
// never echoed.
type formValues struct {
	Username string
	FullName string
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// render executes into a buffer first so a template error can still become
// a clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	data.Username = usernameFrom(r)
	data.DisplayName = middleware.GetDisplayName(r.Context())

	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("Failed to render template", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, "error", pageData{
		Title: http.StatusText(status),
		Error: message,
	})
}
