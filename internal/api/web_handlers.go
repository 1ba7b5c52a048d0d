package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/kz4killua/wikirec/internal/domain"
	"github.com/kz4killua/wikirec/internal/dto"
)

//go:embed templates/*.html
var templates embed.FS

//nolint:gochecknoglobals // parsed once from the embedded FS
var pages = template.Must(template.ParseFS(templates, "templates/*.html"))

// appPageData contains data for the finder page template.
type appPageData struct {
	APIPrefix  string
	Slots      []domain.Slot
	Categories []dto.Category
}

func (s *Server) registerWebRoutes() {
	s.router.Get("/", s.handleIndexPage)
	s.router.Get("/app", s.handleAppPage)
}

// handleIndexPage serves the landing page.
// GET /
func (s *Server) handleIndexPage(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, "index.html", nil)
}

// handleAppPage serves the finder page. It drives a finder session through the
// JSON API and listens for updates on the session's event stream.
// GET /app
func (s *Server) handleAppPage(w http.ResponseWriter, _ *http.Request) {
	slots := domain.NewSlots()
	s.renderPage(w, "app.html", appPageData{
		APIPrefix:  APIPrefix,
		Slots:      slots[:],
		Categories: dto.Categories(),
	})
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", CacheNoStore)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("Failed to execute page template", "template", name, "error", err)
	}
}
