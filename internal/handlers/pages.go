package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/config"
	"github.com/bobmcallan/stock-analyser/internal/models"
)

//go:embed templates static
var assets embed.FS

var templateFuncs = template.FuncMap{
	"ratings": func() []models.Rating { return models.Ratings },
	// sanitised marks HTML that has already been through the analysis
	// sanitiser as safe for output.
	"sanitised": func(s string) template.HTML { return template.HTML(s) },
}

// PageHandler serves HTML pages rendered with Go templates.
type PageHandler struct {
	logger    *common.Logger
	templates *template.Template
	static    http.Handler
}

// NewPageHandler creates a page handler from the embedded templates.
func NewPageHandler(logger *common.Logger) *PageHandler {
	templates := template.Must(template.New("").Funcs(templateFuncs).ParseFS(assets, "templates/*.html"))
	template.Must(templates.ParseFS(assets, "templates/partials/*.html"))

	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}

	return &PageHandler{
		logger:    logger,
		templates: templates,
		static:    http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))),
	}
}

// pageData returns the fields every page template expects.
func pageData(r *http.Request, page, title string) map[string]interface{} {
	return map[string]interface{}{
		"Page":          page,
		"Title":         title,
		"Year":          time.Now().Year(),
		"PortalVersion": config.GetVersion(),
		"CSRFToken":     CSRFToken(r),
	}
}

// ServePage creates a handler function for serving a specific page template.
func (h *PageHandler) ServePage(templateName, pageName, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !RequireMethod(w, r, http.MethodGet) {
			return
		}
		h.Render(w, http.StatusOK, templateName, pageData(r, pageName, title))
	}
}

// ServeHome serves the landing page at "/" and a 404 page for every other
// unmatched path.
func (h *PageHandler) ServeHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.NotFound(w, r)
		return
	}
	h.ServePage("home.html", "home", "")(w, r)
}

// NotFound renders the 404 page.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Render(w, http.StatusNotFound, "not-found.html", pageData(r, "", "Not Found"))
}

// Render writes templateName with status. The page is buffered and only
// sent once the template has executed.
func (h *PageHandler) Render(w http.ResponseWriter, status int, templateName string, data map[string]interface{}) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		if h.logger != nil {
			h.logger.Error().Str("template", templateName).Str("error", err.Error()).Msg("failed to render page")
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// StaticFileHandler serves the embedded CSS and JS under /static/.
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	h.static.ServeHTTP(w, r)
}
