package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/stock-analyser/internal/common"
)

func TestPageHandler_StaticPages(t *testing.T) {
	h := NewPageHandler(common.NewSilentLogger())

	tests := []struct {
		template string
		page     string
		want     string
	}{
		{"about.html", "about", "About Stock Analyzer"},
		{"indian-portfolio.html", "indian-portfolio", "Indian Stock Portfolio"},
		{"screener.html", "screener", "Stock Screener"},
	}

	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			w := serve(h.ServePage(tt.template, tt.page, ""), httptest.NewRequest("GET", "/"+tt.page, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			body := w.Body.String()
			if !strings.Contains(body, tt.want) {
				t.Errorf("expected %q in page", tt.want)
			}
			if !strings.Contains(body, `class="nav-link active" href="/`+tt.page+`"`) {
				t.Errorf("expected %s nav link to be active", tt.page)
			}
		})
	}
}

func TestPageHandler_HomeAndNotFound(t *testing.T) {
	h := NewPageHandler(common.NewSilentLogger())

	w := serve(h.ServeHome, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Welcome to Stock Analyzer") {
		t.Error("expected home hero text")
	}

	w = serve(h.ServeHome, httptest.NewRequest("GET", "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestPageHandler_RejectsPost(t *testing.T) {
	h := NewPageHandler(common.NewSilentLogger())
	w := serve(h.ServePage("about.html", "about", ""), httptest.NewRequest("POST", "/about", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestPageHandler_StaticFiles(t *testing.T) {
	h := NewPageHandler(common.NewSilentLogger())

	w := serve(h.StaticFileHandler, httptest.NewRequest("GET", "/static/app.js", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "navigator.clipboard.writeText") {
		t.Error("expected page script content")
	}

	w = serve(h.StaticFileHandler, httptest.NewRequest("GET", "/static/missing.css", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for missing asset, got %d", w.Code)
	}
}

func TestPageHandler_CSRFTokenInForms(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest("GET", "/us-portfolio", nil)
	req = req.WithContext(WithCSRFToken(req.Context(), "tok123"))

	w := serve(f.portfolio.ServeHTTP, req)
	if !strings.Contains(w.Body.String(), `name="_csrf" value="tok123"`) {
		t.Error("expected CSRF token in acquisition forms")
	}
}

func TestMCPPageHandler_ListsTools(t *testing.T) {
	pages := NewPageHandler(common.NewSilentLogger())
	h := NewMCPPageHandler(common.NewSilentLogger(), pages, "http://localhost:4241", func() []MCPPageTool {
		return []MCPPageTool{{Name: "list_holdings", Description: "List the holdings"}}
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/mcp-info", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"http://localhost:4241/mcp", "list_holdings", "List the holdings"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in MCP page", want)
		}
	}
}

func TestMCPPageHandler_NoTools(t *testing.T) {
	pages := NewPageHandler(common.NewSilentLogger())
	h := NewMCPPageHandler(common.NewSilentLogger(), pages, "http://localhost:4241", nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/mcp-info", nil))

	if !strings.Contains(w.Body.String(), "NO TOOLS") {
		t.Error("expected NO TOOLS status")
	}
}
