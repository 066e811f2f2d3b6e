package server

import (
	"net/http"

	"github.com/bobmcallan/stock-analyser/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	a := s.app

	// UI page routes (HTML templates)
	mux.HandleFunc("/", a.PageHandler.ServeHome)
	mux.HandleFunc("/indian-portfolio", a.PageHandler.ServePage("indian-portfolio.html", "indian-portfolio", "Indian Portfolio"))
	mux.HandleFunc("/screener", a.PageHandler.ServePage("screener.html", "screener", "Screener"))
	mux.HandleFunc("/about", a.PageHandler.ServePage("about.html", "about", "About"))

	// US portfolio page and acquisition forms
	mux.Handle("/us-portfolio", a.PortfolioHandler)
	mux.HandleFunc("/us-portfolio/upload", a.PortfolioHandler.HandleUpload)
	mux.HandleFunc("/us-portfolio/sample", a.PortfolioHandler.HandleSample)
	mux.HandleFunc("/us-portfolio/fetch", a.PortfolioHandler.HandleFetch)
	mux.HandleFunc("/us-portfolio/dismiss", a.PortfolioHandler.HandleDismiss)
	mux.Handle("/us-portfolio/analysis/{ticker}", a.AnalysisHandler)

	// Static files (CSS, JS)
	mux.HandleFunc("/static/", a.PageHandler.StaticFileHandler)

	// MCP endpoint (JSON-RPC over HTTP)
	if a.MCPHandler != nil {
		mux.Handle("/mcp", a.MCPHandler)
		mux.Handle("/mcp-info", a.MCPPageHandler)
	}

	// Prometheus metrics
	mux.Handle("/metrics", a.Metrics.Handler())

	// API routes
	mux.HandleFunc("/api/health", a.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", a.VersionHandler.ServeHTTP)
	mux.Handle("/api/brokerage/health", a.BrokerageHealth)

	mux.HandleFunc("/api/holdings", apiRoute(MethodRouter{http.MethodGet: a.HoldingsHandler.HandleList}))
	mux.HandleFunc("/api/holdings/{ticker}/prompt", a.HoldingsHandler.HandlePrompt)

	mux.HandleFunc("/api/annotations", apiRoute(MethodRouter{http.MethodGet: a.AnnotationsHandler.HandleList}))
	mux.HandleFunc("/api/annotations/{ticker}/rating", apiRoute(MethodRouter{http.MethodPut: a.AnnotationsHandler.HandleRating}))
	mux.HandleFunc("/api/annotations/{ticker}/notes", apiRoute(MethodRouter{http.MethodPut: a.AnnotationsHandler.HandleNotes}))

	mux.HandleFunc("/api/table", a.TableHandler.HandleGet)
	mux.HandleFunc("/api/table/visibility/{column}", a.TableHandler.HandleVisibility)
	mux.HandleFunc("/api/table/order", a.TableHandler.HandleOrder)
	mux.HandleFunc("/api/table/sizing/{column}", a.TableHandler.HandleSizing)
	mux.HandleFunc("/api/table/sort/{column}", a.TableHandler.HandleSort)
	mux.HandleFunc("/api/table/page", a.TableHandler.HandlePage)
	mux.HandleFunc("/api/table/page-size", a.TableHandler.HandlePageSize)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusNotFound, map[string]string{
		"error":   "Not Found",
		"message": "The requested endpoint does not exist",
	})
}
