package mcp

import (
	"context"
	"net/http"

	"github.com/bobmcallan/stock-analyser/internal/analysis"
	"github.com/bobmcallan/stock-analyser/internal/annotations"
	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/portfolio"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Services are the portal components the tools read and write. They are
// the same instances the web UI uses.
type Services struct {
	Book        *portfolio.Book
	Annotations *annotations.Store
	Notes       *annotations.Debouncer
	Analysis    *analysis.Service
}

// flushNotes writes notes still waiting in the UI debouncer so reads see
// what was typed. Write failures are logged by the debouncer.
func (s Services) flushNotes(ctx context.Context) {
	if s.Notes != nil {
		_ = s.Notes.Flush(ctx)
	}
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	server     *mcpserver.MCPServer
	logger     *common.Logger
	tools      []mcpgo.Tool
}

// NewHandler creates the MCP handler and registers every tool.
func NewHandler(svc Services, logger *common.Logger) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		"stock-analyser",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	tools := RegisterTools(mcpSrv, svc)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", len(tools)).
		Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		server:     mcpSrv,
		logger:     logger,
		tools:      tools,
	}
}

// ToolNames returns the registered tool names in registration order.
func (h *Handler) ToolNames() []string {
	names := make([]string, 0, len(h.tools))
	for _, t := range h.tools {
		names = append(names, t.Name)
	}
	return names
}

// ToolInfo is the display form of one registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

// Catalog lists the registered tools with their descriptions.
func (h *Handler) Catalog() []ToolInfo {
	out := make([]ToolInfo, 0, len(h.tools))
	for _, t := range h.tools {
		out = append(out, ToolInfo{Name: t.Name, Description: t.Description})
	}
	return out
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
