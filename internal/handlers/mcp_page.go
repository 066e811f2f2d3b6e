package handlers

import (
	"fmt"
	"net/http"

	"github.com/bobmcallan/stock-analyser/internal/common"
)

// MCPPageTool holds display-only fields for a tool on the MCP page.
type MCPPageTool struct {
	Name        string
	Description string
}

// MCPPageHandler serves the MCP info page showing connection details and tools.
type MCPPageHandler struct {
	logger    *common.Logger
	pages     *PageHandler
	baseURL   string
	catalogFn func() []MCPPageTool
}

// NewMCPPageHandler creates a new MCP page handler. catalogFn may be nil
// when the MCP endpoint is disabled.
func NewMCPPageHandler(logger *common.Logger, pages *PageHandler, baseURL string, catalogFn func() []MCPPageTool) *MCPPageHandler {
	return &MCPPageHandler{
		logger:    logger,
		pages:     pages,
		baseURL:   baseURL,
		catalogFn: catalogFn,
	}
}

// ServeHTTP renders the MCP info page.
func (h *MCPPageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	var tools []MCPPageTool
	if h.catalogFn != nil {
		tools = h.catalogFn()
	}

	toolStatus := "NO TOOLS"
	if len(tools) > 0 {
		toolStatus = fmt.Sprintf("%d", len(tools))
	}

	data := pageData(r, "mcp", "MCP")
	data["Tools"] = tools
	data["ToolStatus"] = toolStatus
	data["MCPEndpoint"] = h.baseURL + "/mcp"

	h.pages.Render(w, http.StatusOK, "mcp.html", data)
}
