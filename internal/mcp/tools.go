package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/stock-analyser/internal/analysis"
	"github.com/bobmcallan/stock-analyser/internal/annotations"
	"github.com/bobmcallan/stock-analyser/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// holdingView is a holding joined with its annotation for tool output.
type holdingView struct {
	Ticker             string             `json:"ticker"`
	Name               string             `json:"name"`
	Sector             string             `json:"sector,omitempty"`
	Quantity           float64            `json:"quantity"`
	AvgPrice           float64            `json:"avg_price"`
	LivePrice          float64            `json:"live_price"`
	InvestedAmount     float64            `json:"invested_amount"`
	CurrentValue       float64            `json:"current_value"`
	TotalProfitLoss    float64            `json:"total_profit_loss"`
	TotalPercentChange float64            `json:"total_percent_change"`
	Annotation         *models.Annotation `json:"annotation,omitempty"`
}

// RegisterTools adds every portal tool to s and returns their names.
func RegisterTools(s *server.MCPServer, svc Services) []mcp.Tool {
	tools := []server.ServerTool{
		{Tool: listHoldingsTool(), Handler: listHoldingsHandler(svc)},
		{Tool: getAnnotationsTool(), Handler: getAnnotationsHandler(svc)},
		{Tool: setRatingTool(), Handler: setRatingHandler(svc)},
		{Tool: setNotesTool(), Handler: setNotesHandler(svc)},
		{Tool: analysisPromptTool(), Handler: analysisPromptHandler(svc)},
		{Tool: VersionTool(), Handler: VersionToolHandler()},
	}
	if svc.Analysis != nil {
		tools = append(tools, server.ServerTool{Tool: analyzeTool(), Handler: analyzeHandler(svc)})
	}

	registered := make([]mcp.Tool, 0, len(tools))
	for _, t := range tools {
		s.AddTool(t.Tool, t.Handler)
		registered = append(registered, t.Tool)
	}
	return registered
}

func listHoldingsTool() mcp.Tool {
	return mcp.NewTool("list_holdings",
		mcp.WithDescription("List the holdings in the loaded US portfolio with their ratings and notes."),
		mcp.WithString("sector", mcp.Description("Only return holdings in this sector (case-insensitive)")),
	)
}

func listHoldingsHandler(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sector := strings.TrimSpace(r.GetString("sector", ""))
		svc.flushNotes(ctx)
		notes := svc.Annotations.Snapshot()

		views := []holdingView{}
		for _, h := range svc.Book.Holdings() {
			if sector != "" && !strings.EqualFold(h.Sector, sector) {
				continue
			}
			v := holdingView{
				Ticker:             h.Ticker,
				Name:               h.Name,
				Sector:             h.Sector,
				Quantity:           h.Quantity,
				AvgPrice:           h.AvgPrice,
				LivePrice:          h.LivePrice,
				InvestedAmount:     h.InvestedAmount,
				CurrentValue:       h.CurrentValue,
				TotalProfitLoss:    h.TotalProfitLoss,
				TotalPercentChange: h.TotalPercentChange,
			}
			if a, ok := notes[h.Ticker]; ok {
				v.Annotation = &a
			}
			views = append(views, v)
		}
		return jsonResult(views), nil
	}
}

func getAnnotationsTool() mcp.Tool {
	return mcp.NewTool("get_annotations",
		mcp.WithDescription("Get saved ratings and notes. Returns every ticker unless one is given."),
		mcp.WithString("ticker", mcp.Description("Ticker symbol, e.g. AAPL")),
	)
}

func getAnnotationsHandler(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker := strings.TrimSpace(r.GetString("ticker", ""))
		svc.flushNotes(ctx)
		if ticker == "" {
			return jsonResult(svc.Annotations.Snapshot()), nil
		}
		a, ok := svc.Annotations.Get(ticker)
		if !ok {
			return errorResult(fmt.Sprintf("no annotation for %s", ticker)), nil
		}
		return jsonResult(a), nil
	}
}

func ratingFieldNames() []string {
	out := make([]string, len(models.RatingFields))
	for i, f := range models.RatingFields {
		out[i] = string(f)
	}
	return out
}

func ratingNames() []string {
	out := []string{""}
	for _, r := range models.Ratings {
		out = append(out, string(r))
	}
	return out
}

func setRatingTool() mcp.Tool {
	return mcp.NewTool("set_rating",
		mcp.WithDescription("Set one rating source for a ticker. An empty value clears the rating."),
		mcp.WithString("ticker", mcp.Required(), mcp.Description("Ticker symbol, e.g. AAPL")),
		mcp.WithString("field", mcp.Required(), mcp.Description("Rating source"), mcp.Enum(ratingFieldNames()...)),
		mcp.WithString("value", mcp.Required(), mcp.Description("Rating value, or empty to clear"), mcp.Enum(ratingNames()...)),
	)
}

func setRatingHandler(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker := r.GetString("ticker", "")
		field := models.RatingField(r.GetString("field", ""))
		value := models.Rating(r.GetString("value", ""))

		a, err := svc.Annotations.SetRating(ctx, ticker, field, value)
		if err != nil {
			return errorResult(annotationError(err)), nil
		}
		return jsonResult(a), nil
	}
}

func setNotesTool() mcp.Tool {
	return mcp.NewTool("set_notes",
		mcp.WithDescription("Replace the notes for a ticker."),
		mcp.WithString("ticker", mcp.Required(), mcp.Description("Ticker symbol, e.g. AAPL")),
		mcp.WithString("notes", mcp.Required(), mcp.Description("Notes text; empty clears the text")),
	)
}

func setNotesHandler(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker := strings.TrimSpace(r.GetString("ticker", ""))
		// This write is newer than anything still typed in the UI.
		if svc.Notes != nil {
			svc.Notes.Cancel(ticker)
		}
		a, err := svc.Annotations.SetNotes(ctx, ticker, r.GetString("notes", ""))
		if err != nil {
			return errorResult(annotationError(err)), nil
		}
		return jsonResult(a), nil
	}
}

func annotationError(err error) string {
	switch {
	case errors.Is(err, annotations.ErrEmptyTicker),
		errors.Is(err, annotations.ErrUnknownRatingField),
		errors.Is(err, annotations.ErrInvalidRating):
		return err.Error()
	}
	return "failed to save annotation"
}

func analysisPromptTool() mcp.Tool {
	return mcp.NewTool("get_analysis_prompt",
		mcp.WithDescription("Get the long-term investment analysis prompt for a holding, ready to paste into an AI assistant."),
		mcp.WithString("ticker", mcp.Required(), mcp.Description("Ticker symbol, e.g. AAPL")),
	)
}

func analysisPromptHandler(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker := r.GetString("ticker", "")
		h, ok := svc.Book.Find(ticker)
		if !ok {
			return errorResult(fmt.Sprintf("holding not found: %s", ticker)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(analysis.PromptFor(h))},
		}, nil
	}
}

func analyzeTool() mcp.Tool {
	return mcp.NewTool("get_analysis",
		mcp.WithDescription("Generate (or return the cached) markdown analysis report for a holding."),
		mcp.WithString("ticker", mcp.Required(), mcp.Description("Ticker symbol, e.g. AAPL")),
	)
}

func analyzeHandler(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker := r.GetString("ticker", "")
		h, ok := svc.Book.Find(ticker)
		if !ok {
			return errorResult(fmt.Sprintf("holding not found: %s", ticker)), nil
		}
		report, err := svc.Analysis.Analyze(ctx, h)
		if err != nil {
			return errorResult(analysis.MsgAnalysisFailed), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(report.Markdown)},
		}, nil
	}
}
