package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/stock-analyser/internal/analysis"
	"github.com/bobmcallan/stock-analyser/internal/annotations"
	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/models"
	"github.com/bobmcallan/stock-analyser/internal/portfolio"
	"github.com/bobmcallan/stock-analyser/internal/storage/memory"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

func testServices(t *testing.T) Services {
	t.Helper()
	logger := common.NewSilentLogger()
	return Services{
		Book:        portfolio.NewBook(logger),
		Annotations: annotations.NewStore(context.Background(), memory.NewKVStorage(), logger),
		Analysis:    analysis.NewService(&analysis.PlaceholderAnalyzer{}, time.Hour, 10, logger),
	}
}

func callRequest(name string, args map[string]interface{}) mcpgo.CallToolRequest {
	return mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	return result.Content[0].(mcpgo.TextContent).Text
}

func TestNewHandler_RegistersTools(t *testing.T) {
	h := NewHandler(testServices(t), common.NewSilentLogger())

	want := []string{"list_holdings", "get_annotations", "set_rating", "set_notes", "get_analysis_prompt", "get_version", "get_analysis"}
	got := h.ToolNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected tools %v, got %v", want, got)
	}
}

func TestCatalog_HasDescriptions(t *testing.T) {
	h := NewHandler(testServices(t), common.NewSilentLogger())

	catalog := h.Catalog()
	if len(catalog) != len(h.ToolNames()) {
		t.Fatalf("expected catalog entry per tool, got %d", len(catalog))
	}
	for _, tool := range catalog {
		if tool.Description == "" {
			t.Errorf("tool %s has no description", tool.Name)
		}
	}
}

func TestListHoldings(t *testing.T) {
	svc := testServices(t)
	svc.Annotations.SetRating(context.Background(), "AAPL", models.GeminiRating, models.RatingBuy)

	result, err := listHoldingsHandler(svc)(t.Context(), callRequest("list_holdings", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var views []holdingView
	if err := json.Unmarshal([]byte(resultText(t, result)), &views); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(views) != len(portfolio.Sample()) {
		t.Fatalf("expected %d holdings, got %d", len(portfolio.Sample()), len(views))
	}
	for _, v := range views {
		if v.Ticker == "AAPL" && (v.Annotation == nil || v.Annotation.GeminiRating != models.RatingBuy) {
			t.Errorf("expected AAPL annotation in output, got %+v", v.Annotation)
		}
	}
}

func TestListHoldings_SectorFilter(t *testing.T) {
	svc := testServices(t)

	result, _ := listHoldingsHandler(svc)(t.Context(), callRequest("list_holdings", map[string]interface{}{"sector": "technology"}))

	var views []holdingView
	json.Unmarshal([]byte(resultText(t, result)), &views)
	if len(views) == 0 {
		t.Fatal("expected technology holdings")
	}
	for _, v := range views {
		if v.Sector != "Technology" {
			t.Errorf("unexpected sector %q", v.Sector)
		}
	}
}

func TestSetRatingAndGetAnnotations(t *testing.T) {
	svc := testServices(t)

	result, _ := setRatingHandler(svc)(t.Context(), callRequest("set_rating", map[string]interface{}{
		"ticker": "MSFT",
		"field":  "perplexity_rating",
		"value":  "Hold",
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	result, _ = getAnnotationsHandler(svc)(t.Context(), callRequest("get_annotations", map[string]interface{}{"ticker": "MSFT"}))
	var a models.Annotation
	json.Unmarshal([]byte(resultText(t, result)), &a)
	if a.PerplexityRating != models.RatingHold {
		t.Errorf("expected Hold, got %q", a.PerplexityRating)
	}

	result, _ = getAnnotationsHandler(svc)(t.Context(), callRequest("get_annotations", map[string]interface{}{"ticker": "NONE"}))
	if !result.IsError {
		t.Error("expected error for ticker without annotation")
	}
}

func TestSetRating_Invalid(t *testing.T) {
	svc := testServices(t)

	result, _ := setRatingHandler(svc)(t.Context(), callRequest("set_rating", map[string]interface{}{
		"ticker": "MSFT",
		"field":  "gemini_rating",
		"value":  "Moon",
	}))
	if !result.IsError {
		t.Fatal("expected tool error for invalid rating")
	}
	if !strings.Contains(resultText(t, result), "invalid rating") {
		t.Errorf("expected invalid rating message, got %s", resultText(t, result))
	}
}

func TestSetNotes(t *testing.T) {
	svc := testServices(t)

	result, _ := setNotesHandler(svc)(t.Context(), callRequest("set_notes", map[string]interface{}{
		"ticker": "NVDA",
		"notes":  "watch earnings",
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if a, _ := svc.Annotations.Get("NVDA"); a.NotesText() != "watch earnings" {
		t.Errorf("expected notes saved, got %q", a.NotesText())
	}

	result, _ = setNotesHandler(svc)(t.Context(), callRequest("set_notes", map[string]interface{}{"notes": "x"}))
	if !result.IsError {
		t.Error("expected error without ticker")
	}
}

func TestAnalysisPrompt(t *testing.T) {
	svc := testServices(t)

	result, _ := analysisPromptHandler(svc)(t.Context(), callRequest("get_analysis_prompt", map[string]interface{}{"ticker": "AAPL"}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "Apple Inc") {
		t.Error("expected company name in prompt")
	}

	result, _ = analysisPromptHandler(svc)(t.Context(), callRequest("get_analysis_prompt", map[string]interface{}{"ticker": "NOPE"}))
	if !result.IsError {
		t.Error("expected error for unknown ticker")
	}
}

func TestAnalyze(t *testing.T) {
	svc := testServices(t)

	result, _ := analyzeHandler(svc)(t.Context(), callRequest("get_analysis", map[string]interface{}{"ticker": "AAPL"}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if !strings.HasPrefix(resultText(t, result), "# Analysis for AAPL") {
		t.Errorf("expected markdown report, got %q", resultText(t, result))
	}
}

func TestVersionToolHandler(t *testing.T) {
	result, err := VersionToolHandler()(t.Context(), mcpgo.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var info versionInfo
	if err := json.Unmarshal([]byte(resultText(t, result)), &info); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if info.Version == "" {
		t.Error("expected version")
	}
}

func TestSetNotes_SupersedesPendingUINote(t *testing.T) {
	svc := testServices(t)
	svc.Notes = annotations.NewDebouncer(svc.Annotations.NotesWriter(), time.Hour, common.NewSilentLogger())
	svc.Notes.Submit("AAPL", "typed in the browser")

	result, _ := setNotesHandler(svc)(t.Context(), callRequest("set_notes", map[string]interface{}{
		"ticker": "AAPL",
		"notes":  "from the assistant",
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if _, ok := svc.Notes.Pending("AAPL"); ok {
		t.Error("pending UI note should be cancelled")
	}

	if err := svc.Notes.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	a, _ := svc.Annotations.Get("AAPL")
	if a.NotesText() != "from the assistant" {
		t.Errorf("expected assistant notes to win, got %q", a.NotesText())
	}
}

func TestGetAnnotations_FlushesPendingNotes(t *testing.T) {
	svc := testServices(t)
	svc.Notes = annotations.NewDebouncer(svc.Annotations.NotesWriter(), time.Hour, common.NewSilentLogger())
	svc.Notes.Submit("NVDA", "still typing")

	result, _ := getAnnotationsHandler(svc)(t.Context(), callRequest("get_annotations", map[string]interface{}{"ticker": "NVDA"}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	var a models.Annotation
	if err := json.Unmarshal([]byte(resultText(t, result)), &a); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if a.NotesText() != "still typing" {
		t.Errorf("expected pending notes in result, got %q", a.NotesText())
	}
}
