package app

import (
	"context"
	"testing"

	"github.com/bobmcallan/stock-analyser/internal/annotations"
	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/config"
)

func TestNew_MemoryStorage(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Storage.Type = "memory"

	a, err := New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	if a.Analysis.AnalyzerName() != "placeholder" {
		t.Errorf("expected placeholder analyzer without a key, got %s", a.Analysis.AnalyzerName())
	}
	if got := len(a.Book.Holdings()); got == 0 {
		t.Error("expected the book to start with the sample portfolio")
	}
	if len(a.MCPHandler.ToolNames()) == 0 {
		t.Error("expected MCP tools to be registered")
	}
}

func TestNew_UnknownStorage(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Storage.Type = "postgres"

	if _, err := New(cfg, common.NewSilentLogger()); err == nil {
		t.Fatal("expected error for unknown storage type")
	}
}

func TestClose_FlushesPendingNotes(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Storage.Type = "badger"
	cfg.Storage.Badger.Path = t.TempDir()
	cfg.Annotations.NotesDebounce = "1h"

	a, err := New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	a.Notes.Submit("AAPL", "hold through earnings")
	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	b, err := New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer b.Close()

	ann, ok := b.Annotations.Get("AAPL")
	if !ok || ann.NotesText() != "hold through earnings" {
		t.Errorf("expected flushed notes after reopen, got %+v", ann)
	}

	reloaded := annotations.NewStore(context.Background(), b.Storage.KeyValueStorage(), common.NewSilentLogger())
	if a, _ := reloaded.Get("AAPL"); a.NotesText() != "hold through earnings" {
		t.Error("expected notes in persisted record")
	}
}
