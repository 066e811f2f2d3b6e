package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/stock-analyser/internal/analysis"
	"github.com/bobmcallan/stock-analyser/internal/annotations"
	"github.com/bobmcallan/stock-analyser/internal/client"
	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/config"
	"github.com/bobmcallan/stock-analyser/internal/handlers"
	"github.com/bobmcallan/stock-analyser/internal/interfaces"
	"github.com/bobmcallan/stock-analyser/internal/mcp"
	"github.com/bobmcallan/stock-analyser/internal/metrics"
	"github.com/bobmcallan/stock-analyser/internal/portfolio"
	"github.com/bobmcallan/stock-analyser/internal/storage"
	"github.com/bobmcallan/stock-analyser/internal/tableview"
)

// initTimeout bounds the storage reads done at startup.
const initTimeout = 10 * time.Second

// App holds all application components and dependencies.
type App struct {
	Config  *config.Config
	Logger  *common.Logger
	Metrics *metrics.Registry
	Storage interfaces.StorageManager

	// Domain services
	Book        *portfolio.Book
	Annotations *annotations.Store
	Notes       *annotations.Debouncer
	Table       *tableview.State
	Brokerage   *client.BrokerageClient
	Analysis    *analysis.Service

	// HTTP handlers
	PageHandler        *handlers.PageHandler
	HealthHandler      *handlers.HealthHandler
	BrokerageHealth    *handlers.BrokerageHealthHandler
	VersionHandler     *handlers.VersionHandler
	PortfolioHandler   *handlers.PortfolioHandler
	AnnotationsHandler *handlers.AnnotationsHandler
	TableHandler       *handlers.TableHandler
	HoldingsHandler    *handlers.HoldingsHandler
	AnalysisHandler    *handlers.AnalysisHandler
	MCPHandler         *mcp.Handler
	MCPPageHandler     *handlers.MCPPageHandler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	store, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	a.Storage = store

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	a.initServices(ctx)
	a.initHandlers()

	logger.Info().
		Str("storage", cfg.Storage.Type).
		Str("analyzer", a.Analysis.AnalyzerName()).
		Str("brokerage", a.Brokerage.URL()).
		Msg("application initialization complete")

	return a, nil
}

// initServices builds the domain services over the shared storage.
func (a *App) initServices(ctx context.Context) {
	kv := a.Storage.KeyValueStorage()

	a.Book = portfolio.NewBook(a.Logger)
	a.Book.SetObserver(a.Metrics.ObserveLoad)

	a.Annotations = annotations.NewStore(ctx, kv, a.Logger)
	notesWriter := annotations.NotesWriterFunc(func(ctx context.Context, ticker, text string) error {
		err := a.Annotations.NotesWriter().SetNotes(ctx, ticker, text)
		a.Metrics.ObserveAnnotation("notes", err)
		return err
	})
	a.Notes = annotations.NewDebouncer(notesWriter, a.Config.Annotations.GetNotesDebounce(), a.Logger)

	a.Table = tableview.NewState(ctx, kv, a.Logger)
	a.Brokerage = client.NewBrokerageClient(&a.Config.Brokerage, a.Logger)
	a.Analysis = analysis.NewService(a.newAnalyzer(ctx), a.Config.Analysis.GetCacheTTL(), a.Config.Analysis.CacheSize, a.Logger)
}

// newAnalyzer uses Gemini when a key is configured and the placeholder
// otherwise, or when the Gemini client cannot be created.
func (a *App) newAnalyzer(ctx context.Context) interfaces.Analyzer {
	cfg := a.Config.Analysis
	if cfg.GeminiAPIKey != "" {
		gemini, err := analysis.NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err == nil {
			return gemini
		}
		a.Logger.Warn().Err(err).Msg("gemini analyzer unavailable, using placeholder")
	}
	return &analysis.PlaceholderAnalyzer{Delay: cfg.GetPlaceholderDelay()}
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.PageHandler = handlers.NewPageHandler(a.Logger)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.BrokerageHealth = handlers.NewBrokerageHealthHandler(a.Logger, a.Brokerage)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)

	a.PortfolioHandler = handlers.NewPortfolioHandler(a.Logger, a.PageHandler, a.Book, a.Annotations, a.Notes, a.Table, a.Brokerage)

	a.AnnotationsHandler = handlers.NewAnnotationsHandler(a.Logger, a.Annotations, a.Notes)
	a.AnnotationsHandler.SetSaveObserver(a.Metrics.ObserveAnnotation)

	a.TableHandler = handlers.NewTableHandler(a.Logger, a.Table, a.Book, a.Annotations)
	a.TableHandler.SetChangeObserver(func(op string) {
		a.Metrics.TableChanges.WithLabelValues(op).Inc()
	})

	a.HoldingsHandler = handlers.NewHoldingsHandler(a.Logger, a.Book)

	a.AnalysisHandler = handlers.NewAnalysisHandler(a.Logger, a.PageHandler, a.Book, a.Analysis)
	a.AnalysisHandler.SetObserver(func(analyzer, result string) {
		a.Metrics.Analyses.WithLabelValues(analyzer, result).Inc()
	})

	a.MCPHandler = mcp.NewHandler(mcp.Services{
		Book:        a.Book,
		Annotations: a.Annotations,
		Notes:       a.Notes,
		Analysis:    a.Analysis,
	}, a.Logger)
	a.MCPPageHandler = handlers.NewMCPPageHandler(a.Logger, a.PageHandler, a.Config.BaseURL(), func() []handlers.MCPPageTool {
		catalog := a.MCPHandler.Catalog()
		tools := make([]handlers.MCPPageTool, 0, len(catalog))
		for _, t := range catalog {
			tools = append(tools, handlers.MCPPageTool{Name: t.Name, Description: t.Description})
		}
		return tools
	})

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close writes pending notes and closes storage.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	flushErr := a.Notes.Flush(ctx)
	if err := a.Storage.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return flushErr
}
