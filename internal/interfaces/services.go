package interfaces

import (
	"context"

	"github.com/bobmcallan/stock-analyser/internal/models"
)

// HoldingsSource produces a complete holdings list from one origin.
type HoldingsSource interface {
	Name() string
	Holdings(ctx context.Context) ([]models.Holding, error)
}

// HoldingsFetcher retrieves holdings from a remote brokerage.
type HoldingsFetcher interface {
	FetchHoldings(ctx context.Context) ([]models.Holding, error)
}

// Analyzer produces a markdown analysis report for one holding.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, h models.Holding, prompt string) (string, error)
}

// BrokerageProber reports whether the brokerage endpoint is usable.
type BrokerageProber interface {
	URL() string
	BreakerState() string
	Probe(ctx context.Context) error
}
