package portfolio

import (
	"context"
	"io"

	"github.com/bobmcallan/stock-analyser/internal/interfaces"
	"github.com/bobmcallan/stock-analyser/internal/models"
)

// SampleSource yields the bundled sample portfolio.
type SampleSource struct{}

func (SampleSource) Name() string { return "sample" }

func (SampleSource) Holdings(context.Context) ([]models.Holding, error) {
	return Sample(), nil
}

// UploadSource parses an uploaded file.
type UploadSource struct {
	Filename string
	Reader   io.Reader
}

func (UploadSource) Name() string { return "upload" }

func (s UploadSource) Holdings(ctx context.Context) ([]models.Holding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseUpload(s.Reader)
}

// RemoteSource fetches holdings from the brokerage. An empty result is
// an error.
type RemoteSource struct {
	Fetcher interfaces.HoldingsFetcher
}

func (RemoteSource) Name() string { return "indmoney" }

func (s RemoteSource) Holdings(ctx context.Context) ([]models.Holding, error) {
	holdings, err := s.Fetcher.FetchHoldings(ctx)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return nil, ErrNoHoldings
	}
	return holdings, nil
}
