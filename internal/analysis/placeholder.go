package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/stock-analyser/internal/models"
)

// PlaceholderAnalyzer returns a canned report after a fixed delay. It is
// used when no model API key is configured.
type PlaceholderAnalyzer struct {
	Delay time.Duration
}

func (p *PlaceholderAnalyzer) Name() string { return "placeholder" }

// Analyze waits Delay (or until ctx is done) and returns the report.
func (p *PlaceholderAnalyzer) Analyze(ctx context.Context, h models.Holding, _ string) (string, error) {
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return fmt.Sprintf(`# Analysis for %s (%s)

## Company Overview
[Simulated response - configure a Gemini API key for a detailed analysis]

## Financial Health
[Simulated financial data]

## Valuation
[Simulated valuation metrics]

## Growth Prospects
[Simulated growth analysis]

## Risks & Challenges
[Simulated risk assessment]

## Competitive Advantage
[Simulated competitive analysis]

## Management & Governance
[Simulated management assessment]

## ESG Factors
[Simulated ESG analysis]

## Conclusion
**Recommendation**: Hold
[Simulated conclusion with justification]`, h.Ticker, h.Name), nil
}
