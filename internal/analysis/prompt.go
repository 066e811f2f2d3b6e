// Package analysis produces per-holding investment analysis reports.
package analysis

import (
	"strconv"
	"strings"

	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/models"
)

const promptBody = `Analyze the stock and provide a detailed long-term investment recommendation: Strong Buy, Buy, Hold, Sell or Strong Sell.
Your analysis should include the following sections:
Company Overview
 – Brief description of business model, core products/services, industry positioning, and key markets served.
Financial Health
 – Trends in revenue, EBITDA, and net profit over the last 5 years till the latest 2025 financials
 – Profitability metrics (Operating Margin, Net Margin, ROE, ROCE)
 – Balance sheet strength (Debt-to-Equity, Interest Coverage)
 – Free cash flow consistency
Valuation
 – Analyze valuation multiples: P/E, P/B, P/S, EV/EBITDA, PEG ratio
 – Compare with historical averages and industry peers
Growth Prospects & Projected CAGR
 – Growth outlook based on industry trends, market expansion, product pipeline, and analyst projections
 – Include expected revenue and/or earnings CAGR over the next 5–10 years
Risks & Challenges
 – Key business, financial, industry, or regulatory risks
 – Dependency on few products/customers, global exposure, etc.
Competitive Advantage & Moat
 – Does the company have durable competitive advantages?
 – Assess brand value, IP, cost leadership, switching costs, etc.
Promoter & Management Integrity
 – Track record of promoters and leadership team
 – Corporate governance, related-party transactions, share pledging, and past controversies (if any)
(Optional) ESG Factors
 – Environmental, social, or governance factors that may impact the business
✅ Conclusion – Investment Recommendation
– Provide a clear Buy, Hold, or Sell rating for long-term holding (5–10 years)
– Justify your rating with supporting data and assumptions
– Include a summary of projected long-term CAGR and risk/reward profile.`

// PromptFor composes the analysis prompt for one holding. The quantity is
// written as given; prices use the portal's currency format.
func PromptFor(h models.Holding) string {
	var b strings.Builder
	b.WriteString(h.Name)
	b.WriteString(" ")
	b.WriteString(h.Ticker)
	b.WriteString("\n\nCurrent Holdings:\n- Quantity: ")
	b.WriteString(strconv.FormatFloat(h.Quantity, 'f', -1, 64))
	b.WriteString("\n- Average Price: ")
	b.WriteString(common.FormatMoney(h.AvgPrice))
	b.WriteString("\n- Invested Amount: ")
	b.WriteString(common.FormatMoney(h.InvestedAmount))
	b.WriteString("\n\n")
	b.WriteString(promptBody)
	return b.String()
}
