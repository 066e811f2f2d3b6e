// Package models defines the data shapes shared across the stock analyser.
package models

import (
	"encoding/json"
	"fmt"
)

// Holding is one portfolio line item for a single ticker. Values are
// read-only once constructed; a new acquisition replaces the whole list.
type Holding struct {
	Ticker              string  `json:"ticker"`
	Name                string  `json:"name"`
	Sector              string  `json:"sector"`
	Logo                string  `json:"logo"`
	Quantity            float64 `json:"quantity"`
	AvgPrice            float64 `json:"avg_price"`
	LivePrice           float64 `json:"live_price"`
	InvestedAmount      float64 `json:"invested_amount"`
	CurrentValue        float64 `json:"current_value"`
	TotalProfitLoss     float64 `json:"total_profit_loss"`
	TotalPercentChange  float64 `json:"total_percent_change"`
	TodaysProfitLoss    float64 `json:"todays_profit_loss"`
	TodaysPercentChange float64 `json:"todays_percent_change"`

	// Extra holds every other field, including brokerage metadata such as
	// company_code or last_updated_on. Values survive a decode/encode round
	// trip untouched.
	Extra map[string]json.RawMessage `json:"-"`
}

// holdingFields is Holding without its methods, used to avoid recursion.
type holdingFields Holding

var knownHoldingKeys = map[string]struct{}{
	"ticker": {}, "name": {}, "sector": {}, "logo": {}, "quantity": {},
	"avg_price": {}, "live_price": {}, "invested_amount": {},
	"current_value": {}, "total_profit_loss": {}, "total_percent_change": {},
	"todays_profit_loss": {}, "todays_percent_change": {},
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
// Keys match exactly; "Ticker" is a passthrough field, not the ticker.
func (h *Holding) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	known := make(map[string]json.RawMessage, len(knownHoldingKeys))
	var extra map[string]json.RawMessage
	for k, v := range raw {
		if _, ok := knownHoldingKeys[k]; ok {
			known[k] = v
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}

	knownJSON, err := json.Marshal(known)
	if err != nil {
		return err
	}
	var fields holdingFields
	if err := json.Unmarshal(knownJSON, &fields); err != nil {
		return err
	}
	fields.Extra = extra

	*h = Holding(fields)
	return nil
}

// MarshalJSON encodes the known fields followed by any passthrough fields.
func (h Holding) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(holdingFields(h))
	if err != nil {
		return nil, err
	}
	if len(h.Extra) == 0 {
		return base, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, fmt.Errorf("failed to merge holding fields: %w", err)
	}
	for k, v := range h.Extra {
		if _, ok := merged[k]; ok {
			continue
		}
		merged[k] = v
	}
	return json.Marshal(merged)
}

// CloneHoldings returns a copy of list whose Extra maps are not shared.
func CloneHoldings(list []Holding) []Holding {
	out := make([]Holding, len(list))
	for i, h := range list {
		if h.Extra != nil {
			extra := make(map[string]json.RawMessage, len(h.Extra))
			for k, v := range h.Extra {
				extra[k] = v
			}
			h.Extra = extra
		}
		out[i] = h
	}
	return out
}
