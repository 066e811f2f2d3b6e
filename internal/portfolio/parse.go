// Package portfolio acquires holdings lists and owns the current one.
package portfolio

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/bobmcallan/stock-analyser/internal/models"
)

var (
	ErrInvalidFormat = errors.New("invalid portfolio format")
	ErrInvalidJSON   = errors.New("invalid JSON")
	ErrNoHoldings    = errors.New("no holdings returned")
)

// User-facing messages for acquisition failures.
const (
	MsgInvalidFormat = "Invalid file format. Please upload a valid portfolio JSON file."
	MsgInvalidJSON   = "Failed to parse the uploaded file. Please ensure it is a valid JSON file."
	MsgNoHoldings    = "No holdings found in your IndMoney account."
)

//go:embed sample-portfolio.json
var samplePortfolio []byte

// Sample returns the bundled sample portfolio. Each call returns a fresh copy.
func Sample() []models.Holding {
	holdings, err := decode(samplePortfolio)
	if err != nil {
		panic(fmt.Sprintf("embedded sample portfolio is invalid: %v", err))
	}
	return holdings
}

// ParseUpload reads a complete uploaded file. The document must be an
// object with a "data" array, or a bare array of holdings. The "data"
// form is checked first.
func ParseUpload(r io.Reader) ([]models.Holding, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return decode(content)
}

func decode(content []byte) ([]models.Holding, error) {
	if !json.Valid(content) {
		return nil, ErrInvalidJSON
	}

	trimmed := bytes.TrimSpace(content)
	switch trimmed[0] {
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		data, ok := envelope["data"]
		if !ok || !isArray(data) {
			return nil, fmt.Errorf("%w: object has no data array", ErrInvalidFormat)
		}
		return decodeArray(data)
	case '[':
		return decodeArray(trimmed)
	}
	return nil, fmt.Errorf("%w: expected an object or array", ErrInvalidFormat)
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func decodeArray(raw []byte) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := json.Unmarshal(raw, &holdings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if holdings == nil {
		holdings = []models.Holding{}
	}
	return holdings, nil
}

// UserMessage converts an acquisition error to the text shown on the page.
func UserMessage(err error) string {
	var um interface{ UserMessage() string }
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidFormat):
		return MsgInvalidFormat
	case errors.Is(err, ErrInvalidJSON):
		return MsgInvalidJSON
	case errors.Is(err, ErrNoHoldings):
		return MsgNoHoldings
	case errors.As(err, &um):
		return um.UserMessage()
	}
	return err.Error()
}
