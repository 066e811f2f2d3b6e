package models

// Rating is one point on the five-point recommendation scale. The empty
// string means the rating is not set.
type Rating string

const (
	RatingStrongBuy  Rating = "Strong Buy"
	RatingBuy        Rating = "Buy"
	RatingHold       Rating = "Hold"
	RatingSell       Rating = "Sell"
	RatingStrongSell Rating = "Strong Sell"
)

// Ratings lists the scale in display order.
var Ratings = []Rating{RatingStrongBuy, RatingBuy, RatingHold, RatingSell, RatingStrongSell}

// Valid reports whether r is one of the five scale values.
func (r Rating) Valid() bool {
	for _, v := range Ratings {
		if r == v {
			return true
		}
	}
	return false
}

// CSSClass returns the class used to colour a rating selector.
func (r Rating) CSSClass() string {
	switch r {
	case RatingStrongBuy:
		return "rating-strong-buy"
	case RatingBuy:
		return "rating-buy"
	case RatingHold:
		return "rating-hold"
	case RatingSell:
		return "rating-sell"
	case RatingStrongSell:
		return "rating-strong-sell"
	}
	return "rating-unset"
}

// RatingField names one rating source on an annotation.
type RatingField string

const (
	GeminiRating      RatingField = "gemini_rating"
	PerplexityRating  RatingField = "perplexity_rating"
	AlphaSpreadRating RatingField = "alpha_spread_rating"
)

// RatingFields lists the rating sources in column order.
var RatingFields = []RatingField{GeminiRating, PerplexityRating, AlphaSpreadRating}

// Valid reports whether f is a known rating source.
func (f RatingField) Valid() bool {
	switch f {
	case GeminiRating, PerplexityRating, AlphaSpreadRating:
		return true
	}
	return false
}

// Annotation is the user-entered ratings and notes for one ticker.
// Unset fields are omitted from JSON.
type Annotation struct {
	GeminiRating      Rating  `json:"gemini_rating,omitempty"`
	PerplexityRating  Rating  `json:"perplexity_rating,omitempty"`
	AlphaSpreadRating Rating  `json:"alpha_spread_rating,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// Rating returns the value stored for field.
func (a Annotation) Rating(field RatingField) Rating {
	switch field {
	case GeminiRating:
		return a.GeminiRating
	case PerplexityRating:
		return a.PerplexityRating
	case AlphaSpreadRating:
		return a.AlphaSpreadRating
	}
	return ""
}

// WithRating returns a copy of a with field set to value.
func (a Annotation) WithRating(field RatingField, value Rating) Annotation {
	switch field {
	case GeminiRating:
		a.GeminiRating = value
	case PerplexityRating:
		a.PerplexityRating = value
	case AlphaSpreadRating:
		a.AlphaSpreadRating = value
	}
	return a
}

// NotesText returns the notes, or "" when unset.
func (a Annotation) NotesText() string {
	if a.Notes == nil {
		return ""
	}
	return *a.Notes
}

// Annotations maps ticker to its annotation. Entries may reference
// tickers that are no longer held.
type Annotations map[string]Annotation

// Clone returns a copy that shares no notes pointers with a.
func (a Annotations) Clone() Annotations {
	out := make(Annotations, len(a))
	for k, v := range a {
		if v.Notes != nil {
			n := *v.Notes
			v.Notes = &n
		}
		out[k] = v
	}
	return out
}
