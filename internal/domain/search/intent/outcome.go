package intent

import "encoding/json"

// Source identifies which extraction path produced an intent.
type Source string

const (
	// SourceLLM means the remote language model produced the intent.
	SourceLLM Source = "llm"
	// SourceFallback means the rule-based extractor produced the intent.
	SourceFallback Source = "fallback"
)

// Reason explains why the fallback path was taken.
type Reason string

const (
	// ReasonNone is set when the primary path succeeded.
	ReasonNone Reason = ""
	// ReasonNotConfigured means no backend credentials were present.
	ReasonNotConfigured Reason = "not_configured"
	// ReasonTransport means the backend call failed or timed out.
	ReasonTransport Reason = "transport_error"
	// ReasonUnparsable means the backend reply held no usable intent: no JSON
	// object, or one naming more constraints than a query can carry.
	ReasonUnparsable Reason = "unparsable_response"
)

// Outcome is the result of an extraction attempt. Intent is always valid.
type Outcome struct {
	Intent SearchIntent
	Source Source
	Reason Reason
}

// Fallback builds an Outcome for the rule-based path.
func Fallback(i SearchIntent, r Reason) Outcome {
	return Outcome{Intent: i, Source: SourceFallback, Reason: r}
}

// Primary builds an Outcome for the language-model path.
func Primary(i SearchIntent) Outcome {
	return Outcome{Intent: i, Source: SourceLLM, Reason: ReasonNone}
}

type wireIntent struct {
	ProductType    string     `json:"product_type"`
	PriceRange     PriceRange `json:"price_range"`
	Brands         []string   `json:"brands"`
	Keywords       []string   `json:"keywords"`
	SortPreference *string    `json:"sort_preference"`
}

// MarshalJSON renders the intent in the same shape the language model is asked to produce.
func (i SearchIntent) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireIntent{
		ProductType:    i.productType,
		PriceRange:     i.priceRange,
		Brands:         i.brands,
		Keywords:       i.keywords,
		SortPreference: i.sortPreference,
	})
}

// MarshalJSON renders the outcome with its provenance.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Intent SearchIntent `json:"intent"`
		Source Source       `json:"source"`
		Reason Reason       `json:"reason,omitempty"`
	}{o.Intent, o.Source, o.Reason})
}
