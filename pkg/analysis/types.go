package analysis

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Result statuses reported by the analysis service
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

// AnalyzeResponse is the 2xx body of POST /api/calls/analyze
type AnalyzeResponse struct {
	CallID string `json:"call_id"`
	Status string `json:"status,omitempty"`
}

// ErrorResponse is the non-2xx body of both endpoints
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ResultResponse is the body of GET /api/calls/result/{call_id}.
// Every section is optional; defaults are applied during normalization.
type ResultResponse struct {
	Status          string           `json:"status" validate:"required,oneof=processing completed"`
	CallID          string           `json:"call_id,omitempty"`
	CustomerDetails *CustomerDetails `json:"customer_details,omitempty"`
	RuleBased       *RuleBased       `json:"rule_based,omitempty" validate:"omitempty"`
	AIVerification  *AIVerification  `json:"ai_verification,omitempty"`
	FinalDecision   *FinalDecision   `json:"final_decision,omitempty"`
	Summary         Summary          `json:"summary,omitempty"`
	Transcript      *string          `json:"transcript,omitempty"`
}

// IsCompleted reports whether the job reached its terminal success state
func (r *ResultResponse) IsCompleted() bool {
	return r != nil && r.Status == StatusCompleted
}

// CustomerDetails identifies the caller
type CustomerDetails struct {
	Name          string `json:"name,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	CardNumber    string `json:"card_number,omitempty"`
}

// RuleBased is the deterministic classification section
type RuleBased struct {
	Intent    *IntentResult    `json:"intent,omitempty"`
	Priority  string           `json:"priority,omitempty"`
	Sentiment *SentimentResult `json:"sentiment,omitempty" validate:"omitempty"`
}

// IntentResult is a labelled intent with a confidence label
type IntentResult struct {
	Label      string `json:"label,omitempty"`
	Confidence string `json:"confidence,omitempty"`
}

// SentimentResult is a labelled sentiment with a score in [-1, 1].
// Risk is derived from the label, so an unknown label is rejected rather than read as not negative.
type SentimentResult struct {
	Label string  `json:"label,omitempty" validate:"omitempty,oneof=Positive Neutral Negative positive neutral negative POSITIVE NEUTRAL NEGATIVE"`
	Score float64 `json:"score" validate:"gte=-1,lte=1"`
}

// AIVerification is the optional verification pass
type AIVerification struct {
	VerifiedIntent   string   `json:"verified_intent,omitempty"`
	VerifiedPriority string   `json:"verified_priority,omitempty"`
	Reasoning        []string `json:"reasoning,omitempty"`
}

// FinalDecision is the reconciled decision
type FinalDecision struct {
	Intent   string `json:"intent,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// Summary accepts either a list of sentences or a single string
type Summary []string

// UnmarshalJSON implements json.Unmarshaler
func (s *Summary) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	if data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		single = strings.TrimSpace(single)
		if single == "" {
			*s = Summary{}
			return nil
		}
		*s = Summary{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = list
	return nil
}
