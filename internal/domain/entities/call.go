package entities

import (
	"strings"
	"time"
)

// CallStatus represents the lifecycle state of a submitted call
type CallStatus string

const (
	CallStatusPending    CallStatus = "pending"    // Accepted locally, not yet sent
	CallStatusProcessing CallStatus = "processing" // Sent to the analysis service, polling
	CallStatusCompleted  CallStatus = "completed"  // Normalized result available
	CallStatusFailed     CallStatus = "failed"     // Terminal failure, rolled back
)

// CanTransitionTo reports whether moving from s to next keeps the lifecycle forward-only.
func (s CallStatus) CanTransitionTo(next CallStatus) bool {
	switch s {
	case CallStatusPending:
		return next == CallStatusProcessing
	case CallStatusProcessing:
		return next == CallStatusCompleted || next == CallStatusFailed
	default:
		return false
	}
}

// IsInFlight reports whether the call is still waiting on the analysis service
func (s CallStatus) IsInFlight() bool {
	return s == CallStatusPending || s == CallStatusProcessing
}

// Priority is the urgency tier of a call, always lower-case
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities low < medium < high. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ParsePriority lower-cases a service priority label
func ParsePriority(label string) Priority {
	return Priority(strings.ToLower(strings.TrimSpace(label)))
}

// RiskLevel is the escalation flag derived from sentiment
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Rank orders risk levels Low < Medium < High. Unknown values rank 0.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// CustomerDetails holds the caller identity extracted by the analysis service
type CustomerDetails struct {
	Name          string `json:"name,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	CardNumber    string `json:"card_number,omitempty"`
}

// Intent is the classified purpose of a call
type Intent struct {
	Label      string `json:"label"`
	Confidence string `json:"confidence"`
}

// Sentiment is the tone of the caller
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// RuleBasedAnalysis is the deterministic classification from the analysis service
type RuleBasedAnalysis struct {
	Intent    Intent    `json:"intent"`
	Priority  string    `json:"priority"`
	Sentiment Sentiment `json:"sentiment"`
}

// AIVerification is the optional secondary verification pass
type AIVerification struct {
	VerifiedIntent   string   `json:"verified_intent"`
	VerifiedPriority string   `json:"verified_priority"`
	Reasoning        []string `json:"reasoning"`
}

// FinalDecision is the reconciled intent and priority
type FinalDecision struct {
	Intent   string `json:"intent"`
	Priority string `json:"priority"`
}

// ActionItem is a follow-up task derived from a call
type ActionItem struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// CallRecord is the canonical entity for one submitted recording.
// Records are replaced whole in the store and never mutated after completion.
type CallRecord struct {
	ID          string     `json:"id"`
	Seq         int64      `json:"seq"`
	Title       string     `json:"title"`
	Status      CallStatus `json:"status"`
	SubmittedAt time.Time  `json:"submitted_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CustomerDetails CustomerDetails   `json:"customer_details"`
	RuleBased       RuleBasedAnalysis `json:"rule_based"`
	AIVerification  AIVerification    `json:"ai_verification"`
	FinalDecision   FinalDecision     `json:"final_decision"`

	// Derived convenience fields
	Intent      Intent       `json:"intent"`
	Sentiment   Sentiment    `json:"sentiment"`
	Priority    Priority     `json:"priority,omitempty"`
	RiskLevel   RiskLevel    `json:"risk_level,omitempty"`
	Summary     []string     `json:"summary"`
	Transcript  string       `json:"transcript"`
	ActionItems []ActionItem `json:"action_items"`
}

// NewPlaceholder creates the in-flight record shown while a job runs
func NewPlaceholder(id string, seq int64, title string, submittedAt time.Time) *CallRecord {
	return &CallRecord{
		ID:          id,
		Seq:         seq,
		Title:       title,
		Status:      CallStatusProcessing,
		SubmittedAt: submittedAt,
	}
}

// IsCompleted reports whether the call carries a normalized result
func (c *CallRecord) IsCompleted() bool {
	return c.Status == CallStatusCompleted
}
