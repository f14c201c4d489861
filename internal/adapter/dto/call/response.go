package call

import (
	"time"
)

// CallResponse represents a call record in responses
type CallResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	SubmittedAt time.Time  `json:"submitted_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CustomerDetails *CustomerDetailsResponse `json:"customer_details,omitempty"`
	RuleBased       *RuleBasedResponse       `json:"rule_based,omitempty"`
	AIVerification  *AIVerificationResponse  `json:"ai_verification,omitempty"`
	FinalDecision   *FinalDecisionResponse   `json:"final_decision,omitempty"`

	Intent      *IntentResponse      `json:"intent,omitempty"`
	Sentiment   *SentimentResponse   `json:"sentiment,omitempty"`
	Priority    string               `json:"priority,omitempty"`
	RiskLevel   string               `json:"risk_level,omitempty"`
	Summary     []string             `json:"summary,omitempty"`
	Transcript  string               `json:"transcript,omitempty"`
	ActionItems []ActionItemResponse `json:"action_items,omitempty"`
}

// CustomerDetailsResponse identifies the caller
type CustomerDetailsResponse struct {
	Name          string `json:"name,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	CardNumber    string `json:"card_number,omitempty"`
}

// IntentResponse is a labelled intent
type IntentResponse struct {
	Label      string `json:"label"`
	Confidence string `json:"confidence"`
}

// SentimentResponse is a labelled sentiment
type SentimentResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// RuleBasedResponse is the deterministic classification
type RuleBasedResponse struct {
	Intent    IntentResponse    `json:"intent"`
	Priority  string            `json:"priority"`
	Sentiment SentimentResponse `json:"sentiment"`
}

// AIVerificationResponse is the verification pass
type AIVerificationResponse struct {
	VerifiedIntent   string   `json:"verified_intent"`
	VerifiedPriority string   `json:"verified_priority"`
	Reasoning        []string `json:"reasoning"`
}

// FinalDecisionResponse is the reconciled decision
type FinalDecisionResponse struct {
	Intent   string `json:"intent"`
	Priority string `json:"priority"`
}

// ActionItemResponse is a follow-up task
type ActionItemResponse struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

// ActionEntryResponse is one classified action item
type ActionEntryResponse struct {
	CallID      string             `json:"call_id"`
	CallTitle   string             `json:"call_title"`
	Priority    string             `json:"priority"`
	RiskLevel   string             `json:"risk_level"`
	Intent      string             `json:"intent"`
	Action      ActionItemResponse `json:"action"`
	Amount      string             `json:"amount"`
	ClientName  string             `json:"client_name"`
	Category    string             `json:"category"`
	Subcategory string             `json:"subcategory,omitempty"`
}

// CategoryGroupResponse is one non-empty category bucket
type CategoryGroupResponse struct {
	Category      string                `json:"category"`
	Subcategory   string                `json:"subcategory,omitempty"`
	CategoryTitle string                `json:"category_title"`
	Title         string                `json:"title"`
	Total         int                   `json:"total"`
	Entries       []ActionEntryResponse `json:"entries"`
}

// CategoriesResponse is the category view
type CategoriesResponse struct {
	Groups []CategoryGroupResponse `json:"groups"`
	Total  int                     `json:"total"`
}

// ClientGroupResponse is the per-client rollup
type ClientGroupResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Phone           string         `json:"phone,omitempty"`
	Account         string         `json:"account,omitempty"`
	TotalActions    int            `json:"total_actions"`
	HighestPriority string         `json:"highest_priority"`
	HighestRisk     string         `json:"highest_risk"`
	LastContactAt   time.Time      `json:"last_contact_at"`
	Calls           []CallResponse `json:"calls"`
}

// ClientsResponse is the client view
type ClientsResponse struct {
	Sort    string                `json:"sort"`
	Clients []ClientGroupResponse `json:"clients"`
}

// StatsResponse summarises the call list
type StatsResponse struct {
	Total        int `json:"total"`
	HighPriority int `json:"high_priority"`
	Urgent       int `json:"urgent"`
	InFlight     int `json:"in_flight"`
}

// NoticeResponse is a failure notice for a rolled-back submission
type NoticeResponse struct {
	ID        string    `json:"id"`
	TempID    string    `json:"temp_id"`
	Filename  string    `json:"filename"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
