package entities

import "time"

// Category is a top-level bucket of the task taxonomy
type Category string

const (
	CategoryLoan       Category = "loan"
	CategoryWithdrawal Category = "withdrawal"
	CategoryDeposit    Category = "deposit"
	CategoryTransfer   Category = "transfer"
	CategoryAccount    Category = "account"
	CategoryOther      Category = "other"
)

// Subcategory refines a category. Only loans are split.
type Subcategory string

const (
	SubcategoryNone        Subcategory = ""
	SubcategoryLoanRequest Subcategory = "request"
	SubcategoryLoanPayoff  Subcategory = "payoff"
)

// AmountNotAvailable is the sentinel used when a task carries no monetary amount
const AmountNotAvailable = "N/A"

// ActionEntry is one classified action item together with its source call.
// Entries are recomputed on every categorization pass.
type ActionEntry struct {
	Call        CallRecord  `json:"call"`
	Action      ActionItem  `json:"action"`
	Amount      string      `json:"amount"`
	ClientName  string      `json:"client_name"`
	Category    Category    `json:"category"`
	Subcategory Subcategory `json:"subcategory,omitempty"`
}

// ClientGroup is the per-client rollup of completed calls
type ClientGroup struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Phone           string       `json:"phone,omitempty"`
	Account         string       `json:"account,omitempty"`
	Calls           []CallRecord `json:"calls"`
	TotalActions    int          `json:"total_actions"`
	HighestPriority Priority     `json:"highest_priority"`
	HighestRisk     RiskLevel    `json:"highest_risk"`
	LastContact     int64        `json:"last_contact"`
	LastContactAt   time.Time    `json:"last_contact_at"`
}
