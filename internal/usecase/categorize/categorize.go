package categorize

import (
	"regexp"
	"strings"

	"github.com/johnquangdev/call-review/internal/domain/entities"
)

// UnknownClient is used when neither the customer name nor the title identifies the caller
const UnknownClient = "Unknown Client"

var amountPattern = regexp.MustCompile(`\$?(\d{1,3}(,\d{3})+|\d+)(\.\d{2})?`)

// Rule is one entry of the ordered classifier. Intent and task are lower-cased.
type Rule struct {
	Category    entities.Category
	Match       func(intent, task string) bool
	Subcategory func(task string) entities.Subcategory
}

// rules is evaluated first-match-wins; the last rule always matches
var rules = []Rule{
	{
		Category:    entities.CategoryLoan,
		Match:       func(intent, task string) bool { return containsAny(intent, "loan") || containsAny(task, "loan") },
		Subcategory: loanSubcategory,
	},
	{
		Category: entities.CategoryWithdrawal,
		Match:    func(intent, task string) bool { return containsAny(intent, "withdraw") || containsAny(task, "withdraw") },
	},
	{
		Category: entities.CategoryDeposit,
		Match:    func(intent, task string) bool { return containsAny(intent, "deposit") || containsAny(task, "deposit") },
	},
	{
		Category: entities.CategoryTransfer,
		Match:    func(intent, task string) bool { return containsAny(intent, "transfer") || containsAny(task, "transfer") },
	},
	{
		Category: entities.CategoryAccount,
		Match: func(intent, task string) bool {
			return containsAny(intent, "account", "balance") || containsAny(task, "account")
		},
	},
	{
		Category: entities.CategoryOther,
		Match:    func(string, string) bool { return true },
	},
}

// Rules returns the classifier table in evaluation order
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

func loanSubcategory(task string) entities.Subcategory {
	if containsAny(task, "pay", "payment", "payoff") {
		return entities.SubcategoryLoanPayoff
	}
	return entities.SubcategoryLoanRequest
}

// Classify routes one action item to exactly one category
func Classify(intentLabel, task string) (entities.Category, entities.Subcategory) {
	intent := strings.ToLower(intentLabel)
	t := strings.ToLower(task)
	for _, r := range rules {
		if !r.Match(intent, t) {
			continue
		}
		if r.Subcategory != nil {
			return r.Category, r.Subcategory(t)
		}
		return r.Category, entities.SubcategoryNone
	}
	return entities.CategoryOther, entities.SubcategoryNone
}

// ExtractAmount returns the first monetary amount in text without the currency sign,
// or AmountNotAvailable
func ExtractAmount(text string) string {
	m := amountPattern.FindString(text)
	if m == "" {
		return entities.AmountNotAvailable
	}
	return strings.TrimPrefix(m, "$")
}

// ClientName derives a display name: customer name, then the title prefix before the first "-"
func ClientName(call entities.CallRecord) string {
	if name := strings.TrimSpace(call.CustomerDetails.Name); name != "" {
		return name
	}
	if prefix := strings.TrimSpace(strings.SplitN(call.Title, "-", 2)[0]); prefix != "" {
		return prefix
	}
	return UnknownClient
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
