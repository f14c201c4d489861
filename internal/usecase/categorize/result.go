package categorize

import (
	"github.com/johnquangdev/call-review/internal/domain/entities"
)

// Group is one non-empty (category, subcategory) bucket
type Group struct {
	Category      entities.Category      `json:"category"`
	Subcategory   entities.Subcategory   `json:"subcategory,omitempty"`
	CategoryTitle string                 `json:"category_title"`
	Title         string                 `json:"title"`
	Total         int                    `json:"total"`
	Entries       []entities.ActionEntry `json:"entries"`
}

// Result is the categorized view of a call list
type Result struct {
	Groups []Group `json:"groups"`
	Total  int     `json:"total"`
}

type bucket struct {
	category      entities.Category
	subcategory   entities.Subcategory
	categoryTitle string
	title         string
}

// taxonomy fixes the presentation order of buckets
var taxonomy = []bucket{
	{entities.CategoryLoan, entities.SubcategoryLoanRequest, "Loan Services", "Loan Requests"},
	{entities.CategoryLoan, entities.SubcategoryLoanPayoff, "Loan Services", "Loan Payoffs"},
	{entities.CategoryWithdrawal, entities.SubcategoryNone, "Withdrawals", "Withdrawals"},
	{entities.CategoryDeposit, entities.SubcategoryNone, "Deposits", "Deposits"},
	{entities.CategoryTransfer, entities.SubcategoryNone, "Transfers", "Transfers"},
	{entities.CategoryAccount, entities.SubcategoryNone, "Account Services", "Account Services"},
	{entities.CategoryOther, entities.SubcategoryNone, "Other Requests", "Other Requests"},
}

type bucketKey struct {
	category    entities.Category
	subcategory entities.Subcategory
}

// Entries classifies every action item of every eligible call, in call order
func Entries(calls []entities.CallRecord) []entities.ActionEntry {
	var out []entities.ActionEntry
	for _, call := range calls {
		if !eligible(call) {
			continue
		}
		client := ClientName(call)
		for _, item := range call.ActionItems {
			category, sub := Classify(call.Intent.Label, item.Task)
			out = append(out, entities.ActionEntry{
				Call:        call,
				Action:      item,
				Amount:      ExtractAmount(item.Task),
				ClientName:  client,
				Category:    category,
				Subcategory: sub,
			})
		}
	}
	return out
}

// Categorize groups the action items of completed calls by category.
// Buckets without entries are omitted.
func Categorize(calls []entities.CallRecord) Result {
	byKey := make(map[bucketKey][]entities.ActionEntry)
	entries := Entries(calls)
	for _, e := range entries {
		k := bucketKey{e.Category, e.Subcategory}
		byKey[k] = append(byKey[k], e)
	}

	result := Result{Groups: make([]Group, 0, len(byKey)), Total: len(entries)}
	for _, b := range taxonomy {
		list := byKey[bucketKey{b.category, b.subcategory}]
		if len(list) == 0 {
			continue
		}
		result.Groups = append(result.Groups, Group{
			Category:      b.category,
			Subcategory:   b.subcategory,
			CategoryTitle: b.categoryTitle,
			Title:         b.title,
			Total:         len(list),
			Entries:       list,
		})
	}
	return result
}

// eligible keeps completed calls that carry an intent and at least one action item
func eligible(call entities.CallRecord) bool {
	return call.IsCompleted() && call.Intent.Label != "" && len(call.ActionItems) > 0
}
