package clients

import (
	"sort"
	"strings"

	"github.com/johnquangdev/call-review/internal/domain/entities"
	"github.com/johnquangdev/call-review/internal/usecase/categorize"
)

// SortOrder selects how client groups are ordered
type SortOrder string

const (
	SortRecent   SortOrder = "recent"
	SortPriority SortOrder = "priority"
	SortRisk     SortOrder = "risk"
)

// ParseSortOrder defaults to recent for empty input and rejects unknown values
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortRecent:
		return SortRecent, nil
	case SortPriority:
		return SortPriority, nil
	case SortRisk:
		return SortRisk, nil
	default:
		return "", entities.ErrInvalidSortMode
	}
}

// Aggregate folds completed calls into per-client groups in first-appearance order.
// A group is keyed by account number, falling back to the derived client name.
func Aggregate(calls []entities.CallRecord) []entities.ClientGroup {
	index := make(map[string]int)
	groups := make([]entities.ClientGroup, 0)

	for _, call := range calls {
		if !call.IsCompleted() {
			continue
		}

		name := categorize.ClientName(call)
		id := call.CustomerDetails.AccountNumber
		if id == "" {
			id = name
		}

		i, ok := index[id]
		if !ok {
			groups = append(groups, entities.ClientGroup{
				ID:              id,
				Name:            name,
				Calls:           make([]entities.CallRecord, 0, 1),
				HighestPriority: entities.PriorityLow,
				HighestRisk:     entities.RiskLow,
			})
			i = len(groups) - 1
			index[id] = i
		}
		fold(&groups[i], call)
	}
	return groups
}

// fold adds call to g. Priority and risk only ever escalate.
func fold(g *entities.ClientGroup, call entities.CallRecord) {
	g.Calls = append(g.Calls, call)
	g.TotalActions += len(call.ActionItems)

	if g.Phone == "" {
		g.Phone = call.CustomerDetails.PhoneNumber
	}
	if g.Account == "" {
		g.Account = call.CustomerDetails.AccountNumber
	}
	if call.Priority.Rank() > g.HighestPriority.Rank() {
		g.HighestPriority = call.Priority
	}
	if call.RiskLevel.Rank() > g.HighestRisk.Rank() {
		g.HighestRisk = call.RiskLevel
	}
	if call.Seq > g.LastContact {
		g.LastContact = call.Seq
		g.LastContactAt = call.SubmittedAt
	}
}

// Sort orders groups in place; ties keep their aggregation order
func Sort(groups []entities.ClientGroup, order SortOrder) {
	var less func(a, b entities.ClientGroup) bool
	switch order {
	case SortPriority:
		less = func(a, b entities.ClientGroup) bool { return a.HighestPriority.Rank() > b.HighestPriority.Rank() }
	case SortRisk:
		less = func(a, b entities.ClientGroup) bool { return a.HighestRisk.Rank() > b.HighestRisk.Rank() }
	default:
		less = func(a, b entities.ClientGroup) bool { return a.LastContact > b.LastContact }
	}
	sort.SliceStable(groups, func(i, j int) bool { return less(groups[i], groups[j]) })
}
