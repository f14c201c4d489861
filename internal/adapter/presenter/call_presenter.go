package presenter

import (
	"github.com/johnquangdev/call-review/internal/adapter/dto/call"
	"github.com/johnquangdev/call-review/internal/domain/entities"
	"github.com/johnquangdev/call-review/internal/infrastructure/cache"
	"github.com/johnquangdev/call-review/internal/usecase/categorize"
	"github.com/johnquangdev/call-review/internal/usecase/dashboard"
)

// ToCallResponse converts a CallRecord entity to CallResponse DTO.
// In-flight placeholders carry only identity and status.
func ToCallResponse(c *entities.CallRecord) *call.CallResponse {
	if c == nil {
		return nil
	}

	response := &call.CallResponse{
		ID:          c.ID,
		Title:       c.Title,
		Status:      string(c.Status),
		SubmittedAt: c.SubmittedAt,
		CompletedAt: c.CompletedAt,
	}
	if !c.IsCompleted() {
		return response
	}

	response.CustomerDetails = &call.CustomerDetailsResponse{
		Name:          c.CustomerDetails.Name,
		PhoneNumber:   c.CustomerDetails.PhoneNumber,
		AccountNumber: c.CustomerDetails.AccountNumber,
		CardNumber:    c.CustomerDetails.CardNumber,
	}
	response.RuleBased = &call.RuleBasedResponse{
		Intent:    call.IntentResponse{Label: c.RuleBased.Intent.Label, Confidence: c.RuleBased.Intent.Confidence},
		Priority:  c.RuleBased.Priority,
		Sentiment: call.SentimentResponse{Label: c.RuleBased.Sentiment.Label, Score: c.RuleBased.Sentiment.Score},
	}
	response.AIVerification = &call.AIVerificationResponse{
		VerifiedIntent:   c.AIVerification.VerifiedIntent,
		VerifiedPriority: c.AIVerification.VerifiedPriority,
		Reasoning:        c.AIVerification.Reasoning,
	}
	response.FinalDecision = &call.FinalDecisionResponse{
		Intent:   c.FinalDecision.Intent,
		Priority: c.FinalDecision.Priority,
	}
	response.Intent = &call.IntentResponse{Label: c.Intent.Label, Confidence: c.Intent.Confidence}
	response.Sentiment = &call.SentimentResponse{Label: c.Sentiment.Label, Score: c.Sentiment.Score}
	response.Priority = string(c.Priority)
	response.RiskLevel = string(c.RiskLevel)
	response.Summary = c.Summary
	response.Transcript = c.Transcript
	response.ActionItems = toActionItems(c.ActionItems)

	return response
}

// ToCallList converts a slice of CallRecord entities to responses
func ToCallList(calls []entities.CallRecord) []call.CallResponse {
	out := make([]call.CallResponse, len(calls))
	for i := range calls {
		out[i] = *ToCallResponse(&calls[i])
	}
	return out
}

func toActionItems(items []entities.ActionItem) []call.ActionItemResponse {
	out := make([]call.ActionItemResponse, len(items))
	for i, it := range items {
		out[i] = call.ActionItemResponse{Task: it.Task, Completed: it.Completed}
	}
	return out
}

// ToCategoriesResponse converts a categorization result
func ToCategoriesResponse(r categorize.Result) *call.CategoriesResponse {
	groups := make([]call.CategoryGroupResponse, len(r.Groups))
	for i, g := range r.Groups {
		entries := make([]call.ActionEntryResponse, len(g.Entries))
		for j, e := range g.Entries {
			entries[j] = call.ActionEntryResponse{
				CallID:      e.Call.ID,
				CallTitle:   e.Call.Title,
				Priority:    string(e.Call.Priority),
				RiskLevel:   string(e.Call.RiskLevel),
				Intent:      e.Call.Intent.Label,
				Action:      call.ActionItemResponse{Task: e.Action.Task, Completed: e.Action.Completed},
				Amount:      e.Amount,
				ClientName:  e.ClientName,
				Category:    string(e.Category),
				Subcategory: string(e.Subcategory),
			}
		}
		groups[i] = call.CategoryGroupResponse{
			Category:      string(g.Category),
			Subcategory:   string(g.Subcategory),
			CategoryTitle: g.CategoryTitle,
			Title:         g.Title,
			Total:         g.Total,
			Entries:       entries,
		}
	}
	return &call.CategoriesResponse{Groups: groups, Total: r.Total}
}

// ToClientsResponse converts sorted client groups
func ToClientsResponse(sort string, groups []entities.ClientGroup) *call.ClientsResponse {
	out := make([]call.ClientGroupResponse, len(groups))
	for i, g := range groups {
		out[i] = call.ClientGroupResponse{
			ID:              g.ID,
			Name:            g.Name,
			Phone:           g.Phone,
			Account:         g.Account,
			TotalActions:    g.TotalActions,
			HighestPriority: string(g.HighestPriority),
			HighestRisk:     string(g.HighestRisk),
			LastContactAt:   g.LastContactAt,
			Calls:           ToCallList(g.Calls),
		}
	}
	return &call.ClientsResponse{Sort: sort, Clients: out}
}

// ToStatsResponse converts dashboard stats
func ToStatsResponse(s dashboard.Stats) *call.StatsResponse {
	return &call.StatsResponse{
		Total:        s.Total,
		HighPriority: s.HighPriority,
		Urgent:       s.Urgent,
		InFlight:     s.InFlight,
	}
}

// ToNoticeList converts failure notices
func ToNoticeList(notices []cache.Notice) []call.NoticeResponse {
	out := make([]call.NoticeResponse, len(notices))
	for i, n := range notices {
		out[i] = call.NoticeResponse{
			ID:        n.ID,
			TempID:    n.TempID,
			Filename:  n.Filename,
			Code:      n.Code,
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		}
	}
	return out
}
