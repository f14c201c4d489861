package dashboard

import (
	"context"
	"strings"

	"github.com/johnquangdev/call-review/internal/domain/entities"
	"github.com/johnquangdev/call-review/internal/domain/repositories"
	"github.com/johnquangdev/call-review/internal/usecase/categorize"
	"github.com/johnquangdev/call-review/internal/usecase/clients"
)

// Stats summarises the current call list
type Stats struct {
	Total        int `json:"total"`
	HighPriority int `json:"high_priority"`
	Urgent       int `json:"urgent"`
	InFlight     int `json:"in_flight"`
}

// Service derives read-only views from a snapshot of the call list
type Service struct {
	repo repositories.CallRepository
}

// NewService creates a dashboard service
func NewService(repo repositories.CallRepository) *Service {
	return &Service{repo: repo}
}

// Queue returns the calls still waiting on the analysis service, newest first
func (s *Service) Queue(ctx context.Context) []entities.CallRecord {
	out := make([]entities.CallRecord, 0)
	for _, c := range s.repo.Snapshot(ctx) {
		if c.Status.IsInFlight() {
			out = append(out, c)
		}
	}
	return out
}

// Completed returns completed calls whose title contains query (case-insensitive)
func (s *Service) Completed(ctx context.Context, query string) []entities.CallRecord {
	return filterCompleted(s.repo.Snapshot(ctx), query)
}

// Get returns one call by id
func (s *Service) Get(ctx context.Context, id string) (*entities.CallRecord, error) {
	return s.repo.FindByID(ctx, id)
}

// Stats counts completed, high-priority, high-risk and in-flight calls
func (s *Service) Stats(ctx context.Context) Stats {
	return ComputeStats(s.repo.Snapshot(ctx))
}

// Categories runs the categorization engine over the matching completed calls
func (s *Service) Categories(ctx context.Context, query string) categorize.Result {
	return categorize.Categorize(filterCompleted(s.repo.Snapshot(ctx), query))
}

// Clients aggregates the matching completed calls per client, sorted by order
func (s *Service) Clients(ctx context.Context, order clients.SortOrder, query string) []entities.ClientGroup {
	groups := clients.Aggregate(filterCompleted(s.repo.Snapshot(ctx), query))
	clients.Sort(groups, order)
	return groups
}

// ComputeStats is the pure form of Stats
func ComputeStats(calls []entities.CallRecord) Stats {
	var st Stats
	for _, c := range calls {
		if c.Status.IsInFlight() {
			st.InFlight++
			continue
		}
		if !c.IsCompleted() {
			continue
		}
		st.Total++
		if c.Priority == entities.PriorityHigh {
			st.HighPriority++
		}
		if c.RiskLevel == entities.RiskHigh {
			st.Urgent++
		}
	}
	return st
}

func filterCompleted(calls []entities.CallRecord, query string) []entities.CallRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]entities.CallRecord, 0, len(calls))
	for _, c := range calls {
		if !c.IsCompleted() {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Title), q) {
			continue
		}
		out = append(out, c)
	}
	return out
}
