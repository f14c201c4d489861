package clients

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/call-review/internal/domain/entities"
)

func call(seq int64, account, name string, p entities.Priority, r entities.RiskLevel, actions int) entities.CallRecord {
	items := make([]entities.ActionItem, actions)
	for i := range items {
		items[i] = entities.ActionItem{Task: "task"}
	}
	return entities.CallRecord{
		ID:              "call",
		Seq:             seq,
		Title:           name + " - call.mp3",
		Status:          entities.CallStatusCompleted,
		SubmittedAt:     time.Unix(seq, 0),
		CustomerDetails: entities.CustomerDetails{Name: name, AccountNumber: account},
		Priority:        p,
		RiskLevel:       r,
		ActionItems:     items,
	}
}

func TestAggregate_SharedAccountEscalates(t *testing.T) {
	calls := []entities.CallRecord{
		call(1, "AC-100", "Jane", entities.PriorityLow, entities.RiskLow, 1),
		call(2, "AC-100", "Jane D.", entities.PriorityHigh, entities.RiskLow, 2),
	}

	groups := Aggregate(calls)
	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, "AC-100", g.ID)
	assert.Equal(t, "AC-100", g.Account)
	assert.Equal(t, "Jane", g.Name)
	assert.Equal(t, entities.PriorityHigh, g.HighestPriority)
	assert.Equal(t, entities.RiskLow, g.HighestRisk)
	assert.Equal(t, 3, g.TotalActions)
	assert.Equal(t, int64(2), g.LastContact)
	assert.Equal(t, time.Unix(2, 0), g.LastContactAt)
	assert.Len(t, g.Calls, 2)
}

func TestAggregate_NeverDemotes(t *testing.T) {
	calls := []entities.CallRecord{
		call(1, "", "Bob", entities.PriorityHigh, entities.RiskHigh, 1),
		call(2, "", "Bob", entities.PriorityMedium, entities.RiskMedium, 1),
		call(3, "", "Bob", entities.PriorityLow, entities.RiskLow, 1),
	}

	groups := Aggregate(calls)
	require.Len(t, groups, 1)
	assert.Equal(t, "Bob", groups[0].ID)
	assert.Equal(t, entities.PriorityHigh, groups[0].HighestPriority)
	assert.Equal(t, entities.RiskHigh, groups[0].HighestRisk)
}

func TestAggregate_MediumRaisesLow(t *testing.T) {
	groups := Aggregate([]entities.CallRecord{
		call(1, "A", "x", entities.PriorityLow, entities.RiskLow, 0),
		call(2, "A", "x", entities.PriorityMedium, entities.RiskMedium, 0),
	})
	require.Len(t, groups, 1)
	assert.Equal(t, entities.PriorityMedium, groups[0].HighestPriority)
	assert.Equal(t, entities.RiskMedium, groups[0].HighestRisk)
}

func TestAggregate_SkipsInFlightAndKeepsFirstAppearanceOrder(t *testing.T) {
	inFlight := entities.CallRecord{ID: "tmp", Status: entities.CallStatusProcessing, Title: "Zed - x.mp3"}
	groups := Aggregate([]entities.CallRecord{
		inFlight,
		call(5, "", "Carol", entities.PriorityLow, entities.RiskLow, 1),
		call(4, "B-1", "Dan", entities.PriorityLow, entities.RiskLow, 1),
		call(3, "", "Carol", entities.PriorityLow, entities.RiskLow, 1),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "Carol", groups[0].ID)
	assert.Equal(t, "B-1", groups[1].ID)
	assert.Equal(t, int64(5), groups[0].LastContact)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	calls := []entities.CallRecord{
		call(1, "A", "a", entities.PriorityLow, entities.RiskLow, 1),
		call(2, "A", "a", entities.PriorityHigh, entities.RiskMedium, 2),
		call(3, "A", "a", entities.PriorityMedium, entities.RiskHigh, 1),
		call(4, "B", "b", entities.PriorityMedium, entities.RiskLow, 1),
		call(5, "B", "b", entities.PriorityLow, entities.RiskMedium, 3),
	}

	rollup := func(cs []entities.CallRecord) map[string][4]interface{} {
		out := map[string][4]interface{}{}
		for _, g := range Aggregate(cs) {
			out[g.ID] = [4]interface{}{g.HighestPriority, g.HighestRisk, g.TotalActions, g.LastContact}
		}
		return out
	}
	want := rollup(calls)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]entities.CallRecord(nil), calls...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, rollup(shuffled))
	}
}

func TestSort(t *testing.T) {
	groups := []entities.ClientGroup{
		{ID: "a", HighestPriority: entities.PriorityLow, HighestRisk: entities.RiskHigh, LastContact: 1},
		{ID: "b", HighestPriority: entities.PriorityHigh, HighestRisk: entities.RiskLow, LastContact: 3},
		{ID: "c", HighestPriority: entities.PriorityMedium, HighestRisk: entities.RiskMedium, LastContact: 2},
		{ID: "d", HighestPriority: entities.PriorityHigh, HighestRisk: entities.RiskHigh, LastContact: 0},
	}

	ids := func(gs []entities.ClientGroup) []string {
		out := make([]string, len(gs))
		for i, g := range gs {
			out[i] = g.ID
		}
		return out
	}

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortRecent, []string{"b", "c", "a", "d"}},
		{SortPriority, []string{"b", "d", "c", "a"}},
		{SortRisk, []string{"a", "d", "c", "b"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			gs := append([]entities.ClientGroup(nil), groups...)
			Sort(gs, tt.order)
			assert.Equal(t, tt.want, ids(gs))
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	for in, want := range map[string]SortOrder{
		"":         SortRecent,
		"recent":   SortRecent,
		"Priority": SortPriority,
		" risk ":   SortRisk,
	} {
		got, err := ParseSortOrder(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseSortOrder("alphabetical")
	assert.ErrorIs(t, err, entities.ErrInvalidSortMode)
}
