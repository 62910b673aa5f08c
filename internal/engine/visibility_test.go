package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
)

func planIDs(plans []domain.TrainingPlan) []string {
	ids := make([]string, 0, len(plans))
	for _, p := range plans {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestVisiblePlans(t *testing.T) {
	plans := []domain.TrainingPlan{
		{ID: "a", Date: "2024-01-01"},
		{ID: "b", Date: "2024-01-05", IsStarred: true},
		{ID: "c", Date: "2024-01-10"},
	}

	got := VisiblePlans(plans)
	assert.Equal(t, []string{"b", "c", "a"}, planIDs(got))
	assert.Equal(t, []string{"a", "b", "c"}, planIDs(plans))
}

func TestVisiblePlans_StableAndComplete(t *testing.T) {
	plans := []domain.TrainingPlan{
		{ID: "old-star", Date: "2023-12-01", IsStarred: true},
		{ID: "x1", Date: "2024-02-01"},
		{ID: "x2", Date: "2024-02-01"},
		{ID: "new-star", Date: "2024-03-01", IsStarred: true},
		{ID: "x3", Date: "2024-02-01"},
	}

	got := VisiblePlans(plans)
	assert.Equal(t, []string{"new-star", "old-star", "x1", "x2", "x3"}, planIDs(got))
	assert.Empty(t, VisiblePlans(nil))
}

func TestNotesFor(t *testing.T) {
	plan := domain.TrainingPlan{ID: "p1", TargetedNotes: map[string]string{"s1": "watch your turns", "s2": "easy today"}}

	mine := NotesFor(plan, "s1")
	assert.Equal(t, map[string]string{"s1": "watch your turns"}, mine.TargetedNotes)
	assert.Len(t, plan.TargetedNotes, 2)

	assert.Nil(t, NotesFor(plan, "s9").TargetedNotes)
}
