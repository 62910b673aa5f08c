package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
)

func TestPlanCache(t *testing.T) {
	c := NewPlanCache(4, time.Minute)

	_, ok := c.GetVisible()
	assert.False(t, ok)

	plans := []domain.TrainingPlan{
		{ID: "p2", Date: "2024-01-05", IsStarred: true, TotalDistance: 300},
		{ID: "p1", Date: "2024-01-10"},
	}
	c.SetVisible(plans, c.Generation())

	got, ok := c.GetVisible()
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "p2", got[0].ID)
	assert.Equal(t, 300, got[0].TotalDistance)

	c.Invalidate()
	_, ok = c.GetVisible()
	assert.False(t, ok)
}

func TestPlanCache_NilIsAlwaysMissing(t *testing.T) {
	var c *PlanCache
	c.SetVisible([]domain.TrainingPlan{{ID: "p1"}}, c.Generation())
	c.Invalidate()
	_, ok := c.GetVisible()
	assert.False(t, ok)
}

func TestPlanCache_DropsListLoadedBeforeInvalidate(t *testing.T) {
	c := NewPlanCache(4, time.Minute)

	gen := c.Generation()
	stale := []domain.TrainingPlan{{ID: "p1", Date: "2024-01-10"}}
	c.Invalidate()
	c.SetVisible(stale, gen)

	_, ok := c.GetVisible()
	assert.False(t, ok, "a list loaded before Invalidate must not be cached")

	c.SetVisible(stale, c.Generation())
	_, ok = c.GetVisible()
	assert.True(t, ok)
}
