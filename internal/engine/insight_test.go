package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
)

func TestSummarizeMonth(t *testing.T) {
	swimmers := []domain.Swimmer{
		{ID: "s1", Group: domain.GroupAdvanced},
		{ID: "s2", Group: domain.GroupAdvanced},
		{ID: "s4", Group: domain.GroupJunior},
		{ID: "s3", Group: domain.GroupIntermediate},
	}
	plans := []domain.TrainingPlan{
		{Date: "2024-01-05", Group: domain.GroupAdvanced, TotalDistance: 4000},
		{Date: "2024-01-06", Group: domain.GroupAdvanced, TotalDistance: 3500},
		{Date: "2024-01-06", Group: domain.GroupJunior, TotalDistance: 1500},
		{Date: "2023-12-31", Group: domain.GroupAdvanced, TotalDistance: 9000},
	}
	attendance := []domain.AttendanceRecord{
		{Date: "2024-01-05", SwimmerID: "s1"},
		{Date: "2024-01-06", SwimmerID: "s1"},
		{Date: "2024-01-06", SwimmerID: "s4"},
		{Date: "2023-12-31", SwimmerID: "s2"},
	}
	performances := []domain.PerformanceRecord{
		{Date: "2024-01-06", IsPB: true},
		{Date: "2024-01-07", IsPB: false},
		{Date: "2023-12-20", IsPB: true},
	}

	sum, err := SummarizeMonth("2024-01", swimmers, plans, attendance, performances)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Plans)
	assert.Equal(t, 9000, sum.TotalDistance)
	assert.Equal(t, GroupLoad{Plans: 2, Distance: 7500}, sum.Groups[domain.GroupAdvanced])
	assert.Equal(t, GroupLoad{Plans: 1, Distance: 1500}, sum.Groups[domain.GroupJunior])
	assert.Equal(t, GroupLoad{}, sum.Groups[domain.GroupIntermediate])
	assert.Equal(t, 3, sum.Attendance)
	assert.Equal(t, 2, sum.ActiveSwimmers)
	assert.Equal(t, 25, sum.AttendanceRate)
	assert.Equal(t, 1, sum.PersonalBests)

	_, err = SummarizeMonth("January", swimmers, plans, attendance, performances)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnalyzeLoad(t *testing.T) {
	plan := domain.TrainingPlan{
		Group:         domain.GroupAdvanced,
		TotalDistance: 4200,
		Blocks: []domain.Block{{
			Type:   domain.BlockMainSet,
			Rounds: 1,
			Items: []domain.Item{
				{Repeats: 8, Distance: 50, Stroke: domain.StrokeFly, Intensity: domain.IntensityHigh},
				{Repeats: 4, Distance: 100, Stroke: domain.StrokeFree, Intensity: domain.IntensityModerate, Equipment: []domain.Equipment{domain.EquipmentPaddles}},
			},
		}},
	}
	swimmers := []domain.Swimmer{
		{ID: "s1", Name: "Alex", Group: domain.GroupAdvanced, Readiness: 95, CurrentStreak: 5},
		{ID: "s2", Name: "Sarah", Group: domain.GroupAdvanced, Readiness: 30, Injuries: []string{"Left Shoulder"}},
		{ID: "s4", Name: "Caeleb", Group: domain.GroupJunior, Readiness: 10, Injuries: []string{"shoulder"}},
	}

	alerts := AnalyzeLoad(plan, swimmers)
	require.Len(t, alerts, 3)

	assert.Equal(t, "s1", alerts[0].SwimmerID)
	assert.Equal(t, RiskOpportunity, alerts[0].Level)
	assert.Equal(t, "s2", alerts[1].SwimmerID)
	assert.Equal(t, RiskHigh, alerts[1].Level)
	assert.Contains(t, alerts[1].Reason, "paddles and hard fly")
	assert.Equal(t, "s2", alerts[2].SwimmerID)
	assert.Equal(t, RiskMedium, alerts[2].Level)

	plan.Blocks = nil
	plan.TotalDistance = 0
	swimmers[0].CurrentStreak = 3
	assert.Empty(t, AnalyzeLoad(plan, swimmers))
}
