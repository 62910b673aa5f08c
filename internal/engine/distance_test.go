package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
)

func freeItem(repeats, distance int) domain.Item {
	return domain.Item{
		Repeats:   repeats,
		Distance:  distance,
		Stroke:    domain.StrokeFree,
		Intensity: domain.IntensityModerate,
	}
}

func TestTotalDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		blocks []domain.Block
		want   int
	}{
		{
			name: "no blocks",
			want: 0,
		},
		{
			name: "rounds multiply items",
			blocks: []domain.Block{
				{Type: domain.BlockMainSet, Rounds: 3, Items: []domain.Item{freeItem(2, 50)}},
			},
			want: 300,
		},
		{
			name: "segments override stale distance",
			blocks: []domain.Block{
				{Type: domain.BlockDrillSet, Rounds: 1, Items: []domain.Item{{
					Repeats:  2,
					Distance: 400,
					Segments: []domain.Segment{
						{Distance: 25, Type: domain.SegmentKick},
						{Distance: 25, Type: domain.SegmentDrill},
						{Distance: 50, Type: domain.SegmentSwim},
					},
				}}},
			},
			want: 200,
		},
		{
			name: "zero distance item contributes nothing",
			blocks: []domain.Block{
				{Type: domain.BlockWarmup, Rounds: 2, Items: []domain.Item{freeItem(4, 0), freeItem(1, 200)}},
			},
			want: 400,
		},
		{
			name: "several blocks",
			blocks: []domain.Block{
				{Type: domain.BlockWarmup, Rounds: 1, Items: []domain.Item{freeItem(1, 400)}},
				{Type: domain.BlockMainSet, Rounds: 2, Items: []domain.Item{freeItem(4, 100), freeItem(8, 50)}},
				{Type: domain.BlockCoolDown, Rounds: 1, Items: []domain.Item{freeItem(1, 200)}},
			},
			want: 400 + 2*(400+400) + 200,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TotalDistance(tt.blocks))
		})
	}
}

func TestValidateBlocks_CollectsAllViolations(t *testing.T) {
	blocks := []domain.Block{
		{Type: domain.BlockMainSet, Rounds: 0, Items: []domain.Item{freeItem(0, -50)}},
		{Type: "Sprint", Rounds: 1},
	}

	err := ValidateBlocks(blocks)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "block 1: rounds must be at least 1")
	assert.Contains(t, err.Error(), "block 1 item 1: repeats must be at least 1")
	assert.Contains(t, err.Error(), "block 1 item 1: distance must not be negative")
	assert.Contains(t, err.Error(), `unsupported block type "Sprint"`)
}

func TestRecompute(t *testing.T) {
	plan := domain.TrainingPlan{
		TotalDistance: 9999,
		Blocks: []domain.Block{
			{Type: domain.BlockMainSet, Rounds: 1, Items: []domain.Item{{
				Repeats:   1,
				Distance:  10,
				Stroke:    domain.StrokeIM,
				Intensity: domain.IntensityHigh,
				Segments:  []domain.Segment{{Distance: 50, Type: domain.SegmentSwim}, {Distance: 50, Type: domain.SegmentKick}},
			}}},
		},
	}

	require.NoError(t, Recompute(&plan))
	assert.Equal(t, 100, plan.TotalDistance)
	assert.Equal(t, 100, plan.Blocks[0].Items[0].Distance)

	plan.Blocks[0].Rounds = -1
	err := Recompute(&plan)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 100, plan.TotalDistance)
}
