package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
)

func testPlan(t *testing.T) domain.TrainingPlan {
	t.Helper()
	plan := domain.TrainingPlan{
		Date:  "2024-01-05",
		Group: domain.GroupAdvanced,
		Blocks: []domain.Block{
			{Type: domain.BlockWarmup, Rounds: 1, Items: []domain.Item{freeItem(1, 400)}},
			{Type: domain.BlockMainSet, Rounds: 2, Items: []domain.Item{freeItem(4, 100)}},
		},
	}
	require.NoError(t, PreparePlan(&plan))
	return plan
}

func TestPreparePlan(t *testing.T) {
	plan := testPlan(t)

	assert.Equal(t, domain.PlanDraft, plan.Status)
	assert.Equal(t, 1200, plan.TotalDistance)
	for _, b := range plan.Blocks {
		assert.NotEmpty(t, b.ID)
		for _, it := range b.Items {
			assert.NotEmpty(t, it.ID)
		}
	}
}

func TestPreparePlan_InvalidHeader(t *testing.T) {
	plan := domain.TrainingPlan{Date: "05/01/2024", Group: "Masters", StartTime: "7am"}

	err := PreparePlan(&plan)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
	assert.Contains(t, err.Error(), "Masters")
	assert.Contains(t, err.Error(), "HH:MM")
}

func TestAddAndRemoveBlock(t *testing.T) {
	plan := testPlan(t)

	added, err := AddBlock(&plan, domain.Block{Type: domain.BlockCoolDown, Rounds: 1, Items: []domain.Item{freeItem(1, 200)}})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, 1400, plan.TotalDistance)

	require.NoError(t, RemoveBlock(&plan, plan.Blocks[0].ID))
	assert.Len(t, plan.Blocks, 2)
	assert.Equal(t, 1000, plan.TotalDistance)

	assert.ErrorIs(t, RemoveBlock(&plan, "missing"), ErrBlockNotFound)
}

func TestAddBlock_RejectsInvalidRoundsAndKeepsPlan(t *testing.T) {
	plan := testPlan(t)
	before := plan.Clone()

	_, err := AddBlock(&plan, domain.Block{Type: domain.BlockMainSet, Rounds: 0})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, before, plan)
}

func TestDuplicateBlock(t *testing.T) {
	plan := testPlan(t)
	src := plan.Blocks[0]

	dup, err := DuplicateBlock(&plan, src.ID)
	require.NoError(t, err)

	require.Len(t, plan.Blocks, 3)
	assert.Equal(t, dup.ID, plan.Blocks[1].ID)
	assert.NotEqual(t, src.ID, dup.ID)
	assert.NotEqual(t, src.Items[0].ID, dup.Items[0].ID)
	assert.Equal(t, src.Items[0].Distance, dup.Items[0].Distance)
	assert.Equal(t, 1600, plan.TotalDistance)

	plan.Blocks[1].Items[0].Equipment = append(plan.Blocks[1].Items[0].Equipment, domain.EquipmentFins)
	assert.Empty(t, plan.Blocks[0].Items[0].Equipment)
}

func TestItemEdits(t *testing.T) {
	plan := testPlan(t)
	blockID := plan.Blocks[1].ID

	it, err := AddItem(&plan, blockID, freeItem(8, 50))
	require.NoError(t, err)
	assert.Equal(t, 1200+2*400, plan.TotalDistance)

	upd := freeItem(10, 50)
	upd.Stroke = domain.StrokeFly
	got, err := UpdateItem(&plan, blockID, it.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, it.ID, got.ID)
	assert.Equal(t, domain.StrokeFly, got.Stroke)
	assert.Equal(t, 1200+2*500, plan.TotalDistance)

	require.NoError(t, RemoveItem(&plan, blockID, it.ID))
	assert.Equal(t, 1200, plan.TotalDistance)

	_, err = UpdateItem(&plan, blockID, it.ID, upd)
	assert.ErrorIs(t, err, ErrItemNotFound)
	_, err = AddItem(&plan, "nope", upd)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestSetSegments_SyncsItemDistance(t *testing.T) {
	plan := testPlan(t)
	blockID, itemID := plan.Blocks[1].ID, plan.Blocks[1].Items[0].ID

	it, err := SetSegments(&plan, blockID, itemID, []domain.Segment{
		{Distance: 25, Type: domain.SegmentKick},
		{Distance: 50, Type: domain.SegmentSwim},
	})
	require.NoError(t, err)
	assert.Equal(t, 75, it.Distance)
	assert.Equal(t, 400+2*4*75, plan.TotalDistance)

	it, err = SetSegments(&plan, blockID, itemID, nil)
	require.NoError(t, err)
	assert.Empty(t, it.Segments)
	assert.Equal(t, 75, it.Distance)

	_, err = SetSegments(&plan, blockID, itemID, []domain.Segment{{Distance: -1, Type: domain.SegmentSwim}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTemplates_AreDetached(t *testing.T) {
	plan := testPlan(t)
	src := plan.Blocks[1]

	tmpl, err := TemplateFromBlock(plan, src.ID, "Threshold 4x100")
	require.NoError(t, err)
	assert.NotEmpty(t, tmpl.TemplateID)
	assert.Equal(t, "Threshold 4x100", tmpl.Name)
	assert.Equal(t, domain.BlockMainSet, tmpl.Category)
	assert.NotEqual(t, src.ID, tmpl.Block.ID)

	other := domain.TrainingPlan{Date: "2024-01-06", Group: domain.GroupJunior}
	require.NoError(t, PreparePlan(&other))
	applied, err := ApplyTemplate(&other, tmpl)
	require.NoError(t, err)
	assert.NotEqual(t, tmpl.Block.ID, applied.ID)
	assert.NotEqual(t, tmpl.Block.Items[0].ID, applied.Items[0].ID)
	assert.Equal(t, 800, other.TotalDistance)

	other.Blocks[0].Items[0].Distance = 1
	assert.Equal(t, 100, tmpl.Block.Items[0].Distance)

	_, err = TemplateFromBlock(plan, "missing", "x")
	assert.ErrorIs(t, err, ErrBlockNotFound)
}
