package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/engine"
	"github.com/duorhuang/aquaflow-pro/internal/metrics"
	"github.com/duorhuang/aquaflow-pro/internal/repository/memory"
	"github.com/duorhuang/aquaflow-pro/internal/service"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newServices(today time.Time) (service.AthleteService, service.PlanService) {
	store := memory.NewStore()
	m := metrics.NewTestManager()
	now := func() time.Time { return today }
	athletes := service.NewAthleteService(store.Swimmers, store.Plans, store.Attendance, m, now, time.UTC)
	plans := service.NewPlanService(store.Plans, store.Templates, nil, nil, m, now)
	return athletes, plans
}

func TestDefaultFixture(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	assert.Len(t, f.Swimmers, 4)
	assert.Len(t, f.Plans, 3)
	assert.Equal(t, "s2", f.Swimmers[1].ID)
	assert.Equal(t, []string{"Shoulder"}, f.Swimmers[1].Injuries)
	assert.Equal(t, "Drill Set", f.Plans[0].Blocks[1].Type)
	assert.Len(t, f.Plans[0].Blocks[1].Items[0].Segments, 4)
}

func TestApplyDefault(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	athletes, plans := newServices(today)

	f, err := Default()
	require.NoError(t, err)
	res, err := Apply(ctx, f, athletes, plans, today)
	require.NoError(t, err)
	assert.Equal(t, Result{Swimmers: 4, Plans: 3}, res)

	alex, err := athletes.GetSwimmer(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1250, alex.XP)
	assert.Equal(t, 7, alex.Level)

	visible, err := plans.ListVisiblePlans(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 3)
	assert.True(t, visible[0].IsStarred)
	assert.Equal(t, domain.GroupJunior, visible[0].Group)
	assert.Equal(t, "2024-05-19", visible[0].Date)
	assert.Equal(t, "2024-05-20", visible[1].Date)
	// 800 + 4x100 + 30x100 + 300
	assert.Equal(t, 4500, visible[1].TotalDistance)
	assert.Equal(t, map[string]string{"s2": "Swap paddles for fins on the main set."}, visible[1].TargetedNotes)
	assert.Equal(t, "2024-05-18", visible[2].Date)
	assert.Equal(t, 2400, visible[2].TotalDistance)
}

func TestApplyTwiceSkipsSwimmers(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	athletes, plans := newServices(today)

	f, err := Default()
	require.NoError(t, err)
	_, err = Apply(ctx, f, athletes, plans, today)
	require.NoError(t, err)

	res, err := Apply(ctx, &Fixture{Swimmers: f.Swimmers}, athletes, plans, today)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 4}, res)

	all, err := athletes.ListSwimmers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.yaml")
	raw := []byte(`
swimmers:
  - name: Solo
    group: Junior
    username: solo
    password: secret1
plans:
  - date: "2024-01-02"
    group: Junior
    status: Draft
    blocks:
      - type: Warmup
        rounds: 2
        items:
          - {repeats: 2, distance: 50, stroke: Free, intensity: Low}
`)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	f, err := Load(path)
	require.NoError(t, err)

	today := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	athletes, plans := newServices(today)
	res, err := Apply(context.Background(), f, athletes, plans, today)
	require.NoError(t, err)
	assert.Equal(t, Result{Swimmers: 1, Plans: 1}, res)

	all, err := plans.ListVisiblePlans(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.PlanDraft, all[0].Status)
	assert.Equal(t, 200, all[0].TotalDistance)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("swimmers: [unclosed"))
	assert.Error(t, err)
}

func TestApplyRejectsInvalidPlan(t *testing.T) {
	today := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	athletes, plans := newServices(today)
	f := &Fixture{Plans: []Plan{{Group: "Seniors", Status: "Published"}}}

	_, err := Apply(context.Background(), f, athletes, plans, today)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
}
