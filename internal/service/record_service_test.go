package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duorhuang/aquaflow-pro/internal/config"
	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/engine"
)

func TestPerformanceService_RecordPerformance(t *testing.T) {
	env := newTestEnv("2024-03-10")
	athletes := env.athletes()
	svc := NewPerformanceService(env.store.Swimmers, env.store.Performances, env.metrics, env.clock.Now, time.UTC)
	ctx := context.Background()

	sw := addTestSwimmer(t, athletes, "Lin", domain.GroupAdvanced)
	other := addTestSwimmer(t, athletes, "Zhao", domain.GroupAdvanced)

	first, err := svc.RecordPerformance(ctx, PerformanceInput{SwimmerID: sw.ID, Event: domain.Event50Free, Time: "28.50"})
	require.NoError(t, err)
	assert.True(t, first.IsPB)
	assert.Nil(t, first.Improvement)
	assert.Equal(t, "2024-03-10", first.Date)

	// another swimmer's faster time is not a baseline
	_, err = svc.RecordPerformance(ctx, PerformanceInput{SwimmerID: other.ID, Event: domain.Event50Free, Time: "25.00"})
	require.NoError(t, err)

	slower, err := svc.RecordPerformance(ctx, PerformanceInput{SwimmerID: sw.ID, Event: domain.Event50Free, Time: "29.00", Date: "2024-03-11"})
	require.NoError(t, err)
	assert.False(t, slower.IsPB)
	require.NotNil(t, slower.Improvement)
	assert.InDelta(t, 0.5, *slower.Improvement, 1e-9)

	equal, err := svc.RecordPerformance(ctx, PerformanceInput{SwimmerID: sw.ID, Event: domain.Event50Free, Time: "28.50"})
	require.NoError(t, err)
	assert.False(t, equal.IsPB)

	faster, err := svc.RecordPerformance(ctx, PerformanceInput{SwimmerID: sw.ID, Event: domain.Event50Free, Time: "27.95"})
	require.NoError(t, err)
	assert.True(t, faster.IsPB)
	require.NotNil(t, faster.Improvement)
	assert.InDelta(t, -0.55, *faster.Improvement, 1e-9)

	list, err := svc.ListBySwimmer(ctx, sw.ID)
	require.NoError(t, err)
	assert.Len(t, list, 4)
	all, err := svc.ListPerformances(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.InDelta(t, 3, testutil.ToFloat64(env.metrics.CounterPersonalBests), 1e-9)
}

func TestPerformanceService_RecordPerformance_Invalid(t *testing.T) {
	env := newTestEnv("2024-03-10")
	svc := NewPerformanceService(env.store.Swimmers, env.store.Performances, env.metrics, env.clock.Now, time.UTC)
	sw := addTestSwimmer(t, env.athletes(), "Lin", domain.GroupAdvanced)
	ctx := context.Background()

	tests := []struct {
		name string
		in   PerformanceInput
		want error
	}{
		{"unknown swimmer", PerformanceInput{SwimmerID: "nope", Event: domain.Event50Free, Time: "28.5"}, ErrSwimmerNotFound},
		{"empty time", PerformanceInput{SwimmerID: sw.ID, Event: domain.Event50Free, Time: ""}, engine.ErrInvalidInput},
		{"negative time", PerformanceInput{SwimmerID: sw.ID, Event: domain.Event50Free, Time: "-3"}, engine.ErrInvalidInput},
		{"unknown event", PerformanceInput{SwimmerID: sw.ID, Event: "25Free", Time: "12.1"}, engine.ErrInvalidInput},
		{"bad date", PerformanceInput{SwimmerID: sw.ID, Event: domain.Event50Free, Time: "28.5", Date: "10/03/2024"}, engine.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordPerformance(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFeedbackService_SubmitFeedback(t *testing.T) {
	env := newTestEnv("2024-03-10")
	svc := NewFeedbackService(env.store.Swimmers, env.store.Plans, env.store.Feedback, env.metrics, env.clock.Now, time.UTC)
	sw := addTestSwimmer(t, env.athletes(), "Lin", domain.GroupAdvanced)
	plan := addTestPlan(t, env.plans(), "2024-03-10", domain.GroupAdvanced)
	ctx := context.Background()

	fb, err := svc.SubmitFeedback(ctx, FeedbackInput{SwimmerID: sw.ID, PlanID: plan.ID, RPE: 7, Soreness: 3, Comments: "tired legs"})
	require.NoError(t, err)
	assert.NotEmpty(t, fb.ID)
	assert.Equal(t, "2024-03-10", fb.Date)

	_, err = svc.SubmitFeedback(ctx, FeedbackInput{SwimmerID: sw.ID, PlanID: plan.ID, RPE: 11, Soreness: 3})
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
	_, err = svc.SubmitFeedback(ctx, FeedbackInput{SwimmerID: sw.ID, PlanID: plan.ID, RPE: 5, Soreness: 0})
	assert.ErrorIs(t, err, engine.ErrInvalidInput)
	_, err = svc.SubmitFeedback(ctx, FeedbackInput{SwimmerID: "nope", PlanID: plan.ID, RPE: 5, Soreness: 5})
	assert.ErrorIs(t, err, ErrSwimmerNotFound)
	_, err = svc.SubmitFeedback(ctx, FeedbackInput{SwimmerID: sw.ID, PlanID: "nope", RPE: 5, Soreness: 5})
	assert.ErrorIs(t, err, ErrPlanNotFound)

	byPlan, err := svc.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, byPlan, 1)
	all, err := svc.ListFeedback(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestInsightService(t *testing.T) {
	env := newTestEnv("2024-03-10")
	athletes, plans := env.athletes(), env.plans()
	svc := NewInsightService(env.store, env.clock.Now, time.UTC)
	ctx := context.Background()

	sw := addTestSwimmer(t, athletes, "Lin", domain.GroupAdvanced)
	addTestSwimmer(t, athletes, "Zhao", domain.GroupAdvanced)
	plan := addTestPlan(t, plans, "2024-03-10", domain.GroupAdvanced)
	addTestPlan(t, plans, "2024-02-28", domain.GroupAdvanced)
	_, err := athletes.CheckIn(ctx, sw.ID)
	require.NoError(t, err)

	sum, err := svc.TeamMonth(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", sum.Month)
	assert.Equal(t, 1, sum.Plans)
	assert.Equal(t, 400, sum.TotalDistance)
	assert.Equal(t, 1, sum.Attendance)
	assert.Equal(t, 50, sum.AttendanceRate)

	_, err = svc.TeamMonth(ctx, "March")
	assert.ErrorIs(t, err, engine.ErrInvalidInput)

	readiness := 20
	_, err = athletes.UpdateProfile(ctx, sw.ID, ProfileInput{Readiness: &readiness})
	require.NoError(t, err)
	alerts, err := svc.PlanInsight(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, alerts, "400m is below the fatigue volume")

	_, err = svc.PlanInsight(ctx, "nope")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv("2024-03-10")
	athletes := env.athletes()
	ctx := context.Background()

	_, err := athletes.AddSwimmer(ctx, SwimmerInput{Name: "Lin", Group: domain.GroupAdvanced, Username: "lin", Password: "swim-fast"})
	require.NoError(t, err)

	auth, err := NewAuthService(env.store.Swimmers,
		config.AuthConfig{CoachUsername: "coach", CoachPassword: "admin123"},
		config.JWTConfig{Secret: "test-secret", Expiration: time.Hour},
		time.Now)
	require.NoError(t, err)

	token, principal, err := auth.Login(ctx, "Coach", "admin123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCoach, principal.Role)
	assert.Equal(t, CoachID, principal.ID)
	assertClaims(t, token, CoachID, domain.RoleCoach)

	token, principal, err = auth.Login(ctx, "LIN", "swim-fast")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAthlete, principal.Role)
	require.NotNil(t, principal.Swimmer)
	assertClaims(t, token, principal.Swimmer.ID, domain.RoleAthlete)

	for _, creds := range [][2]string{{"coach", "wrong"}, {"lin", "wrong"}, {"ghost", "x"}, {"", ""}} {
		_, _, err := auth.Login(ctx, creds[0], creds[1])
		assert.ErrorIs(t, err, ErrAuthenticationFailed, creds[0])
	}

	_, err = NewAuthService(env.store.Swimmers, config.AuthConfig{}, config.JWTConfig{}, nil)
	assert.Error(t, err)
}

func assertClaims(t *testing.T, token, wantID string, wantRole domain.Role) {
	t.Helper()
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, wantID, claims.UserID)
	assert.Equal(t, wantRole, claims.Role)
}
