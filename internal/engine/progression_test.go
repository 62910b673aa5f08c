package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
)

var checkInTime = time.Date(2024, 1, 10, 7, 30, 0, 0, time.UTC)

func groupPlans(group domain.Group, dates ...string) []domain.TrainingPlan {
	plans := make([]domain.TrainingPlan, 0, len(dates))
	for _, d := range dates {
		plans = append(plans, domain.TrainingPlan{ID: "p-" + d, Date: d, Group: group})
	}
	return plans
}

func TestLevel(t *testing.T) {
	t.Parallel()

	for xp := 0; xp < 10; xp++ {
		assert.Equal(t, 1, Level(xp), "xp %d", xp)
	}

	tests := []struct {
		xp   int
		want int
	}{
		{10, 2},
		{29, 2},
		{30, 3},
		{69, 3},
		{70, 4},
		{150, 5},
		{310, 6},
		{1000, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.xp), "xp %d", tt.xp)
	}

	prev := Level(0)
	for xp := 1; xp <= 5000; xp++ {
		lvl := Level(xp)
		require.GreaterOrEqual(t, lvl, prev, "level decreased at xp %d", xp)
		prev = lvl
	}
}

func TestStreakBonus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		streak int
		want   int
	}{
		{1, 0},
		{2, 0},
		{3, 1},
		{5, 1},
		{6, 2},
		{14, 2},
		{15, 3},
		{40, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StreakBonus(tt.streak), "streak %d", tt.streak)
		assert.Equal(t, 20+tt.want, CheckInXP(tt.streak), "streak %d", tt.streak)
	}
}

func TestAdjustXP(t *testing.T) {
	t.Parallel()

	s := domain.Swimmer{ID: "s1", XP: 45, Level: Level(45)}

	up := AdjustXP(s, 30)
	assert.Equal(t, 75, up.XP)
	assert.Equal(t, Level(75), up.Level)

	down := AdjustXP(s, -1000)
	assert.Equal(t, 0, down.XP)
	assert.Equal(t, Level(0), down.Level)
	assert.Equal(t, 45, s.XP)
}

func TestCheckIn_FirstEver(t *testing.T) {
	s := domain.Swimmer{ID: "s1", Group: domain.GroupAdvanced, XP: 5, Level: 1}

	res, err := CheckIn(s, "2024-01-10", false, groupPlans(domain.GroupAdvanced, "2024-01-08"), checkInTime)
	require.NoError(t, err)

	assert.True(t, res.Applied)
	assert.Equal(t, 1, res.Swimmer.CurrentStreak)
	assert.Equal(t, 25, res.Swimmer.XP)
	assert.Equal(t, 2, res.Swimmer.Level)
	assert.Equal(t, "2024-01-10", res.Swimmer.LastCheckIn)
	assert.Equal(t, 20, res.XPGained)
	require.NotNil(t, res.Attendance)
	assert.Equal(t, "s1", res.Attendance.SwimmerID)
	assert.Equal(t, "2024-01-10", res.Attendance.Date)
	assert.Equal(t, domain.AttendancePresent, res.Attendance.Status)
	assert.Equal(t, checkInTime, res.Attendance.Timestamp)
	assert.NotEmpty(t, res.Attendance.ID)
}

func TestCheckIn_Streaks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		streak     int
		last       string
		plans      []domain.TrainingPlan
		wantStreak int
		wantXP     int
	}{
		{
			name:       "no earlier plan resets",
			streak:     4,
			last:       "2024-01-09",
			plans:      groupPlans(domain.GroupAdvanced, "2024-01-10", "2024-01-12"),
			wantStreak: 1,
			wantXP:     20,
		},
		{
			name:       "attended previous session continues across rest days",
			streak:     2,
			last:       "2024-01-06",
			plans:      groupPlans(domain.GroupAdvanced, "2024-01-03", "2024-01-06", "2024-01-10"),
			wantStreak: 3,
			wantXP:     21,
		},
		{
			name:       "sixth session",
			streak:     5,
			last:       "2024-01-08",
			plans:      groupPlans(domain.GroupAdvanced, "2024-01-08"),
			wantStreak: 6,
			wantXP:     22,
		},
		{
			name:       "fourteenth session is not fifteen",
			streak:     13,
			last:       "2024-01-08",
			plans:      groupPlans(domain.GroupAdvanced, "2024-01-08"),
			wantStreak: 14,
			wantXP:     22,
		},
		{
			name:       "fifteenth session",
			streak:     14,
			last:       "2024-01-08",
			plans:      groupPlans(domain.GroupAdvanced, "2024-01-08"),
			wantStreak: 15,
			wantXP:     23,
		},
		{
			name:       "yesterday without attending the planned session",
			streak:     2,
			last:       "2024-01-09",
			plans:      groupPlans(domain.GroupAdvanced, "2024-01-08"),
			wantStreak: 3,
			wantXP:     21,
		},
		{
			name:       "missed the planned session",
			streak:     7,
			last:       "2024-01-05",
			plans:      groupPlans(domain.GroupAdvanced, "2024-01-08"),
			wantStreak: 1,
			wantXP:     20,
		},
		{
			name:       "other groups' plans are ignored",
			streak:     3,
			last:       "2024-01-08",
			plans:      append(groupPlans(domain.GroupJunior, "2024-01-09"), groupPlans(domain.GroupAdvanced, "2024-01-08")...),
			wantStreak: 4,
			wantXP:     21,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := domain.Swimmer{ID: "s1", Group: domain.GroupAdvanced, XP: 100, Level: Level(100), CurrentStreak: tt.streak, LastCheckIn: tt.last}

			res, err := CheckIn(s, "2024-01-10", false, tt.plans, checkInTime)
			require.NoError(t, err)
			assert.True(t, res.Applied)
			assert.Equal(t, tt.wantStreak, res.Swimmer.CurrentStreak)
			assert.Equal(t, 100+tt.wantXP, res.Swimmer.XP)
			assert.Equal(t, tt.wantXP, res.XPGained)
			assert.Equal(t, Level(res.Swimmer.XP), res.Swimmer.Level)
		})
	}
}

func TestCheckIn_SameDayIsNoop(t *testing.T) {
	plans := groupPlans(domain.GroupJunior, "2024-01-08")
	s := domain.Swimmer{ID: "s4", Group: domain.GroupJunior, XP: 40, Level: Level(40), CurrentStreak: 2, LastCheckIn: "2024-01-08"}

	first, err := CheckIn(s, "2024-01-10", false, plans, checkInTime)
	require.NoError(t, err)
	require.True(t, first.Applied)

	second, err := CheckIn(first.Swimmer, "2024-01-10", false, plans, checkInTime.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Nil(t, second.Attendance)
	assert.Zero(t, second.XPGained)
	assert.Equal(t, first.Swimmer, second.Swimmer)

	// an attendance record for today also blocks the award
	third, err := CheckIn(s, "2024-01-10", true, plans, checkInTime)
	require.NoError(t, err)
	assert.False(t, third.Applied)
	assert.Equal(t, s, third.Swimmer)
}

func TestCheckIn_InvalidDates(t *testing.T) {
	s := domain.Swimmer{ID: "s1", Group: domain.GroupAdvanced, LastCheckIn: "yesterday", CurrentStreak: 1}

	_, err := CheckIn(s, "2024-13-01", false, nil, checkInTime)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = CheckIn(s, "2024-01-10", false, groupPlans(domain.GroupAdvanced, "2024-01-08"), checkInTime)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestToday(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	now := time.Date(2024, 1, 9, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-09", Today(now, time.UTC))
	assert.Equal(t, "2024-01-10", Today(now, shanghai))
}
