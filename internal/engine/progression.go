// internal/engine/progression.go
package engine

import (
	"fmt"
	"math/bits"
	"time"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
)

const (
	CheckInBaseXP = 20
	levelXPUnit   = 10
)

// Level maps xp to a level: 1 below 10 xp, then floor(log2(xp/10 + 1)) + 1.
// Each level costs twice the xp of the previous one.
func Level(xp int) int {
	if xp < levelXPUnit {
		return 1
	}
	// bits.Len(n) == floor(log2(n)) + 1 for n >= 1, and xp/10 only ever
	// truncates a fractional part that cannot cross a power of two.
	return bits.Len(uint(xp/levelXPUnit + 1))
}

// StreakBonus returns the bonus for the highest threshold reached. Tiers do not stack.
func StreakBonus(streak int) int {
	switch {
	case streak >= 15:
		return 3
	case streak >= 6:
		return 2
	case streak >= 3:
		return 1
	default:
		return 0
	}
}

// CheckInXP is the xp awarded for a check-in that lands on the given streak.
func CheckInXP(streak int) int {
	return CheckInBaseXP + StreakBonus(streak)
}

// AdjustXP applies a signed delta, floors xp at zero and recomputes the level.
func AdjustXP(s domain.Swimmer, delta int) domain.Swimmer {
	out := s.Clone()
	out.XP += delta
	if out.XP < 0 {
		out.XP = 0
	}
	out.Level = Level(out.XP)
	return out
}

// PreviousPlanDate returns the most recent plan date for group strictly
// before today, or "" when the group has no earlier plan.
func PreviousPlanDate(plans []domain.TrainingPlan, group domain.Group, today string) string {
	prev := ""
	for _, p := range plans {
		if p.Group != group || p.Date >= today {
			continue
		}
		if p.Date > prev {
			prev = p.Date
		}
	}
	return prev
}

// NextStreak computes the streak after a check-in on today.
// Attendance follows training days: checking in at the group's previous
// session keeps the streak alive even across rest days.
func NextStreak(current int, lastCheckIn, prevPlanDate, today string) (int, error) {
	if lastCheckIn == "" || prevPlanDate == "" {
		return 1, nil
	}
	if lastCheckIn == prevPlanDate {
		return current + 1, nil
	}
	gap, err := DaysBetween(lastCheckIn, today)
	if err != nil {
		return 0, err
	}
	if gap <= 1 {
		return current + 1, nil
	}
	return 1, nil
}

// DaysBetween is the absolute number of calendar days between two YYYY-MM-DD dates.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	days := int(tb.Sub(ta).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days, nil
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD: %w", s, ErrInvalidInput)
	}
	return t, nil
}

// Today formats now as a calendar date in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format(domain.DateLayout)
}

type CheckInResult struct {
	Swimmer    domain.Swimmer           `json:"swimmer"`
	Attendance *domain.AttendanceRecord `json:"attendance,omitempty"`
	XPGained   int                      `json:"xpGained"`
	Applied    bool                     `json:"applied"`
}

// CheckIn computes the swimmer's state after attending on today. When the
// swimmer already checked in today the result carries the unchanged swimmer
// and Applied is false. plans may hold every plan; only the swimmer's group is used.
func CheckIn(s domain.Swimmer, today string, alreadyCheckedIn bool, plans []domain.TrainingPlan, now time.Time) (CheckInResult, error) {
	if _, err := ParseDate(today); err != nil {
		return CheckInResult{}, err
	}
	if alreadyCheckedIn || s.LastCheckIn == today {
		return CheckInResult{Swimmer: s.Clone()}, nil
	}

	streak, err := NextStreak(s.CurrentStreak, s.LastCheckIn, PreviousPlanDate(plans, s.Group, today), today)
	if err != nil {
		return CheckInResult{}, fmt.Errorf("swimmer %s last check-in: %w", s.ID, err)
	}
	gained := CheckInXP(streak)

	out := s.Clone()
	out.CurrentStreak = streak
	out.LastCheckIn = today
	out.XP += gained
	out.Level = Level(out.XP)

	return CheckInResult{
		Swimmer: out,
		Attendance: &domain.AttendanceRecord{
			ID:        newID(),
			Date:      today,
			SwimmerID: s.ID,
			Status:    domain.AttendancePresent,
			Timestamp: now,
		},
		XPGained: gained,
		Applied:  true,
	}, nil
}
