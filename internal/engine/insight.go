// internal/engine/insight.go
package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
)

const (
	fatigueReadiness     = 40
	fatigueVolume        = 3000
	opportunityReadiness = 85
	opportunityStreak    = 3
)

type GroupLoad struct {
	Plans    int `json:"plans"`
	Distance int `json:"distance"`
}

type MonthSummary struct {
	Month          string                     `json:"month"`
	Plans          int                        `json:"plans"`
	TotalDistance  int                        `json:"totalDistance"`
	Groups         map[domain.Group]GroupLoad `json:"groups"`
	Attendance     int                        `json:"attendance"`
	AttendanceRate int                        `json:"attendanceRate"` // percent of plans x swimmers
	ActiveSwimmers int                        `json:"activeSwimmers"`
	PersonalBests  int                        `json:"personalBests"`
}

// SummarizeMonth aggregates team activity for month ("YYYY-MM").
func SummarizeMonth(month string, swimmers []domain.Swimmer, plans []domain.TrainingPlan,
	attendance []domain.AttendanceRecord, performances []domain.PerformanceRecord) (MonthSummary, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return MonthSummary{}, fmt.Errorf("month %q is not YYYY-MM: %w", month, ErrInvalidInput)
	}
	prefix := month + "-"
	sum := MonthSummary{Month: month, Groups: map[domain.Group]GroupLoad{}}

	for _, s := range swimmers {
		if _, ok := sum.Groups[s.Group]; !ok {
			sum.Groups[s.Group] = GroupLoad{}
		}
	}
	for _, p := range plans {
		if !strings.HasPrefix(p.Date, prefix) {
			continue
		}
		sum.Plans++
		sum.TotalDistance += p.TotalDistance
		g := sum.Groups[p.Group]
		g.Plans++
		g.Distance += p.TotalDistance
		sum.Groups[p.Group] = g
	}

	active := map[string]struct{}{}
	for _, a := range attendance {
		if !strings.HasPrefix(a.Date, prefix) {
			continue
		}
		sum.Attendance++
		active[a.SwimmerID] = struct{}{}
	}
	sum.ActiveSwimmers = len(active)
	if expected := sum.Plans * len(swimmers); expected > 0 {
		sum.AttendanceRate = int(math.Round(float64(sum.Attendance) / float64(expected) * 100))
	}

	for _, r := range performances {
		if r.IsPB && strings.HasPrefix(r.Date, prefix) {
			sum.PersonalBests++
		}
	}
	return sum, nil
}

type RiskLevel string

const (
	RiskHigh        RiskLevel = "high"
	RiskMedium      RiskLevel = "medium"
	RiskOpportunity RiskLevel = "opportunity"
)

type LoadAlert struct {
	SwimmerID   string    `json:"swimmerId"`
	SwimmerName string    `json:"swimmerName"`
	Level       RiskLevel `json:"level"`
	Reason      string    `json:"reason"`
}

// AnalyzeLoad flags swimmers of the plan's group for whom the session looks
// risky, or who look ready for more.
func AnalyzeLoad(plan domain.TrainingPlan, swimmers []domain.Swimmer) []LoadAlert {
	var paddles, hardFly bool
	for _, b := range plan.Blocks {
		for _, it := range b.Items {
			if it.HasEquipment(domain.EquipmentPaddles) {
				paddles = true
			}
			if it.Stroke == domain.StrokeFly && it.Distance >= 50 && it.Intensity == domain.IntensityHigh {
				hardFly = true
			}
		}
	}

	alerts := []LoadAlert{}
	for _, s := range swimmers {
		if s.Group != plan.Group {
			continue
		}
		if hasShoulderInjury(s) && (paddles || hardFly) {
			var load []string
			if paddles {
				load = append(load, "paddles")
			}
			if hardFly {
				load = append(load, "hard fly")
			}
			alerts = append(alerts, LoadAlert{
				SwimmerID: s.ID, SwimmerName: s.Name, Level: RiskHigh,
				Reason: fmt.Sprintf("shoulder injury and plan has %s", strings.Join(load, " and ")),
			})
		}
		if s.Readiness < fatigueReadiness && plan.TotalDistance > fatigueVolume {
			alerts = append(alerts, LoadAlert{
				SwimmerID: s.ID, SwimmerName: s.Name, Level: RiskMedium,
				Reason: fmt.Sprintf("readiness %d with %dm volume", s.Readiness, plan.TotalDistance),
			})
		}
		if s.Readiness > opportunityReadiness && s.CurrentStreak > opportunityStreak {
			alerts = append(alerts, LoadAlert{
				SwimmerID: s.ID, SwimmerName: s.Name, Level: RiskOpportunity,
				Reason: "high readiness and active streak, can take extra intensity",
			})
		}
	}
	return alerts
}

func hasShoulderInjury(s domain.Swimmer) bool {
	for _, inj := range s.Injuries {
		if strings.Contains(strings.ToLower(inj), "shoulder") {
			return true
		}
	}
	return false
}
