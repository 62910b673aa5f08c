// internal/domain/swimmer.go
package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used for plan dates, check-ins and records.
const DateLayout = "2006-01-02"

// Group is one of the three ordered skill tiers.
type Group string

const (
	GroupJunior       Group = "Junior"
	GroupIntermediate Group = "Intermediate"
	GroupAdvanced     Group = "Advanced"
)

// Rank orders groups from Junior (1) to Advanced (3). Unknown groups rank 0.
func (g Group) Rank() int {
	switch g {
	case GroupJunior:
		return 1
	case GroupIntermediate:
		return 2
	case GroupAdvanced:
		return 3
	default:
		return 0
	}
}

func (g Group) Validate() error {
	if g.Rank() == 0 {
		return fmt.Errorf("unsupported group %q", string(g))
	}
	return nil
}

// SwimmerStatus describes the athlete's current availability.
type SwimmerStatus string

const (
	SwimmerActive  SwimmerStatus = "Active"
	SwimmerInjured SwimmerStatus = "Injured"
	SwimmerResting SwimmerStatus = "Resting"
)

func (s SwimmerStatus) Validate() error {
	switch s {
	case SwimmerActive, SwimmerInjured, SwimmerResting:
		return nil
	default:
		return fmt.Errorf("unsupported swimmer status %q", string(s))
	}
}

// Swimmer is an athlete on the team together with their gamification state.
// XP, Level, CurrentStreak and LastCheckIn are owned by the progression engine.
type Swimmer struct {
	ID           string        `bson:"_id" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Group        Group         `bson:"group" json:"group"`
	Status       SwimmerStatus `bson:"status" json:"status"`
	Readiness    int           `bson:"readiness" json:"readiness"` // 0-100
	Username     string        `bson:"username,omitempty" json:"username,omitempty"`
	PasswordHash string        `bson:"passwordHash,omitempty" json:"-"` // Never expose this via JSON

	// --- Gamification ---
	XP            int    `bson:"xp" json:"xp"`
	Level         int    `bson:"level" json:"level"`
	CurrentStreak int    `bson:"currentStreak" json:"currentStreak"`
	LastCheckIn   string `bson:"lastCheckIn,omitempty" json:"lastCheckIn,omitempty"` // YYYY-MM-DD, empty if never checked in

	// --- Profile ---
	MainStroke        Stroke            `bson:"mainStroke,omitempty" json:"mainStroke,omitempty"`
	BestTimes         map[string]string `bson:"bestTimes,omitempty" json:"bestTimes,omitempty"` // e.g. "50Free": "25.5"
	Injuries          []string          `bson:"injuries,omitempty" json:"injuries,omitempty"`
	InjuryNote        string            `bson:"injuryNote,omitempty" json:"injuryNote,omitempty"`
	LastProfileUpdate *time.Time        `bson:"lastProfileUpdate,omitempty" json:"lastProfileUpdate,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Clone returns a copy that shares no maps or slices with s.
func (s Swimmer) Clone() Swimmer {
	out := s
	if s.BestTimes != nil {
		out.BestTimes = make(map[string]string, len(s.BestTimes))
		for k, v := range s.BestTimes {
			out.BestTimes[k] = v
		}
	}
	if s.Injuries != nil {
		out.Injuries = append([]string(nil), s.Injuries...)
	}
	if s.LastProfileUpdate != nil {
		t := *s.LastProfileUpdate
		out.LastProfileUpdate = &t
	}
	return out
}
