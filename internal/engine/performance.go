// internal/engine/performance.go
package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
)

// ParseSwimTime parses a decimal-seconds time such as "28.50".
func ParseSwimTime(s string) (float64, error) {
	t, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
		return 0, fmt.Errorf("time %q must be a positive number of seconds: %w", s, ErrInvalidInput)
	}
	return t, nil
}

type Evaluation struct {
	IsPB        bool
	Improvement *float64
}

// EvaluatePerformance derives IsPB and Improvement for a new time against the
// records already on file. Only records of the same swimmer and event count.
// Stored records with an unparseable time are not a baseline.
func EvaluatePerformance(swimmerID string, event domain.SwimEvent, newTime string, history []domain.PerformanceRecord) (Evaluation, error) {
	t, err := ParseSwimTime(newTime)
	if err != nil {
		return Evaluation{}, err
	}
	if err := event.Validate(); err != nil {
		return Evaluation{}, fmt.Errorf("%s: %w", err.Error(), ErrInvalidInput)
	}

	best, found := 0.0, false
	for _, r := range history {
		if r.SwimmerID != swimmerID || r.Event != event {
			continue
		}
		prev, err := ParseSwimTime(r.Time)
		if err != nil {
			continue
		}
		if !found || prev < best {
			best, found = prev, true
		}
	}
	if !found {
		return Evaluation{IsPB: true}, nil
	}
	// Times are timed to the hundredth; compare at that precision so IsPB
	// and Improvement always agree.
	diff := hundredths(t) - hundredths(best)
	delta := float64(diff) / 100
	return Evaluation{IsPB: diff < 0, Improvement: &delta}, nil
}

func hundredths(seconds float64) int64 {
	return int64(math.Round(seconds * 100))
}

// FormatSwimTime renders seconds for display: "1:05.30" from a minute up, "28.50s" below.
func FormatSwimTime(seconds float64) string {
	if seconds >= 60 {
		m := int(seconds / 60)
		return fmt.Sprintf("%d:%05.2f", m, seconds-float64(m*60))
	}
	return fmt.Sprintf("%.2fs", seconds)
}

// ParseClock accepts "m:ss", "m:ss.s" or plain seconds and returns seconds.
func ParseClock(s string) (float64, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) > 2 {
		return 0, fmt.Errorf("clock %q: %w", s, ErrInvalidInput)
	}
	if len(parts) == 1 {
		return ParseSwimTime(s)
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil || m < 0 {
		return 0, fmt.Errorf("clock %q minutes: %w", s, ErrInvalidInput)
	}
	sec, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || math.IsNaN(sec) || sec < 0 || sec >= 60 {
		return 0, fmt.Errorf("clock %q seconds: %w", s, ErrInvalidInput)
	}
	total := float64(m*60) + sec
	if total <= 0 {
		return 0, fmt.Errorf("clock %q must be positive: %w", s, ErrInvalidInput)
	}
	return total, nil
}

// PacePer100 converts a swim of distance meters in seconds to seconds per 100m.
func PacePer100(distance int, seconds float64) (float64, error) {
	if distance <= 0 {
		return 0, fmt.Errorf("distance must be positive, got %d: %w", distance, ErrInvalidInput)
	}
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("seconds must be positive: %w", ErrInvalidInput)
	}
	return seconds / float64(distance) * 100, nil
}

// ProjectTime estimates a swim of distance meters at the given pace per 100m.
func ProjectTime(pacePer100 float64, distance int) float64 {
	return pacePer100 * float64(distance) / 100
}
