package service

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/duorhuang/aquaflow-pro/internal/metrics"
)

// --- Error Definitions ---
var (
	ErrSwimmerNotFound  = errors.New("swimmer not found")
	ErrPlanNotFound     = errors.New("training plan not found")
	ErrTemplateNotFound = errors.New("block template not found")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrSwimmerExists    = errors.New("swimmer id already exists")
	ErrExportDisabled   = errors.New("plan export is not configured")

	// ErrPersistFailed means the derived state was computed but could not be
	// stored. The computed entity is returned alongside the error and nothing
	// is rolled back or retried.
	ErrPersistFailed = errors.New("failed to persist changes")
)

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

func persistFailure(m *metrics.Manager, entity string, err error) error {
	m.CounterPersistFailures.WithLabelValues(entity).Inc()
	log.Errorf("persist %s: %s", entity, err)
	return fmt.Errorf("%w: save %s: %w", ErrPersistFailed, entity, err)
}
