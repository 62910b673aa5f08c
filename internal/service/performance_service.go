package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/engine"
	"github.com/duorhuang/aquaflow-pro/internal/metrics"
	"github.com/duorhuang/aquaflow-pro/internal/repository"
)

type PerformanceInput struct {
	SwimmerID string
	Event     domain.SwimEvent
	Time      string
	Date      string // defaults to today
	MeetName  string
	Notes     string
}

type PerformanceService interface {
	// RecordPerformance evaluates the time against the swimmer's history for
	// the event and stores the record with IsPB and Improvement filled in.
	RecordPerformance(ctx context.Context, in PerformanceInput) (*domain.PerformanceRecord, error)
	ListPerformances(ctx context.Context) ([]domain.PerformanceRecord, error)
	ListBySwimmer(ctx context.Context, swimmerID string) ([]domain.PerformanceRecord, error)
}

type performanceService struct {
	swimmerRepo     repository.SwimmerRepository
	performanceRepo repository.PerformanceRepository
	metrics         *metrics.Manager
	now             Clock
	loc             *time.Location
}

func NewPerformanceService(
	swimmerRepo repository.SwimmerRepository,
	performanceRepo repository.PerformanceRepository,
	m *metrics.Manager,
	now Clock,
	loc *time.Location,
) PerformanceService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &performanceService{
		swimmerRepo:     swimmerRepo,
		performanceRepo: performanceRepo,
		metrics:         m,
		now:             now,
		loc:             loc,
	}
}

func (s *performanceService) RecordPerformance(ctx context.Context, in PerformanceInput) (*domain.PerformanceRecord, error) {
	if _, err := s.swimmerRepo.GetByID(ctx, in.SwimmerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSwimmerNotFound
		}
		return nil, fmt.Errorf("get swimmer %s: %w", in.SwimmerID, err)
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = engine.Today(s.now(), s.loc)
	} else if _, err := engine.ParseDate(date); err != nil {
		return nil, err
	}

	history, err := s.performanceRepo.ListBySwimmerAndEvent(ctx, in.SwimmerID, in.Event)
	if err != nil {
		return nil, fmt.Errorf("list %s history of %s: %w", in.Event, in.SwimmerID, err)
	}
	eval, err := engine.EvaluatePerformance(in.SwimmerID, in.Event, in.Time, history)
	if err != nil {
		return nil, err
	}

	rec := &domain.PerformanceRecord{
		SwimmerID:   in.SwimmerID,
		Event:       in.Event,
		Time:        strings.TrimSpace(in.Time),
		Date:        date,
		IsPB:        eval.IsPB,
		Improvement: eval.Improvement,
		MeetName:    in.MeetName,
		Notes:       in.Notes,
	}
	if err := s.performanceRepo.Create(ctx, rec); err != nil {
		return rec, persistFailure(s.metrics, "performance", err)
	}
	if rec.IsPB {
		s.metrics.CounterPersonalBests.Inc()
		log.Infof("personal best for %s in %s: %s", rec.SwimmerID, rec.Event, rec.Time)
	}
	return rec, nil
}

func (s *performanceService) ListPerformances(ctx context.Context) ([]domain.PerformanceRecord, error) {
	recs, err := s.performanceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list performances: %w", err)
	}
	return recs, nil
}

func (s *performanceService) ListBySwimmer(ctx context.Context, swimmerID string) ([]domain.PerformanceRecord, error) {
	recs, err := s.performanceRepo.ListBySwimmer(ctx, swimmerID)
	if err != nil {
		return nil, fmt.Errorf("list performances of %s: %w", swimmerID, err)
	}
	return recs, nil
}
