package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/duorhuang/aquaflow-pro/internal/engine"
	"github.com/duorhuang/aquaflow-pro/internal/repository"
)

type InsightService interface {
	// TeamMonth summarizes the team for month ("YYYY-MM"); empty means the current month.
	TeamMonth(ctx context.Context, month string) (*engine.MonthSummary, error)
	PlanInsight(ctx context.Context, planID string) ([]engine.LoadAlert, error)
}

type insightService struct {
	store *repository.Store
	now   Clock
	loc   *time.Location
}

func NewInsightService(store *repository.Store, now Clock, loc *time.Location) InsightService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &insightService{store: store, now: now, loc: loc}
}

func (s *insightService) TeamMonth(ctx context.Context, month string) (*engine.MonthSummary, error) {
	if month == "" {
		month = s.now().In(s.loc).Format("2006-01")
	}
	swimmers, err := s.store.Swimmers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list swimmers: %w", err)
	}
	plans, err := s.store.Plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	attendance, err := s.store.Attendance.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	performances, err := s.store.Performances.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list performances: %w", err)
	}

	sum, err := engine.SummarizeMonth(month, swimmers, plans, attendance, performances)
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

func (s *insightService) PlanInsight(ctx context.Context, planID string) ([]engine.LoadAlert, error) {
	plan, err := s.store.Plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get plan %s: %w", planID, err)
	}
	swimmers, err := s.store.Swimmers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list swimmers: %w", err)
	}
	return engine.AnalyzeLoad(*plan, swimmers), nil
}
