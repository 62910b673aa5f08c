package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/engine"
	"github.com/duorhuang/aquaflow-pro/internal/metrics"
	"github.com/duorhuang/aquaflow-pro/internal/repository"
)

type FeedbackInput struct {
	SwimmerID string
	PlanID    string
	RPE       int
	Soreness  int
	Comments  string
}

type FeedbackService interface {
	SubmitFeedback(ctx context.Context, in FeedbackInput) (*domain.Feedback, error)
	ListFeedback(ctx context.Context) ([]domain.Feedback, error)
	ListByPlan(ctx context.Context, planID string) ([]domain.Feedback, error)
}

type feedbackService struct {
	swimmerRepo  repository.SwimmerRepository
	planRepo     repository.PlanRepository
	feedbackRepo repository.FeedbackRepository
	metrics      *metrics.Manager
	now          Clock
	loc          *time.Location
}

func NewFeedbackService(
	swimmerRepo repository.SwimmerRepository,
	planRepo repository.PlanRepository,
	feedbackRepo repository.FeedbackRepository,
	m *metrics.Manager,
	now Clock,
	loc *time.Location,
) FeedbackService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &feedbackService{
		swimmerRepo:  swimmerRepo,
		planRepo:     planRepo,
		feedbackRepo: feedbackRepo,
		metrics:      m,
		now:          now,
		loc:          loc,
	}
}

func checkScale(name string, v int) error {
	if v < 1 || v > 10 {
		return fmt.Errorf("%s must be between 1 and 10, got %d: %w", name, v, engine.ErrInvalidInput)
	}
	return nil
}

func (s *feedbackService) SubmitFeedback(ctx context.Context, in FeedbackInput) (*domain.Feedback, error) {
	if err := checkScale("rpe", in.RPE); err != nil {
		return nil, err
	}
	if err := checkScale("soreness", in.Soreness); err != nil {
		return nil, err
	}
	if _, err := s.swimmerRepo.GetByID(ctx, in.SwimmerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSwimmerNotFound
		}
		return nil, fmt.Errorf("get swimmer %s: %w", in.SwimmerID, err)
	}
	if _, err := s.planRepo.GetByID(ctx, in.PlanID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get plan %s: %w", in.PlanID, err)
	}

	now := s.now()
	fb := &domain.Feedback{
		SwimmerID: in.SwimmerID,
		PlanID:    in.PlanID,
		Date:      engine.Today(now, s.loc),
		RPE:       in.RPE,
		Soreness:  in.Soreness,
		Comments:  in.Comments,
		Timestamp: now.UTC(),
	}
	if err := s.feedbackRepo.Create(ctx, fb); err != nil {
		return fb, persistFailure(s.metrics, "feedback", err)
	}
	return fb, nil
}

func (s *feedbackService) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	fbs, err := s.feedbackRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return fbs, nil
}

func (s *feedbackService) ListByPlan(ctx context.Context, planID string) ([]domain.Feedback, error) {
	fbs, err := s.feedbackRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("list feedback of plan %s: %w", planID, err)
	}
	return fbs, nil
}
