package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/duorhuang/aquaflow-pro/internal/cache"
	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/engine"
	"github.com/duorhuang/aquaflow-pro/internal/metrics"
	"github.com/duorhuang/aquaflow-pro/internal/repository"
	"github.com/duorhuang/aquaflow-pro/internal/storage"
)

const exportURLExpiry = time.Hour

// PlanInput carries the editable fields of a plan. TotalDistance is not one
// of them; it is always derived from Blocks.
type PlanInput struct {
	Date          string
	StartTime     string
	EndTime       string
	Group         domain.Group
	Blocks        []domain.Block
	Focus         string
	Status        domain.PlanStatus
	CoachNotes    string
	TargetedNotes map[string]string
}

type PlanExport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type PlanService interface {
	CreatePlan(ctx context.Context, in PlanInput) (*domain.TrainingPlan, error)
	GetPlan(ctx context.Context, planID string) (*domain.TrainingPlan, error)
	ListVisiblePlans(ctx context.Context) ([]domain.TrainingPlan, error)
	UpdatePlan(ctx context.Context, planID string, in PlanInput) (*domain.TrainingPlan, error)
	DeletePlan(ctx context.Context, planID string) error
	ToggleStar(ctx context.Context, planID string) (*domain.TrainingPlan, error)

	// Block and item editing. Every call returns the whole updated plan.
	AddBlock(ctx context.Context, planID string, block domain.Block) (*domain.TrainingPlan, error)
	RemoveBlock(ctx context.Context, planID, blockID string) (*domain.TrainingPlan, error)
	DuplicateBlock(ctx context.Context, planID, blockID string) (*domain.TrainingPlan, error)
	AddItem(ctx context.Context, planID, blockID string, item domain.Item) (*domain.TrainingPlan, error)
	UpdateItem(ctx context.Context, planID, blockID, itemID string, item domain.Item) (*domain.TrainingPlan, error)
	RemoveItem(ctx context.Context, planID, blockID, itemID string) (*domain.TrainingPlan, error)
	SetSegments(ctx context.Context, planID, blockID, itemID string, segments []domain.Segment) (*domain.TrainingPlan, error)

	// Templates
	SaveTemplate(ctx context.Context, planID, blockID, name string) (*domain.BlockTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.BlockTemplate, error)
	DeleteTemplate(ctx context.Context, templateID string) error
	ApplyTemplate(ctx context.Context, planID, templateID string) (*domain.TrainingPlan, error)

	ExportPlan(ctx context.Context, planID string) (*PlanExport, error)
}

// planService implements the PlanService interface.
type planService struct {
	planRepo     repository.PlanRepository
	templateRepo repository.TemplateRepository
	files        storage.FileStorage // nil disables export
	cache        *cache.PlanCache
	metrics      *metrics.Manager
	now          Clock
}

func NewPlanService(
	planRepo repository.PlanRepository,
	templateRepo repository.TemplateRepository,
	files storage.FileStorage,
	planCache *cache.PlanCache,
	m *metrics.Manager,
	now Clock,
) PlanService {
	if now == nil {
		now = time.Now
	}
	return &planService{
		planRepo:     planRepo,
		templateRepo: templateRepo,
		files:        files,
		cache:        planCache,
		metrics:      m,
		now:          now,
	}
}

func (s *planService) getPlan(ctx context.Context, planID string) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get plan %s: %w", planID, err)
	}
	return plan, nil
}

func (in PlanInput) toPlan() domain.TrainingPlan {
	p := domain.TrainingPlan{
		Date:       strings.TrimSpace(in.Date),
		StartTime:  strings.TrimSpace(in.StartTime),
		EndTime:    strings.TrimSpace(in.EndTime),
		Group:      in.Group,
		Focus:      in.Focus,
		Status:     in.Status,
		CoachNotes: in.CoachNotes,
		Blocks:     make([]domain.Block, 0, len(in.Blocks)),
	}
	for _, b := range in.Blocks {
		p.Blocks = append(p.Blocks, b.Clone())
	}
	if len(in.TargetedNotes) > 0 {
		p.TargetedNotes = make(map[string]string, len(in.TargetedNotes))
		for k, v := range in.TargetedNotes {
			p.TargetedNotes[k] = v
		}
	}
	return p
}

func (s *planService) CreatePlan(ctx context.Context, in PlanInput) (*domain.TrainingPlan, error) {
	plan := in.toPlan()
	if err := engine.PreparePlan(&plan); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	err := s.planRepo.Create(ctx, &plan)
	s.cache.Invalidate()
	if err != nil {
		return &plan, persistFailure(s.metrics, "plan", err)
	}
	s.metrics.CounterPlansSaved.Inc()
	log.Debugf("created plan %s for %s on %s (%dm)", plan.ID, plan.Group, plan.Date, plan.TotalDistance)
	return &plan, nil
}

func (s *planService) GetPlan(ctx context.Context, planID string) (*domain.TrainingPlan, error) {
	return s.getPlan(ctx, planID)
}

// ListVisiblePlans returns every plan, starred first then newest first.
func (s *planService) ListVisiblePlans(ctx context.Context) ([]domain.TrainingPlan, error) {
	if plans, ok := s.cache.GetVisible(); ok {
		return plans, nil
	}
	gen := s.cache.Generation()
	plans, err := s.planRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	visible := engine.VisiblePlans(plans)
	s.cache.SetVisible(visible, gen)
	return visible, nil
}

// UpdatePlan replaces the editable fields. Id, star flag and creation time are kept.
func (s *planService) UpdatePlan(ctx context.Context, planID string, in PlanInput) (*domain.TrainingPlan, error) {
	existing, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	plan := in.toPlan()
	plan.ID = existing.ID
	plan.IsStarred = existing.IsStarred
	plan.CreatedAt = existing.CreatedAt
	if err := engine.PreparePlan(&plan); err != nil {
		return nil, err
	}
	return s.save(ctx, &plan)
}

func (s *planService) DeletePlan(ctx context.Context, planID string) error {
	s.cache.Invalidate()
	err := s.planRepo.Delete(ctx, planID)
	s.cache.Invalidate()
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return fmt.Errorf("delete plan %s: %w", planID, err)
	}
	return nil
}

func (s *planService) ToggleStar(ctx context.Context, planID string) (*domain.TrainingPlan, error) {
	return s.mutate(ctx, planID, func(p *domain.TrainingPlan) error {
		p.IsStarred = !p.IsStarred
		return nil
	})
}

// save writes a plan whose derived fields are already computed.
func (s *planService) save(ctx context.Context, plan *domain.TrainingPlan) (*domain.TrainingPlan, error) {
	s.cache.Invalidate()
	err := s.planRepo.Update(ctx, plan)
	// a list read while the write was in flight must not outlive it
	s.cache.Invalidate()
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return plan, persistFailure(s.metrics, "plan", err)
	}
	s.metrics.CounterPlansSaved.Inc()
	return plan, nil
}

// mutate loads the plan, applies one engine edit and stores the result.
func (s *planService) mutate(ctx context.Context, planID string, edit func(p *domain.TrainingPlan) error) (*domain.TrainingPlan, error) {
	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := edit(plan); err != nil {
		return nil, err
	}
	return s.save(ctx, plan)
}

func (s *planService) AddBlock(ctx context.Context, planID string, block domain.Block) (*domain.TrainingPlan, error) {
	return s.mutate(ctx, planID, func(p *domain.TrainingPlan) error {
		_, err := engine.AddBlock(p, block)
		return err
	})
}

func (s *planService) RemoveBlock(ctx context.Context, planID, blockID string) (*domain.TrainingPlan, error) {
	return s.mutate(ctx, planID, func(p *domain.TrainingPlan) error {
		return engine.RemoveBlock(p, blockID)
	})
}

func (s *planService) DuplicateBlock(ctx context.Context, planID, blockID string) (*domain.TrainingPlan, error) {
	return s.mutate(ctx, planID, func(p *domain.TrainingPlan) error {
		_, err := engine.DuplicateBlock(p, blockID)
		return err
	})
}

func (s *planService) AddItem(ctx context.Context, planID, blockID string, item domain.Item) (*domain.TrainingPlan, error) {
	return s.mutate(ctx, planID, func(p *domain.TrainingPlan) error {
		_, err := engine.AddItem(p, blockID, item)
		return err
	})
}

func (s *planService) UpdateItem(ctx context.Context, planID, blockID, itemID string, item domain.Item) (*domain.TrainingPlan, error) {
	return s.mutate(ctx, planID, func(p *domain.TrainingPlan) error {
		_, err := engine.UpdateItem(p, blockID, itemID, item)
		return err
	})
}

func (s *planService) RemoveItem(ctx context.Context, planID, blockID, itemID string) (*domain.TrainingPlan, error) {
	return s.mutate(ctx, planID, func(p *domain.TrainingPlan) error {
		return engine.RemoveItem(p, blockID, itemID)
	})
}

func (s *planService) SetSegments(ctx context.Context, planID, blockID, itemID string, segments []domain.Segment) (*domain.TrainingPlan, error) {
	return s.mutate(ctx, planID, func(p *domain.TrainingPlan) error {
		_, err := engine.SetSegments(p, blockID, itemID, segments)
		return err
	})
}

// === Templates ===

func (s *planService) SaveTemplate(ctx context.Context, planID, blockID, name string) (*domain.BlockTemplate, error) {
	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	tmpl, err := engine.TemplateFromBlock(*plan, blockID, name)
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.Create(ctx, &tmpl); err != nil {
		return &tmpl, persistFailure(s.metrics, "template", err)
	}
	return &tmpl, nil
}

func (s *planService) ListTemplates(ctx context.Context) ([]domain.BlockTemplate, error) {
	templates, err := s.templateRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

func (s *planService) DeleteTemplate(ctx context.Context, templateID string) error {
	if err := s.templateRepo.Delete(ctx, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("delete template %s: %w", templateID, err)
	}
	return nil
}

func (s *planService) ApplyTemplate(ctx context.Context, planID, templateID string) (*domain.TrainingPlan, error) {
	tmpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get template %s: %w", templateID, err)
	}
	return s.mutate(ctx, planID, func(p *domain.TrainingPlan) error {
		_, err := engine.ApplyTemplate(p, *tmpl)
		return err
	})
}

// === Export ===

type planDocument struct {
	Plan       domain.TrainingPlan `json:"plan"`
	Summary    []string            `json:"summary"`
	ExportedAt time.Time           `json:"exportedAt"`
}

// ExportPlan uploads the plan as JSON with a printable summary and returns
// a temporary download link.
func (s *planService) ExportPlan(ctx context.Context, planID string) (*PlanExport, error) {
	if s.files == nil {
		return nil, ErrExportDisabled
	}
	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc := planDocument{Plan: *plan, Summary: PlanSummary(*plan), ExportedAt: now}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal plan %s: %w", planID, err)
	}

	key := fmt.Sprintf("plans/%s/%s_%s.json", plan.Group, plan.Date, plan.ID)
	if err := s.files.PutObject(ctx, key, "application/json", body); err != nil {
		return nil, fmt.Errorf("export plan %s: %w", planID, err)
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, key, exportURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("export plan %s: %w", planID, err)
	}
	return &PlanExport{Key: key, URL: url, ExpiresAt: now.Add(exportURLExpiry)}, nil
}

// PlanSummary renders a plan as whiteboard lines, e.g. "4x100 Free Moderate @1:30".
func PlanSummary(p domain.TrainingPlan) []string {
	lines := []string{fmt.Sprintf("%s %s", p.Date, p.Group)}
	if p.Focus != "" {
		lines = append(lines, "Focus: "+p.Focus)
	}
	for _, b := range p.Blocks {
		header := string(b.Type)
		if b.Rounds > 1 {
			header = fmt.Sprintf("%s x%d", header, b.Rounds)
		}
		lines = append(lines, fmt.Sprintf("%s (%dm)", header, engine.BlockDistance(b)))
		for _, it := range b.Items {
			line := fmt.Sprintf("  %dx%d %s %s", it.Repeats, it.Distance, it.Stroke, it.Intensity)
			if it.Interval != "" {
				if it.IntervalMode == domain.IntervalModeRest {
					line += " rest " + it.Interval
				} else {
					line += " @" + it.Interval
				}
			}
			if len(it.Equipment) > 0 {
				eq := make([]string, 0, len(it.Equipment))
				for _, e := range it.Equipment {
					eq = append(eq, string(e))
				}
				line += " [" + strings.Join(eq, ", ") + "]"
			}
			if it.Description != "" {
				line += " - " + it.Description
			}
			lines = append(lines, line)
		}
	}
	return append(lines, fmt.Sprintf("Total: %dm", p.TotalDistance))
}
