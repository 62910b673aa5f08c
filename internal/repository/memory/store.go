package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/repository"
)

// NewStore returns an empty in-memory store.
func NewStore() *repository.Store {
	now := func() time.Time { return time.Now().UTC() }
	return &repository.Store{
		Swimmers:     &swimmerRepository{c: newCollection(domain.Swimmer.Clone), now: now},
		Plans:        &planRepository{c: newCollection(domain.TrainingPlan.Clone), now: now},
		Templates:    &templateRepository{c: newCollection(domain.BlockTemplate.Clone), now: now},
		Attendance:   &attendanceRepository{c: newCollection[domain.AttendanceRecord](nil)},
		Performances: &performanceRepository{c: newCollection(clonePerformance), now: now},
		Feedback:     &feedbackRepository{c: newCollection[domain.Feedback](nil)},
	}
}

func clonePerformance(r domain.PerformanceRecord) domain.PerformanceRecord {
	if r.Improvement != nil {
		v := *r.Improvement
		r.Improvement = &v
	}
	return r
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// --- swimmers ---

type swimmerRepository struct {
	c   *collection[domain.Swimmer]
	now func() time.Time
}

func usernameTaken(username string) func(domain.Swimmer) bool {
	return func(existing domain.Swimmer) bool {
		return username != "" && strings.EqualFold(existing.Username, username)
	}
}

func (r *swimmerRepository) Create(ctx context.Context, s *domain.Swimmer) error {
	ensureID(&s.ID)
	now := r.now()
	s.CreatedAt, s.UpdatedAt = now, now
	return r.c.insert(s.ID, *s, usernameTaken(s.Username))
}

func (r *swimmerRepository) GetByID(ctx context.Context, id string) (*domain.Swimmer, error) {
	s, err := r.c.get(id)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *swimmerRepository) GetByUsername(ctx context.Context, username string) (*domain.Swimmer, error) {
	if username == "" {
		return nil, repository.ErrNotFound
	}
	s, err := r.c.find(usernameTaken(username))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *swimmerRepository) List(ctx context.Context) ([]domain.Swimmer, error) {
	return r.c.list(nil), nil
}

func (r *swimmerRepository) Update(ctx context.Context, s *domain.Swimmer) error {
	s.UpdatedAt = r.now()
	return r.c.replace(s.ID, *s, usernameTaken(s.Username))
}

func (r *swimmerRepository) Delete(ctx context.Context, id string) error {
	return r.c.remove(id)
}

// --- plans ---

type planRepository struct {
	c   *collection[domain.TrainingPlan]
	now func() time.Time
}

func (r *planRepository) Create(ctx context.Context, p *domain.TrainingPlan) error {
	ensureID(&p.ID)
	now := r.now()
	p.CreatedAt, p.UpdatedAt = now, now
	return r.c.insert(p.ID, *p, nil)
}

func (r *planRepository) GetByID(ctx context.Context, id string) (*domain.TrainingPlan, error) {
	p, err := r.c.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *planRepository) List(ctx context.Context) ([]domain.TrainingPlan, error) {
	return r.c.list(nil), nil
}

func (r *planRepository) ListByGroup(ctx context.Context, group domain.Group) ([]domain.TrainingPlan, error) {
	return r.c.list(func(p domain.TrainingPlan) bool { return p.Group == group }), nil
}

func (r *planRepository) Update(ctx context.Context, p *domain.TrainingPlan) error {
	p.UpdatedAt = r.now()
	return r.c.replace(p.ID, *p, nil)
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	return r.c.remove(id)
}

// --- templates ---

type templateRepository struct {
	c   *collection[domain.BlockTemplate]
	now func() time.Time
}

func (r *templateRepository) Create(ctx context.Context, t *domain.BlockTemplate) error {
	ensureID(&t.TemplateID)
	t.CreatedAt = r.now()
	return r.c.insert(t.TemplateID, *t, nil)
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.BlockTemplate, error) {
	t, err := r.c.get(id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *templateRepository) List(ctx context.Context) ([]domain.BlockTemplate, error) {
	return r.c.list(nil), nil
}

func (r *templateRepository) Delete(ctx context.Context, id string) error {
	return r.c.remove(id)
}

// --- attendance ---

type attendanceRepository struct {
	c *collection[domain.AttendanceRecord]
}

func (r *attendanceRepository) Create(ctx context.Context, rec *domain.AttendanceRecord) error {
	ensureID(&rec.ID)
	return r.c.insert(rec.ID, *rec, func(existing domain.AttendanceRecord) bool {
		return existing.SwimmerID == rec.SwimmerID && existing.Date == rec.Date
	})
}

func (r *attendanceRepository) List(ctx context.Context) ([]domain.AttendanceRecord, error) {
	return r.c.list(nil), nil
}

func (r *attendanceRepository) ListBySwimmer(ctx context.Context, swimmerID string) ([]domain.AttendanceRecord, error) {
	return r.c.list(func(a domain.AttendanceRecord) bool { return a.SwimmerID == swimmerID }), nil
}

func (r *attendanceRepository) GetBySwimmerAndDate(ctx context.Context, swimmerID, date string) (*domain.AttendanceRecord, error) {
	rec, err := r.c.find(func(a domain.AttendanceRecord) bool {
		return a.SwimmerID == swimmerID && a.Date == date
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// --- performances ---

type performanceRepository struct {
	c   *collection[domain.PerformanceRecord]
	now func() time.Time
}

func (r *performanceRepository) Create(ctx context.Context, rec *domain.PerformanceRecord) error {
	ensureID(&rec.ID)
	rec.CreatedAt = r.now()
	return r.c.insert(rec.ID, *rec, nil)
}

func (r *performanceRepository) List(ctx context.Context) ([]domain.PerformanceRecord, error) {
	return r.c.list(nil), nil
}

func (r *performanceRepository) ListBySwimmer(ctx context.Context, swimmerID string) ([]domain.PerformanceRecord, error) {
	return r.c.list(func(p domain.PerformanceRecord) bool { return p.SwimmerID == swimmerID }), nil
}

func (r *performanceRepository) ListBySwimmerAndEvent(ctx context.Context, swimmerID string, event domain.SwimEvent) ([]domain.PerformanceRecord, error) {
	return r.c.list(func(p domain.PerformanceRecord) bool {
		return p.SwimmerID == swimmerID && p.Event == event
	}), nil
}

// --- feedback ---

type feedbackRepository struct {
	c *collection[domain.Feedback]
}

func (r *feedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	ensureID(&fb.ID)
	return r.c.insert(fb.ID, *fb, nil)
}

func (r *feedbackRepository) List(ctx context.Context) ([]domain.Feedback, error) {
	return r.c.list(nil), nil
}

func (r *feedbackRepository) ListByPlan(ctx context.Context, planID string) ([]domain.Feedback, error) {
	return r.c.list(func(f domain.Feedback) bool { return f.PlanID == planID }), nil
}
