package repository

import (
	"context"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
)

//go:generate mockgen -source=repository.go -destination=mocks/repository_mock.go -package=mocks

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// SwimmerRepository defines the interface for interacting with athlete data.
// Create assigns an id when the swimmer has none. Usernames are unique.
type SwimmerRepository interface {
	Create(ctx context.Context, swimmer *domain.Swimmer) error
	GetByID(ctx context.Context, id string) (*domain.Swimmer, error)
	GetByUsername(ctx context.Context, username string) (*domain.Swimmer, error) // case-insensitive
	List(ctx context.Context) ([]domain.Swimmer, error)
	Update(ctx context.Context, swimmer *domain.Swimmer) error
	Delete(ctx context.Context, id string) error
}

// PlanRepository defines the interface for interacting with training plan data.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) error
	GetByID(ctx context.Context, id string) (*domain.TrainingPlan, error)
	List(ctx context.Context) ([]domain.TrainingPlan, error)
	ListByGroup(ctx context.Context, group domain.Group) ([]domain.TrainingPlan, error)
	Update(ctx context.Context, plan *domain.TrainingPlan) error
	Delete(ctx context.Context, id string) error
}

// TemplateRepository stores reusable block templates.
type TemplateRepository interface {
	Create(ctx context.Context, tmpl *domain.BlockTemplate) error
	GetByID(ctx context.Context, id string) (*domain.BlockTemplate, error)
	List(ctx context.Context) ([]domain.BlockTemplate, error)
	Delete(ctx context.Context, id string) error
}

// AttendanceRepository is append only. Create returns ErrDuplicate when the
// swimmer already has a record for that date.
type AttendanceRepository interface {
	Create(ctx context.Context, rec *domain.AttendanceRecord) error
	List(ctx context.Context) ([]domain.AttendanceRecord, error)
	ListBySwimmer(ctx context.Context, swimmerID string) ([]domain.AttendanceRecord, error)
	GetBySwimmerAndDate(ctx context.Context, swimmerID, date string) (*domain.AttendanceRecord, error)
}

// PerformanceRepository is append only. Lists are returned in insertion order.
type PerformanceRepository interface {
	Create(ctx context.Context, rec *domain.PerformanceRecord) error
	List(ctx context.Context) ([]domain.PerformanceRecord, error)
	ListBySwimmer(ctx context.Context, swimmerID string) ([]domain.PerformanceRecord, error)
	ListBySwimmerAndEvent(ctx context.Context, swimmerID string, event domain.SwimEvent) ([]domain.PerformanceRecord, error)
}

// FeedbackRepository is append only.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *domain.Feedback) error
	List(ctx context.Context) ([]domain.Feedback, error)
	ListByPlan(ctx context.Context, planID string) ([]domain.Feedback, error)
}

// Store bundles one repository per collection.
type Store struct {
	Swimmers     SwimmerRepository
	Plans        PlanRepository
	Templates    TemplateRepository
	Attendance   AttendanceRepository
	Performances PerformanceRepository
	Feedback     FeedbackRepository
}
