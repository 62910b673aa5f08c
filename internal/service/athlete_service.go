package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/engine"
	"github.com/duorhuang/aquaflow-pro/internal/metrics"
	"github.com/duorhuang/aquaflow-pro/internal/repository"
)

// SwimmerInput carries the coach-editable fields of a swimmer. Gamification
// state (xp, level, streak, last check-in) is only changed by CheckIn and AdjustXP.
type SwimmerInput struct {
	ID         string // optional on create, assigned when empty
	Name       string
	Group      domain.Group
	Status     domain.SwimmerStatus
	Readiness  int
	Username   string
	Password   string // empty keeps the current password
	MainStroke domain.Stroke
	BestTimes  map[string]string
	Injuries   []string
	InjuryNote string
}

// ProfileInput is what an athlete may change about themself.
type ProfileInput struct {
	Readiness  *int
	BestTimes  map[string]string
	Injuries   []string
	InjuryNote string
}

type AthleteService interface {
	AddSwimmer(ctx context.Context, in SwimmerInput) (*domain.Swimmer, error)
	GetSwimmer(ctx context.Context, swimmerID string) (*domain.Swimmer, error)
	ListSwimmers(ctx context.Context) ([]domain.Swimmer, error)
	UpdateSwimmer(ctx context.Context, swimmerID string, in SwimmerInput) (*domain.Swimmer, error)
	UpdateProfile(ctx context.Context, swimmerID string, in ProfileInput) (*domain.Swimmer, error)
	DeleteSwimmer(ctx context.Context, swimmerID string) error

	// CheckIn records today's attendance and advances streak, xp and level.
	// A second call on the same day is a no-op with Applied == false.
	CheckIn(ctx context.Context, swimmerID string) (*engine.CheckInResult, error)
	AdjustXP(ctx context.Context, swimmerID string, delta int) (*domain.Swimmer, error)
	ListAttendance(ctx context.Context, swimmerID string) ([]domain.AttendanceRecord, error)
}

// athleteService implements the AthleteService interface.
type athleteService struct {
	swimmerRepo    repository.SwimmerRepository
	planRepo       repository.PlanRepository
	attendanceRepo repository.AttendanceRepository
	metrics        *metrics.Manager
	now            Clock
	loc            *time.Location
}

func NewAthleteService(
	swimmerRepo repository.SwimmerRepository,
	planRepo repository.PlanRepository,
	attendanceRepo repository.AttendanceRepository,
	m *metrics.Manager,
	now Clock,
	loc *time.Location,
) AthleteService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &athleteService{
		swimmerRepo:    swimmerRepo,
		planRepo:       planRepo,
		attendanceRepo: attendanceRepo,
		metrics:        m,
		now:            now,
		loc:            loc,
	}
}

func (s *athleteService) getSwimmer(ctx context.Context, swimmerID string) (*domain.Swimmer, error) {
	sw, err := s.swimmerRepo.GetByID(ctx, swimmerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSwimmerNotFound
		}
		return nil, fmt.Errorf("get swimmer %s: %w", swimmerID, err)
	}
	return sw, nil
}

func validateSwimmerInput(in SwimmerInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name is required: %w", engine.ErrInvalidInput)
	}
	if err := in.Group.Validate(); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), engine.ErrInvalidInput)
	}
	if err := in.Status.Validate(); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), engine.ErrInvalidInput)
	}
	if err := validateReadiness(in.Readiness); err != nil {
		return err
	}
	if in.MainStroke != "" {
		if err := in.MainStroke.Validate(); err != nil {
			return fmt.Errorf("%s: %w", err.Error(), engine.ErrInvalidInput)
		}
	}
	return nil
}

func validateReadiness(r int) error {
	if r < 0 || r > 100 {
		return fmt.Errorf("readiness must be between 0 and 100, got %d: %w", r, engine.ErrInvalidInput)
	}
	return nil
}

func (s *athleteService) AddSwimmer(ctx context.Context, in SwimmerInput) (*domain.Swimmer, error) {
	if in.Status == "" {
		in.Status = domain.SwimmerActive
	}
	if err := validateSwimmerInput(in); err != nil {
		return nil, err
	}

	sw := &domain.Swimmer{
		ID:         strings.TrimSpace(in.ID),
		Name:       strings.TrimSpace(in.Name),
		Group:      in.Group,
		Status:     in.Status,
		Readiness:  in.Readiness,
		Username:   strings.TrimSpace(in.Username),
		MainStroke: in.MainStroke,
		BestTimes:  in.BestTimes,
		Injuries:   in.Injuries,
		InjuryNote: in.InjuryNote,
		XP:         0,
		Level:      engine.Level(0),
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrHashingFailed
		}
		sw.PasswordHash = string(hash)
	}

	if err := s.swimmerRepo.Create(ctx, sw); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.duplicateCause(ctx, in.ID)
		}
		return sw, persistFailure(s.metrics, "swimmer", err)
	}
	log.Infof("added swimmer %s (%s, %s)", sw.ID, sw.Name, sw.Group)
	return sw, nil
}

// duplicateCause tells an id clash from a username clash after Create
// reported a duplicate key.
func (s *athleteService) duplicateCause(ctx context.Context, requestedID string) error {
	if id := strings.TrimSpace(requestedID); id != "" {
		if _, err := s.swimmerRepo.GetByID(ctx, id); err == nil {
			return ErrSwimmerExists
		}
	}
	return ErrUsernameTaken
}

func (s *athleteService) GetSwimmer(ctx context.Context, swimmerID string) (*domain.Swimmer, error) {
	return s.getSwimmer(ctx, swimmerID)
}

func (s *athleteService) ListSwimmers(ctx context.Context) ([]domain.Swimmer, error) {
	swimmers, err := s.swimmerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list swimmers: %w", err)
	}
	return swimmers, nil
}

func (s *athleteService) saveSwimmer(ctx context.Context, sw *domain.Swimmer) (*domain.Swimmer, error) {
	if err := s.swimmerRepo.Update(ctx, sw); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrSwimmerNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUsernameTaken
		}
		return sw, persistFailure(s.metrics, "swimmer", err)
	}
	return sw, nil
}

// UpdateSwimmer overwrites the profile fields and keeps the gamification state.
func (s *athleteService) UpdateSwimmer(ctx context.Context, swimmerID string, in SwimmerInput) (*domain.Swimmer, error) {
	sw, err := s.getSwimmer(ctx, swimmerID)
	if err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = sw.Status
	}
	if err := validateSwimmerInput(in); err != nil {
		return nil, err
	}

	sw.Name = strings.TrimSpace(in.Name)
	sw.Group = in.Group
	sw.Status = in.Status
	sw.Readiness = in.Readiness
	sw.Username = strings.TrimSpace(in.Username)
	sw.MainStroke = in.MainStroke
	sw.BestTimes = in.BestTimes
	sw.Injuries = in.Injuries
	sw.InjuryNote = in.InjuryNote
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrHashingFailed
		}
		sw.PasswordHash = string(hash)
	}
	sw.Level = engine.Level(sw.XP)
	return s.saveSwimmer(ctx, sw)
}

// UpdateProfile applies an athlete's self-reported check-in form.
func (s *athleteService) UpdateProfile(ctx context.Context, swimmerID string, in ProfileInput) (*domain.Swimmer, error) {
	sw, err := s.getSwimmer(ctx, swimmerID)
	if err != nil {
		return nil, err
	}
	if in.Readiness != nil {
		if err := validateReadiness(*in.Readiness); err != nil {
			return nil, err
		}
		sw.Readiness = *in.Readiness
	}
	if in.BestTimes != nil {
		if sw.BestTimes == nil {
			sw.BestTimes = make(map[string]string, len(in.BestTimes))
		}
		for event, t := range in.BestTimes {
			if err := domain.SwimEvent(event).Validate(); err != nil {
				return nil, fmt.Errorf("%s: %w", err.Error(), engine.ErrInvalidInput)
			}
			if t == "" {
				delete(sw.BestTimes, event)
				continue
			}
			sw.BestTimes[event] = t
		}
	}
	if in.Injuries != nil {
		sw.Injuries = in.Injuries
	}
	sw.InjuryNote = in.InjuryNote
	now := s.now().UTC()
	sw.LastProfileUpdate = &now
	return s.saveSwimmer(ctx, sw)
}

func (s *athleteService) DeleteSwimmer(ctx context.Context, swimmerID string) error {
	if err := s.swimmerRepo.Delete(ctx, swimmerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSwimmerNotFound
		}
		return fmt.Errorf("delete swimmer %s: %w", swimmerID, err)
	}
	return nil
}

// CheckIn computes the new state first and then persists the attendance
// record before the swimmer. If the swimmer write fails the attendance record
// stays, so a retry on the same day is a no-op rather than a double award.
func (s *athleteService) CheckIn(ctx context.Context, swimmerID string) (*engine.CheckInResult, error) {
	sw, err := s.getSwimmer(ctx, swimmerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := engine.Today(now, s.loc)

	checkedIn := false
	if _, err := s.attendanceRepo.GetBySwimmerAndDate(ctx, sw.ID, today); err == nil {
		checkedIn = true
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check attendance for %s: %w", sw.ID, err)
	}

	plans, err := s.planRepo.ListByGroup(ctx, sw.Group)
	if err != nil {
		return nil, fmt.Errorf("list %s plans: %w", sw.Group, err)
	}

	res, err := engine.CheckIn(*sw, today, checkedIn, plans, now.UTC())
	if err != nil {
		return nil, err
	}
	if !res.Applied {
		log.Debugf("swimmer %s already checked in on %s", sw.ID, today)
		return &res, nil
	}

	if err := s.attendanceRepo.Create(ctx, res.Attendance); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// a concurrent check-in won the race
			return &engine.CheckInResult{Swimmer: *sw}, nil
		}
		return &res, persistFailure(s.metrics, "attendance", err)
	}
	if err := s.swimmerRepo.Update(ctx, &res.Swimmer); err != nil {
		return &res, persistFailure(s.metrics, "swimmer", err)
	}

	s.metrics.CounterCheckIns.Inc()
	s.metrics.CounterXPAwarded.Add(float64(res.XPGained))
	log.Infof("swimmer %s checked in on %s: streak %d, +%d xp, level %d",
		sw.ID, today, res.Swimmer.CurrentStreak, res.XPGained, res.Swimmer.Level)
	return &res, nil
}

func (s *athleteService) AdjustXP(ctx context.Context, swimmerID string, delta int) (*domain.Swimmer, error) {
	sw, err := s.getSwimmer(ctx, swimmerID)
	if err != nil {
		return nil, err
	}
	adjusted := engine.AdjustXP(*sw, delta)
	log.Infof("adjusting xp of swimmer %s by %d: %d -> %d", sw.ID, delta, sw.XP, adjusted.XP)
	return s.saveSwimmer(ctx, &adjusted)
}

// ListAttendance returns the records of one swimmer, or of everyone when swimmerID is empty.
func (s *athleteService) ListAttendance(ctx context.Context, swimmerID string) ([]domain.AttendanceRecord, error) {
	var (
		records []domain.AttendanceRecord
		err     error
	)
	if swimmerID == "" {
		records, err = s.attendanceRepo.List(ctx)
	} else {
		records, err = s.attendanceRepo.ListBySwimmer(ctx, swimmerID)
	}
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}
