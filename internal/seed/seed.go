// Package seed loads a team and its plans from a YAML fixture through the
// services, so every derived field is computed the normal way.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/service"
)

//go:embed default.yaml
var defaultFixture []byte

type Fixture struct {
	Swimmers []Swimmer `yaml:"swimmers"`
	Plans    []Plan    `yaml:"plans"`
}

type Swimmer struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Group      string            `yaml:"group"`
	Status     string            `yaml:"status"`
	Readiness  int               `yaml:"readiness"`
	Username   string            `yaml:"username"`
	Password   string            `yaml:"password"`
	MainStroke string            `yaml:"mainStroke"`
	BestTimes  map[string]string `yaml:"bestTimes"`
	Injuries   []string          `yaml:"injuries"`
	InjuryNote string            `yaml:"injuryNote"`
	XP         int               `yaml:"xp"`
}

// Plan is dated either absolutely with Date or relative to today with DaysAgo.
type Plan struct {
	Date          string            `yaml:"date"`
	DaysAgo       int               `yaml:"daysAgo"`
	StartTime     string            `yaml:"startTime"`
	EndTime       string            `yaml:"endTime"`
	Group         string            `yaml:"group"`
	Status        string            `yaml:"status"`
	Focus         string            `yaml:"focus"`
	CoachNotes    string            `yaml:"coachNotes"`
	TargetedNotes map[string]string `yaml:"targetedNotes"`
	Starred       bool              `yaml:"starred"`
	Blocks        []Block           `yaml:"blocks"`
}

type Block struct {
	Type   string `yaml:"type"`
	Rounds int    `yaml:"rounds"`
	Note   string `yaml:"note"`
	Items  []Item `yaml:"items"`
}

type Item struct {
	Repeats      int       `yaml:"repeats"`
	Distance     int       `yaml:"distance"`
	Stroke       string    `yaml:"stroke"`
	Intensity    string    `yaml:"intensity"`
	Description  string    `yaml:"description"`
	Equipment    []string  `yaml:"equipment"`
	IntervalMode string    `yaml:"intervalMode"`
	Interval     string    `yaml:"interval"`
	Segments     []Segment `yaml:"segments"`
}

type Segment struct {
	Distance    int    `yaml:"distance"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// Default returns the built-in demo team.
func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

func Load(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

type Result struct {
	Swimmers int
	Skipped  int
	Plans    int
}

// Apply creates the fixture's swimmers and plans. Swimmers whose id or
// username already exists are skipped, so re-seeding a store is harmless
// for swimmers. Plans are always added.
func Apply(ctx context.Context, f *Fixture, athletes service.AthleteService, plans service.PlanService, today time.Time) (Result, error) {
	var res Result
	for _, s := range f.Swimmers {
		if s.ID != "" {
			if _, err := athletes.GetSwimmer(ctx, s.ID); err == nil {
				res.Skipped++
				continue
			}
		}
		sw, err := athletes.AddSwimmer(ctx, s.input())
		if errors.Is(err, service.ErrUsernameTaken) || errors.Is(err, service.ErrSwimmerExists) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed swimmer %q: %w", s.Name, err)
		}
		if s.XP > 0 {
			if _, err := athletes.AdjustXP(ctx, sw.ID, s.XP); err != nil {
				return res, fmt.Errorf("seed xp of %q: %w", s.Name, err)
			}
		}
		res.Swimmers++
	}

	for i, p := range f.Plans {
		plan, err := plans.CreatePlan(ctx, p.input(today))
		if err != nil {
			return res, fmt.Errorf("seed plan %d: %w", i+1, err)
		}
		if p.Starred {
			if _, err := plans.ToggleStar(ctx, plan.ID); err != nil {
				return res, fmt.Errorf("seed plan %d: %w", i+1, err)
			}
		}
		res.Plans++
	}
	log.Infof("seeded %d swimmers (%d skipped) and %d plans", res.Swimmers, res.Skipped, res.Plans)
	return res, nil
}

func (s Swimmer) input() service.SwimmerInput {
	return service.SwimmerInput{
		ID:         s.ID,
		Name:       s.Name,
		Group:      domain.Group(s.Group),
		Status:     domain.SwimmerStatus(s.Status),
		Readiness:  s.Readiness,
		Username:   s.Username,
		Password:   s.Password,
		MainStroke: domain.Stroke(s.MainStroke),
		BestTimes:  s.BestTimes,
		Injuries:   s.Injuries,
		InjuryNote: s.InjuryNote,
	}
}

func (p Plan) input(today time.Time) service.PlanInput {
	date := p.Date
	if date == "" {
		date = today.AddDate(0, 0, -p.DaysAgo).Format(domain.DateLayout)
	}
	in := service.PlanInput{
		Date:          date,
		StartTime:     p.StartTime,
		EndTime:       p.EndTime,
		Group:         domain.Group(p.Group),
		Focus:         p.Focus,
		Status:        domain.PlanStatus(p.Status),
		CoachNotes:    p.CoachNotes,
		TargetedNotes: p.TargetedNotes,
	}
	for _, b := range p.Blocks {
		block := domain.Block{Type: domain.BlockType(b.Type), Rounds: b.Rounds, Note: b.Note}
		for _, it := range b.Items {
			item := domain.Item{
				Repeats:      it.Repeats,
				Distance:     it.Distance,
				Stroke:       domain.Stroke(it.Stroke),
				Intensity:    domain.Intensity(it.Intensity),
				Description:  it.Description,
				IntervalMode: domain.IntervalMode(it.IntervalMode),
				Interval:     it.Interval,
			}
			for _, e := range it.Equipment {
				item.Equipment = append(item.Equipment, domain.Equipment(e))
			}
			for _, seg := range it.Segments {
				item.Segments = append(item.Segments, domain.Segment{
					Distance:    seg.Distance,
					Type:        domain.SegmentType(seg.Type),
					Description: seg.Description,
				})
			}
			block.Items = append(block.Items, item)
		}
		in.Blocks = append(in.Blocks, block)
	}
	return in
}
