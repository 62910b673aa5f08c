// internal/domain/training_plan.go
package domain

import (
	"fmt"
	"time"
)

// PlanStatus tracks the authoring lifecycle of a plan.
type PlanStatus string

const (
	PlanDraft     PlanStatus = "Draft"
	PlanPublished PlanStatus = "Published"
	PlanFinalized PlanStatus = "Finalized"
)

func (s PlanStatus) Validate() error {
	switch s {
	case PlanDraft, PlanPublished, PlanFinalized:
		return nil
	default:
		return fmt.Errorf("unsupported plan status %q", string(s))
	}
}

// BlockType is the phase of a session a block belongs to.
type BlockType string

const (
	BlockWarmup   BlockType = "Warmup"
	BlockPreSet   BlockType = "Pre-Set"
	BlockMainSet  BlockType = "Main Set"
	BlockDrillSet BlockType = "Drill Set"
	BlockCoolDown BlockType = "Cool Down"
)

func (t BlockType) Validate() error {
	switch t {
	case BlockWarmup, BlockPreSet, BlockMainSet, BlockDrillSet, BlockCoolDown:
		return nil
	default:
		return fmt.Errorf("unsupported block type %q", string(t))
	}
}

type Stroke string

const (
	StrokeFree   Stroke = "Free"
	StrokeBack   Stroke = "Back"
	StrokeBreast Stroke = "Breast"
	StrokeFly    Stroke = "Fly"
	StrokeIM     Stroke = "IM"
	StrokeChoice Stroke = "Choice"
)

func (s Stroke) Validate() error {
	switch s {
	case StrokeFree, StrokeBack, StrokeBreast, StrokeFly, StrokeIM, StrokeChoice:
		return nil
	default:
		return fmt.Errorf("unsupported stroke %q", string(s))
	}
}

type Intensity string

const (
	IntensityLow      Intensity = "Low"
	IntensityModerate Intensity = "Moderate"
	IntensityHigh     Intensity = "High"
	IntensityRacePace Intensity = "RacePace"
)

func (i Intensity) Validate() error {
	switch i {
	case IntensityLow, IntensityModerate, IntensityHigh, IntensityRacePace:
		return nil
	default:
		return fmt.Errorf("unsupported intensity %q", string(i))
	}
}

type Equipment string

const (
	EquipmentFins      Equipment = "Fins"
	EquipmentPaddles   Equipment = "Paddles"
	EquipmentSnorkel   Equipment = "Snorkel"
	EquipmentKickboard Equipment = "Kickboard"
	EquipmentPullbuoy  Equipment = "Pullbuoy"
)

func (e Equipment) Validate() error {
	switch e {
	case EquipmentFins, EquipmentPaddles, EquipmentSnorkel, EquipmentKickboard, EquipmentPullbuoy:
		return nil
	default:
		return fmt.Errorf("unsupported equipment %q", string(e))
	}
}

type SegmentType string

const (
	SegmentSwim  SegmentType = "Swim"
	SegmentKick  SegmentType = "Kick"
	SegmentDrill SegmentType = "Drill"
)

func (t SegmentType) Validate() error {
	switch t {
	case SegmentSwim, SegmentKick, SegmentDrill:
		return nil
	default:
		return fmt.Errorf("unsupported segment type %q", string(t))
	}
}

// IntervalMode says whether Item.Interval is a send-off ("Interval") or a rest period ("Rest").
type IntervalMode string

const (
	IntervalModeInterval IntervalMode = "Interval"
	IntervalModeRest     IntervalMode = "Rest"
)

// Segment is a sub-breakdown of a single item (e.g. 25 kick / 25 swim).
type Segment struct {
	Distance    int         `bson:"distance" json:"distance"`
	Type        SegmentType `bson:"type" json:"type"`
	Description string      `bson:"description,omitempty" json:"description,omitempty"`
}

// Item is one prescribed swim within a block, e.g. 4x100 Free.
// When Segments is non-empty, Distance is the segment sum.
type Item struct {
	ID           string       `bson:"id" json:"id"`
	Repeats      int          `bson:"repeats" json:"repeats"`
	Distance     int          `bson:"distance" json:"distance"` // meters
	Stroke       Stroke       `bson:"stroke" json:"stroke"`
	Intensity    Intensity    `bson:"intensity" json:"intensity"`
	Description  string       `bson:"description,omitempty" json:"description,omitempty"`
	Equipment    []Equipment  `bson:"equipment,omitempty" json:"equipment"`
	Segments     []Segment    `bson:"segments,omitempty" json:"segments,omitempty"`
	IntervalMode IntervalMode `bson:"intervalMode,omitempty" json:"intervalMode,omitempty"`
	Interval     string       `bson:"interval,omitempty" json:"interval,omitempty"` // e.g. "1:30"
}

func (it Item) Clone() Item {
	out := it
	if it.Equipment != nil {
		out.Equipment = append([]Equipment(nil), it.Equipment...)
	}
	if it.Segments != nil {
		out.Segments = append([]Segment(nil), it.Segments...)
	}
	return out
}

// HasEquipment reports whether the item uses the given piece of equipment.
func (it Item) HasEquipment(e Equipment) bool {
	for _, have := range it.Equipment {
		if have == e {
			return true
		}
	}
	return false
}

// Block is a named phase of a plan; Rounds multiplies every contained item.
type Block struct {
	ID     string    `bson:"id" json:"id"`
	Type   BlockType `bson:"type" json:"type"`
	Rounds int       `bson:"rounds" json:"rounds"`
	Items  []Item    `bson:"items" json:"items"`
	Note   string    `bson:"note,omitempty" json:"note,omitempty"`
}

func (b Block) Clone() Block {
	out := b
	if b.Items != nil {
		out.Items = make([]Item, len(b.Items))
		for i, it := range b.Items {
			out.Items[i] = it.Clone()
		}
	}
	return out
}

// TrainingPlan is one session for one group on one day.
// TotalDistance is a cached value kept equal to the aggregate of Blocks.
type TrainingPlan struct {
	ID            string            `bson:"_id" json:"id"`
	Date          string            `bson:"date" json:"date"`                               // YYYY-MM-DD
	StartTime     string            `bson:"startTime,omitempty" json:"startTime,omitempty"` // HH:MM
	EndTime       string            `bson:"endTime,omitempty" json:"endTime,omitempty"`     // HH:MM
	Group         Group             `bson:"group" json:"group"`
	Blocks        []Block           `bson:"blocks" json:"blocks"`
	TotalDistance int               `bson:"totalDistance" json:"totalDistance"`
	Focus         string            `bson:"focus,omitempty" json:"focus,omitempty"`
	Status        PlanStatus        `bson:"status" json:"status"`
	CoachNotes    string            `bson:"coachNotes,omitempty" json:"coachNotes,omitempty"`
	TargetedNotes map[string]string `bson:"targetedNotes,omitempty" json:"targetedNotes,omitempty"` // swimmer id -> private note
	IsStarred     bool              `bson:"isStarred" json:"isStarred"`
	CreatedAt     time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time         `bson:"updatedAt" json:"updatedAt"`
}

func (p TrainingPlan) Clone() TrainingPlan {
	out := p
	if p.Blocks != nil {
		out.Blocks = make([]Block, len(p.Blocks))
		for i, b := range p.Blocks {
			out.Blocks[i] = b.Clone()
		}
	}
	if p.TargetedNotes != nil {
		out.TargetedNotes = make(map[string]string, len(p.TargetedNotes))
		for k, v := range p.TargetedNotes {
			out.TargetedNotes[k] = v
		}
	}
	return out
}
