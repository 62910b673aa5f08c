// internal/engine/distance.go
package engine

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
)

// ItemDistance is the distance of one item across all its repeats.
// Segments, when present, override the item's own distance.
func ItemDistance(it domain.Item) int {
	base := it.Distance
	if len(it.Segments) > 0 {
		base = SegmentSum(it.Segments)
	}
	return base * it.Repeats
}

func SegmentSum(segs []domain.Segment) int {
	sum := 0
	for _, s := range segs {
		sum += s.Distance
	}
	return sum
}

// BlockDistance is the item subtotal multiplied by the block's rounds.
func BlockDistance(b domain.Block) int {
	sub := 0
	for _, it := range b.Items {
		sub += ItemDistance(it)
	}
	return sub * b.Rounds
}

// TotalDistance sums every block. No blocks means zero meters.
func TotalDistance(blocks []domain.Block) int {
	total := 0
	for _, b := range blocks {
		total += BlockDistance(b)
	}
	return total
}

// ValidateBlocks reports every structural problem in blocks at once.
func ValidateBlocks(blocks []domain.Block) error {
	var errs error
	for bi, b := range blocks {
		errs = multierr.Append(errs, validateBlock(b, fmt.Sprintf("block %d", bi+1)))
	}
	return errs
}

func validateBlock(b domain.Block, where string) error {
	var errs error
	if err := b.Type.Validate(); err != nil {
		errs = multierr.Append(errs, invalid(where, err.Error()))
	}
	if b.Rounds < 1 {
		errs = multierr.Append(errs, invalid(where, fmt.Sprintf("rounds must be at least 1, got %d", b.Rounds)))
	}
	for ii, it := range b.Items {
		errs = multierr.Append(errs, validateItem(it, fmt.Sprintf("%s item %d", where, ii+1)))
	}
	return errs
}

func validateItem(it domain.Item, where string) error {
	var errs error
	if it.Repeats < 1 {
		errs = multierr.Append(errs, invalid(where, fmt.Sprintf("repeats must be at least 1, got %d", it.Repeats)))
	}
	if it.Distance < 0 {
		errs = multierr.Append(errs, invalid(where, fmt.Sprintf("distance must not be negative, got %d", it.Distance)))
	}
	if err := it.Stroke.Validate(); err != nil {
		errs = multierr.Append(errs, invalid(where, err.Error()))
	}
	if err := it.Intensity.Validate(); err != nil {
		errs = multierr.Append(errs, invalid(where, err.Error()))
	}
	for _, e := range it.Equipment {
		if err := e.Validate(); err != nil {
			errs = multierr.Append(errs, invalid(where, err.Error()))
		}
	}
	switch it.IntervalMode {
	case "", domain.IntervalModeInterval, domain.IntervalModeRest:
	default:
		errs = multierr.Append(errs, invalid(where, fmt.Sprintf("unsupported interval mode %q", string(it.IntervalMode))))
	}
	for si, s := range it.Segments {
		errs = multierr.Append(errs, validateSegment(s, fmt.Sprintf("%s segment %d", where, si+1)))
	}
	return errs
}

func validateSegment(s domain.Segment, where string) error {
	var errs error
	if s.Distance < 0 {
		errs = multierr.Append(errs, invalid(where, fmt.Sprintf("distance must not be negative, got %d", s.Distance)))
	}
	if err := s.Type.Validate(); err != nil {
		errs = multierr.Append(errs, invalid(where, err.Error()))
	}
	return errs
}

func invalid(where, msg string) error {
	return fmt.Errorf("%s: %s: %w", where, msg, ErrInvalidInput)
}

// Recompute validates the plan's blocks, re-syncs segmented item distances
// and rewrites the cached TotalDistance. The plan is left untouched on error.
func Recompute(p *domain.TrainingPlan) error {
	if err := ValidateBlocks(p.Blocks); err != nil {
		return err
	}
	for bi := range p.Blocks {
		for ii := range p.Blocks[bi].Items {
			it := &p.Blocks[bi].Items[ii]
			if len(it.Segments) > 0 {
				it.Distance = SegmentSum(it.Segments)
			}
		}
	}
	p.TotalDistance = TotalDistance(p.Blocks)
	return nil
}
