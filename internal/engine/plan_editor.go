// internal/engine/plan_editor.go
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
)

var newID = uuid.NewString

// Every editor operation works on a copy and only swaps it into the plan once
// Recompute succeeds, so a rejected edit leaves the plan as it was.
func edit(p *domain.TrainingPlan, fn func(next *domain.TrainingPlan) error) error {
	next := p.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := Recompute(&next); err != nil {
		return err
	}
	*p = next
	return nil
}

// PreparePlan validates plan header fields, fills in missing block/item ids,
// defaults the status to Draft and recomputes TotalDistance.
func PreparePlan(p *domain.TrainingPlan) error {
	if p.Status == "" {
		p.Status = domain.PlanDraft
	}
	if err := ValidatePlanHeader(*p); err != nil {
		return err
	}
	return edit(p, func(next *domain.TrainingPlan) error {
		for bi := range next.Blocks {
			assignIDs(&next.Blocks[bi], false)
		}
		return nil
	})
}

func ValidatePlanHeader(p domain.TrainingPlan) error {
	var errs error
	if _, err := time.Parse(domain.DateLayout, p.Date); err != nil {
		errs = multierr.Append(errs, invalid("plan", fmt.Sprintf("date %q is not YYYY-MM-DD", p.Date)))
	}
	if err := p.Group.Validate(); err != nil {
		errs = multierr.Append(errs, invalid("plan", err.Error()))
	}
	if err := p.Status.Validate(); err != nil {
		errs = multierr.Append(errs, invalid("plan", err.Error()))
	}
	for _, clock := range []string{p.StartTime, p.EndTime} {
		if clock == "" {
			continue
		}
		if _, err := time.Parse("15:04", clock); err != nil {
			errs = multierr.Append(errs, invalid("plan", fmt.Sprintf("time %q is not HH:MM", clock)))
		}
	}
	return errs
}

func assignIDs(b *domain.Block, fresh bool) {
	if fresh || strings.TrimSpace(b.ID) == "" {
		b.ID = newID()
	}
	for ii := range b.Items {
		if fresh || strings.TrimSpace(b.Items[ii].ID) == "" {
			b.Items[ii].ID = newID()
		}
	}
}

func findBlock(p *domain.TrainingPlan, blockID string) (int, error) {
	for i := range p.Blocks {
		if p.Blocks[i].ID == blockID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("block %s: %w", blockID, ErrBlockNotFound)
}

func findItem(b *domain.Block, itemID string) (int, error) {
	for i := range b.Items {
		if b.Items[i].ID == itemID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("item %s: %w", itemID, ErrItemNotFound)
}

// AddBlock appends b to the plan and returns the stored block.
func AddBlock(p *domain.TrainingPlan, b domain.Block) (domain.Block, error) {
	err := edit(p, func(next *domain.TrainingPlan) error {
		b = b.Clone()
		assignIDs(&b, false)
		next.Blocks = append(next.Blocks, b)
		return nil
	})
	if err != nil {
		return domain.Block{}, err
	}
	return p.Blocks[len(p.Blocks)-1].Clone(), nil
}

func RemoveBlock(p *domain.TrainingPlan, blockID string) error {
	return edit(p, func(next *domain.TrainingPlan) error {
		idx, err := findBlock(next, blockID)
		if err != nil {
			return err
		}
		next.Blocks = append(next.Blocks[:idx], next.Blocks[idx+1:]...)
		return nil
	})
}

// DuplicateBlock inserts a deep copy with fresh ids right after the source block.
func DuplicateBlock(p *domain.TrainingPlan, blockID string) (domain.Block, error) {
	var at int
	err := edit(p, func(next *domain.TrainingPlan) error {
		idx, err := findBlock(next, blockID)
		if err != nil {
			return err
		}
		dup := next.Blocks[idx].Clone()
		assignIDs(&dup, true)
		at = idx + 1
		next.Blocks = append(next.Blocks[:at], append([]domain.Block{dup}, next.Blocks[at:]...)...)
		return nil
	})
	if err != nil {
		return domain.Block{}, err
	}
	return p.Blocks[at].Clone(), nil
}

func AddItem(p *domain.TrainingPlan, blockID string, it domain.Item) (domain.Item, error) {
	var bi int
	err := edit(p, func(next *domain.TrainingPlan) error {
		idx, err := findBlock(next, blockID)
		if err != nil {
			return err
		}
		bi = idx
		it = it.Clone()
		if strings.TrimSpace(it.ID) == "" {
			it.ID = newID()
		}
		next.Blocks[idx].Items = append(next.Blocks[idx].Items, it)
		return nil
	})
	if err != nil {
		return domain.Item{}, err
	}
	items := p.Blocks[bi].Items
	return items[len(items)-1].Clone(), nil
}

// UpdateItem replaces the item in place, keeping its id.
func UpdateItem(p *domain.TrainingPlan, blockID, itemID string, it domain.Item) (domain.Item, error) {
	var bi, ii int
	err := edit(p, func(next *domain.TrainingPlan) error {
		var err error
		if bi, err = findBlock(next, blockID); err != nil {
			return err
		}
		if ii, err = findItem(&next.Blocks[bi], itemID); err != nil {
			return err
		}
		it = it.Clone()
		it.ID = itemID
		next.Blocks[bi].Items[ii] = it
		return nil
	})
	if err != nil {
		return domain.Item{}, err
	}
	return p.Blocks[bi].Items[ii].Clone(), nil
}

func RemoveItem(p *domain.TrainingPlan, blockID, itemID string) error {
	return edit(p, func(next *domain.TrainingPlan) error {
		bi, err := findBlock(next, blockID)
		if err != nil {
			return err
		}
		ii, err := findItem(&next.Blocks[bi], itemID)
		if err != nil {
			return err
		}
		items := next.Blocks[bi].Items
		next.Blocks[bi].Items = append(items[:ii], items[ii+1:]...)
		return nil
	})
}

// SetSegments replaces an item's segments. With at least one segment the item
// distance becomes the segment sum; clearing segments keeps the last distance
// as the editable base value.
func SetSegments(p *domain.TrainingPlan, blockID, itemID string, segs []domain.Segment) (domain.Item, error) {
	var bi, ii int
	err := edit(p, func(next *domain.TrainingPlan) error {
		var err error
		if bi, err = findBlock(next, blockID); err != nil {
			return err
		}
		if ii, err = findItem(&next.Blocks[bi], itemID); err != nil {
			return err
		}
		if len(segs) == 0 {
			next.Blocks[bi].Items[ii].Segments = nil
		} else {
			next.Blocks[bi].Items[ii].Segments = append([]domain.Segment(nil), segs...)
		}
		return nil
	})
	if err != nil {
		return domain.Item{}, err
	}
	return p.Blocks[bi].Items[ii].Clone(), nil
}

// ApplyTemplate appends a detached copy of the template block with fresh ids.
func ApplyTemplate(p *domain.TrainingPlan, tmpl domain.BlockTemplate) (domain.Block, error) {
	b := tmpl.Block.Clone()
	assignIDs(&b, true)
	return AddBlock(p, b)
}

// TemplateFromBlock snapshots a plan block into a new template. Later edits to
// the plan do not affect the template and vice versa.
func TemplateFromBlock(p domain.TrainingPlan, blockID, name string) (domain.BlockTemplate, error) {
	idx, err := findBlock(&p, blockID)
	if err != nil {
		return domain.BlockTemplate{}, err
	}
	b := p.Blocks[idx].Clone()
	if err := validateBlock(b, "template"); err != nil {
		return domain.BlockTemplate{}, err
	}
	assignIDs(&b, true)
	if strings.TrimSpace(name) == "" {
		name = string(b.Type)
	}
	return domain.BlockTemplate{
		TemplateID: newID(),
		Name:       name,
		Category:   b.Type,
		Block:      b,
	}, nil
}
