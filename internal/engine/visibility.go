// internal/engine/visibility.go
package engine

import (
	"sort"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
)

// VisiblePlans returns every plan ordered starred first, then by date with
// the most recent first. Ties keep their input order. The input is not modified.
func VisiblePlans(plans []domain.TrainingPlan) []domain.TrainingPlan {
	out := make([]domain.TrainingPlan, len(plans))
	copy(out, plans)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsStarred != out[j].IsStarred {
			return out[i].IsStarred
		}
		return out[i].Date > out[j].Date
	})
	return out
}

// NotesFor strips the targeted notes of every swimmer except swimmerID.
func NotesFor(p domain.TrainingPlan, swimmerID string) domain.TrainingPlan {
	out := p.Clone()
	out.TargetedNotes = nil
	if note, ok := p.TargetedNotes[swimmerID]; ok {
		out.TargetedNotes = map[string]string{swimmerID: note}
	}
	return out
}
