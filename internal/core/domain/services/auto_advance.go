package services

import (
	"slices"

	"exportflow/internal/core/domain/model/milestone"
)

// NextToAdvance returns the NotStarted milestone that is started
// automatically after a completion: the earliest by due date, then planned
// date, then position. position gives the catalog order of a step.
// It returns nil when nothing is waiting.
func NextToAdvance(all []*milestone.Milestone, position func(milestone.StepKey) int) *milestone.Milestone {
	var candidates []*milestone.Milestone
	for _, m := range all {
		if m.Status() == milestone.NotStarted {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	return slices.MinFunc(candidates, func(a, b *milestone.Milestone) int {
		if c := a.DueAt().Compare(b.DueAt()); c != 0 {
			return c
		}
		if c := a.PlannedAt().Compare(b.PlannedAt()); c != 0 {
			return c
		}
		return position(a.Step()) - position(b.Step())
	})
}
