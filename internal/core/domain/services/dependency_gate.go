package services

import (
	"exportflow/internal/core/domain/model/milestone"
)

// GateResult is the outcome of a dependency check. BlockingStep names the
// first required predecessor that is not done.
type GateResult struct {
	Allowed      bool
	BlockingStep *milestone.StepKey
}

// Err returns a DependencyViolationError for a refused gate and nil otherwise.
func (r GateResult) Err(step milestone.StepKey) error {
	if r.Allowed || r.BlockingStep == nil {
		return nil
	}
	return NewDependencyViolationError(step, *r.BlockingStep)
}

// DependencyGate checks the predecessor graph of an order.
//
// A milestone may enter InProgress only when every predecessor that is
// present in the order's milestone set and marked required is Done.
// Predecessors missing from the set (excluded for the order) and optional
// predecessors never block.
type DependencyGate struct{}

// NewDependencyGate creates a DependencyGate.
func NewDependencyGate() DependencyGate {
	return DependencyGate{}
}

// CanEnterInProgress checks m against the order's milestones.
//
// Parameters:
//   - m: the milestone about to start
//   - all: every milestone of the same order (m may be included)
//
// Returns:
//   - GateResult: Allowed, or the first blocking predecessor in m's declared order
func (g DependencyGate) CanEnterInProgress(m *milestone.Milestone, all []*milestone.Milestone) GateResult {
	byStep := make(map[milestone.StepKey]*milestone.Milestone, len(all))
	for _, other := range all {
		if other.OrderID().IsEqual(m.OrderID()) {
			byStep[other.Step()] = other
		}
	}

	for _, p := range m.Predecessors() {
		pred, ok := byStep[p]
		if !ok || !pred.IsRequired() {
			continue
		}
		if pred.Status() != milestone.Done {
			blocking := p
			return GateResult{BlockingStep: &blocking}
		}
	}
	return GateResult{Allowed: true}
}
