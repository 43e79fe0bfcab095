// Package milestone provides the milestone entity, its status state machine
// and the audit log entries produced when milestones change.
//
// The package includes:
//   - StepKey: the closed set of checkpoint identifiers
//   - Definition: template facts copied onto each generated milestone
//   - Milestone: dates, status, notes and the optimistic-concurrency version
//   - Status: NotStarted, InProgress, Blocked and Done with the legal-transition table
//   - LogEntry: append-only audit records
//
// Milestone.ChangeStatus only checks transition legality. Authorization,
// predecessor gating and evidence checks are applied by the domain services
// before it is called.
package milestone
