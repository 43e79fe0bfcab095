// Package services holds the domain services of the milestone engine. They
// work across the milestones of one order and never touch persistence:
//   - ScheduleCalculator: derives planned and due dates from anchor dates
//   - DependencyGate: decides whether a milestone may start
//   - EvidenceGate: checks the attachment inventory before completion
//   - Transitioner: runs authorization, gates and the status table for one change
//   - DelayRecalculator: re-derives or shifts dates when a delay is approved
//   - NextToAdvance: picks the milestone started automatically after a completion
package services
