// Package jobs provides scheduled background tasks of the export order service.
//
// Jobs are built on github.com/robfig/cron/v3 with a seconds field and UTC
// location.
//
// # Available Jobs
//
//  1. OverdueScanJob - flags milestones that are not done and past their due
//     date by appending OverdueFlagged audit entries. Reminder and escalation
//     systems consume these entries from the event exchange.
//
// # Usage
//
//	scan := jobs.NewOverdueScanJob(flagHandler, clock, cfg.OverdueScanSchedule, metrics, logger)
//	jobManager := jobs.NewJobManager(scan)
//
//	if err := jobManager.StartAll(); err != nil {
//		return fmt.Errorf("start jobs: %w", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and retried on the next tick. The scan is
// idempotent, so a missed or repeated run never duplicates entries.
package jobs
