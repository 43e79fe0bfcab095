// Package delay provides the delay request aggregate.
//
// A request proposes either a new anchor date for the whole order or a new
// due date for one milestone. It is submitted as Pending and decided once:
// approval runs the delay recalculation engine, rejection only records the
// decision. Requests flagged for external confirmation cannot be approved
// without an evidence reference.
package delay
