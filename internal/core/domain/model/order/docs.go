// Package order provides the export order aggregate.
//
// The package includes:
//   - Order: the aggregate root holding the customer reference, the order
//     number and the attributes the milestone schedule is derived from
//   - Attributes: trade term, category, packaging, PP-sample flag, creation
//     timestamp and the two possible anchor dates
//   - Status: the Draft -> Active lifecycle
//
// Key business rules:
//   - FOB orders are anchored on the ship date, DDP orders on the warehouse
//     arrival date; Anchor fails with ValueIsRequiredError when it is missing
//   - milestones are generated once, when the order is activated
//   - an approved anchor-change delay request moves the anchor of an active order
package order
