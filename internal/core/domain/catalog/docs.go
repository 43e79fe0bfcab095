// Package catalog holds the fixed milestone template catalog of the garment
// export process: seventeen checkpoints from PO confirmation to payment, their
// responsible roles, the predecessor graph that gates progress, the offset
// rules the schedule is derived from and the required-document table.
//
// The catalog is compiled into the binary and validated when first used;
// it is not configurable at runtime.
package catalog
