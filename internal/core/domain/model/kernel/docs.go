// Package kernel provides the primitives shared by every aggregate of the
// export order domain.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - business-day calendar: weekday checks and date arithmetic that skips
//     Saturdays and Sundays, used for every planned and due date
//   - Role and Actor: the responsible department of a milestone and the
//     authenticated user (or the system) performing an operation
//
// All dates are calendar dates held as time.Time at midnight UTC.
package kernel
