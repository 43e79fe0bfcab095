package order

import (
	"fmt"

	"exportflow/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	Draft ──> Active
//
// Milestones are generated exactly once, on the Draft -> Active transition.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	// Draft orders are editable and have no milestones yet.
	Draft

	// Active orders carry their full milestone set.
	Active
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown: "Unknown",
		Draft:   "Draft",
		Active:  "Active",
	}
}

// Validate rejects Unknown and out-of-range values, e.g. a corrupt column.
func (s Status) Validate() error {
	if s != Draft && s != Active {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Activate transitions Draft to Active.
//
// Returns:
//   - (Active, nil) from Draft
//   - (0, error) from any other status, so activating twice fails
func (s Status) Activate() (Status, error) {
	if s != Draft {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to activate", s.String()),
		)
	}
	return Active, nil
}
