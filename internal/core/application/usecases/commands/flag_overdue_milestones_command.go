package commands

import (
	"errors"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/errs"
	"exportflow/internal/pkg/guard"
)

var ErrFlagOverdueMilestonesCommandIsNotConstructed = errors.New(
	"FlagOverdueMilestonesCommand must be created via NewFlagOverdueMilestonesCommand constructor",
)

// FlagOverdueMilestonesCommand records an audit entry for every milestone
// that is past due as of a given day.
type FlagOverdueMilestonesCommand struct {
	today time.Time
	guard guard.ConstructorGuard
}

func NewFlagOverdueMilestonesCommand(today time.Time) (FlagOverdueMilestonesCommand, error) {
	if today.IsZero() {
		return FlagOverdueMilestonesCommand{}, errs.NewValueIsRequiredError("today")
	}
	return FlagOverdueMilestonesCommand{
		today: kernel.DateOf(today),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c FlagOverdueMilestonesCommand) Validate() error {
	return c.guard.Validate(ErrFlagOverdueMilestonesCommandIsNotConstructed)
}

func (c FlagOverdueMilestonesCommand) Today() time.Time { return c.today }
