package milestone

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"exportflow/internal/pkg/errs"
)

// Status is the execution state of a milestone.
//
//	NotStarted ──> InProgress ──> Done
//	     │            ▲   │
//	     │            │   ▼
//	     └────────> Blocked
//
// Done is terminal.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	NotStarted
	InProgress
	Blocked
	Done
)

// transitions is the legal-transition table. Targets are listed in the order
// they are reported to clients.
var transitions = map[Status][]Status{
	NotStarted: {InProgress, Blocked},
	InProgress: {Blocked, Done},
	Blocked:    {InProgress},
	Done:       {},
}

var statusNames = map[Status]string{
	NotStarted: "not_started",
	InProgress: "in_progress",
	Blocked:    "blocked",
	Done:       "done",
}

// ParseStatus accepts the snake_case names used by the HTTP API.
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// AllowedTargets lists the statuses s may move to.
func (s Status) AllowedTargets() []Status {
	return slices.Clone(transitions[s])
}

// CanTransitionTo reports whether s -> target is in the transition table.
func (s Status) CanTransitionTo(target Status) bool {
	return slices.Contains(transitions[s], target)
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	targets, ok := transitions[s]
	return ok && len(targets) == 0
}

// TransitionTo returns target when the move is legal.
//
// Returns:
//   - (target, nil) for a legal move
//   - (0, *TransitionNotAllowedError) otherwise, naming the allowed targets
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	if !s.CanTransitionTo(target) {
		return 0, NewTransitionNotAllowedError(s, target)
	}
	return target, nil
}

// ErrTransitionNotAllowed is the sentinel wrapped by TransitionNotAllowedError.
var ErrTransitionNotAllowed = errors.New("transition not allowed")

// TransitionNotAllowedError reports an illegal status change.
type TransitionNotAllowedError struct {
	From    Status
	To      Status
	Allowed []Status
}

func NewTransitionNotAllowedError(from, to Status) *TransitionNotAllowedError {
	return &TransitionNotAllowedError{
		From:    from,
		To:      to,
		Allowed: from.AllowedTargets(),
	}
}

func (e *TransitionNotAllowedError) Error() string {
	allowed := "none"
	if len(e.Allowed) > 0 {
		names := make([]string, 0, len(e.Allowed))
		for _, s := range e.Allowed {
			names = append(names, s.String())
		}
		allowed = strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s: %s -> %s (allowed: %s)", ErrTransitionNotAllowed, e.From, e.To, allowed)
}

func (e *TransitionNotAllowedError) Unwrap() error {
	return ErrTransitionNotAllowed
}
