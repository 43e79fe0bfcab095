package delay

import (
	"fmt"
	"strings"

	"exportflow/internal/pkg/errs"
)

// ReasonCategory groups delay causes for reporting.
type ReasonCategory int

const (
	UnknownReason ReasonCategory = iota
	ReasonSupplier
	ReasonCustomer
	ReasonProduction
	ReasonLogistics
	ReasonQualityIssue
	ReasonOther
)

var reasonNames = map[ReasonCategory]string{
	ReasonSupplier:     "supplier",
	ReasonCustomer:     "customer",
	ReasonProduction:   "production",
	ReasonLogistics:    "logistics",
	ReasonQualityIssue: "quality_issue",
	ReasonOther:        "other",
}

func ParseReasonCategory(s string) (ReasonCategory, error) {
	for r, name := range reasonNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return UnknownReason, errs.NewValueIsInvalidErrorWithCause("reason category", fmt.Errorf("%q is not a known category", s))
}

func (r ReasonCategory) Validate() error {
	if _, ok := reasonNames[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("reason category", fmt.Errorf("%d is not a known category", r))
	}
	return nil
}

func (r ReasonCategory) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// ApprovalStatus is the decision state of a delay request.
//
//	Pending ──┬──> Approved
//	          └──> Rejected
type ApprovalStatus int

const (
	UnknownApproval ApprovalStatus = iota
	Pending
	Approved
	Rejected
)

var approvalNames = map[ApprovalStatus]string{
	Pending:  "pending",
	Approved: "approved",
	Rejected: "rejected",
}

func (s ApprovalStatus) Validate() error {
	if _, ok := approvalNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("approval status", fmt.Errorf("%d is not a valid approval status", s))
	}
	return nil
}

func (s ApprovalStatus) String() string {
	if name, ok := approvalNames[s]; ok {
		return name
	}
	return "unknown"
}

// decide moves a pending request to target.
func (s ApprovalStatus) decide(target ApprovalStatus) (ApprovalStatus, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"approval status",
			fmt.Errorf("%s requests cannot be %s", s, target),
		)
	}
	return target, nil
}
