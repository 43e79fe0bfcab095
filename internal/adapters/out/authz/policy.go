// Package authz resolves actor capabilities from configured role sets.
package authz

import (
	"context"
	"errors"

	"exportflow/internal/core/domain/model/kernel"
)

// RolePolicy grants Administrator to actors whose role is in the admin set,
// and ApproveDelays to admins and to the delay approver set. The system
// actor holds every capability.
type RolePolicy struct {
	admins    map[kernel.Role]struct{}
	approvers map[kernel.Role]struct{}
}

// NewRolePolicy normalizes the configured role names.
//
// Example:
//
//	policy, err := authz.NewRolePolicy([]string{"admin"}, []string{"merchandiser_lead"})
func NewRolePolicy(adminRoles, delayApproverRoles []string) (*RolePolicy, error) {
	admins, adminErr := roleSet(adminRoles)
	approvers, approverErr := roleSet(delayApproverRoles)
	if err := errors.Join(adminErr, approverErr); err != nil {
		return nil, err
	}
	return &RolePolicy{
		admins:    admins,
		approvers: approvers,
	}, nil
}

// Resolve implements ports.AuthorizationPolicy.
func (p *RolePolicy) Resolve(_ context.Context, actor kernel.Actor) (kernel.Capability, error) {
	if err := actor.Validate(); err != nil {
		return kernel.Capability{}, err
	}
	if actor.IsSystem() {
		return kernel.SystemCapability(), nil
	}

	_, admin := p.admins[actor.Role()]
	_, approver := p.approvers[actor.Role()]
	return kernel.Capability{
		Administrator: admin,
		ApproveDelays: admin || approver,
	}, nil
}

func roleSet(names []string) (map[kernel.Role]struct{}, error) {
	set := make(map[kernel.Role]struct{}, len(names))
	var errs []error
	for _, name := range names {
		role, err := kernel.NewRole(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if role == kernel.RoleSystem {
			continue
		}
		set[role] = struct{}{}
	}
	return set, errors.Join(errs...)
}
