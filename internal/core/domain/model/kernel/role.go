package kernel

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"exportflow/internal/pkg/errs"
	"exportflow/internal/pkg/guard"
)

// Role is a department or job function. Milestones name the role responsible
// for them; actors carry the role issued in their access token.
type Role string

const (
	RoleMerchandiser Role = "merchandiser"
	RoleFinance      Role = "finance"
	RoleProcurement  Role = "procurement"
	RoleProduction   Role = "production"
	RoleQC           Role = "qc"
	RoleLogistics    Role = "logistics"
	RoleWarehouse    Role = "warehouse"

	// RoleSystem is carried by the system actor only.
	RoleSystem Role = "system"
)

var responsibleRoles = []Role{
	RoleMerchandiser,
	RoleFinance,
	RoleProcurement,
	RoleProduction,
	RoleQC,
	RoleLogistics,
	RoleWarehouse,
}

// ResponsibleRoles lists the roles a milestone can be assigned to.
func ResponsibleRoles() []Role {
	return slices.Clone(responsibleRoles)
}

// NewRole normalizes s to a lower-case role name.
func NewRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate rejects empty role names and names containing whitespace.
func (r Role) Validate() error {
	if r == "" {
		return errs.NewValueIsRequiredError("role")
	}
	if strings.ContainsAny(string(r), " \t\n") {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q contains whitespace", string(r)))
	}
	return nil
}

// IsResponsible reports whether milestones can be assigned to r.
func (r Role) IsResponsible() bool {
	return slices.Contains(responsibleRoles, r)
}

func (r Role) String() string {
	return string(r)
}

// SystemActorID identifies automated changes in the audit log.
const SystemActorID = "system"

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor is the authenticated user (or the system) performing an operation.
type Actor struct {
	id    string
	name  string
	role  Role
	guard guard.ConstructorGuard
}

// NewActor validates the identity taken from an access token.
func NewActor(id, name string, role Role) (Actor, error) {
	if strings.TrimSpace(id) == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor id")
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{
		id:    id,
		name:  name,
		role:  role,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// SystemActor is used for automatic advancement and scheduled jobs.
func SystemActor() Actor {
	return Actor{
		id:    SystemActorID,
		name:  "System",
		role:  RoleSystem,
		guard: guard.NewConstructorGuard(),
	}
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) ID() string   { return a.id }
func (a Actor) Name() string { return a.name }
func (a Actor) Role() Role   { return a.role }

// IsSystem reports whether a is the system actor.
func (a Actor) IsSystem() bool {
	return a.id == SystemActorID && a.role == RoleSystem
}
