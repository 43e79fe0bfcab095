package kernel

// Capability is what an actor may do beyond its own role. It is resolved once
// per request by the authorization policy.
type Capability struct {
	// Administrator may act on any milestone regardless of its role.
	Administrator bool
	// ApproveDelays may approve or reject delay requests.
	ApproveDelays bool
}

// SystemCapability is granted to the system actor.
func SystemCapability() Capability {
	return Capability{Administrator: true, ApproveDelays: true}
}

// CanActAs reports whether actor may act on work owned by role.
func (c Capability) CanActAs(actor Actor, role Role) bool {
	return c.Administrator || actor.IsSystem() || actor.Role() == role
}
