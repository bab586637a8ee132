package auth

// Capability is a named permission checked against a requester's identity.
type Capability string

// CapabilityCreateOrEditOrDelete guards every contact inbox operation:
// listing, marking as read and deleting messages.
const CapabilityCreateOrEditOrDelete Capability = "create_or_edit_or_delete"

// Identity describes an authenticated requester. A nil *Identity means
// the requester is unauthenticated.
type Identity struct {
	UserID        int64
	Username      string
	MayAdminister bool
}

// Authorizer decides whether an identity holds a capability. Services
// depend on this single method and know nothing about the policy rules.
type Authorizer interface {
	HasCapability(identity *Identity, capability Capability) bool
}

// Policy is the default authorizer: administrators hold every capability,
// everyone else holds none.
type Policy struct{}

// NewPolicy creates the default policy.
func NewPolicy() *Policy {
	return &Policy{}
}

// HasCapability reports whether identity holds the capability.
func (p *Policy) HasCapability(identity *Identity, capability Capability) bool {
	if identity == nil {
		return false
	}

	switch capability {
	case CapabilityCreateOrEditOrDelete:
		return identity.MayAdminister
	default:
		return false
	}
}
