package protocol

import (
	"fmt"

	"github.com/gravityledger/gravity-core/model/gravity"
)

// Authorizer holds the immutable binding between roles and caller
// identities. It is built once at genesis and passed by handle to every
// component; there is no ambient global registry. Every mutating entry
// point calls Require as its first step.
type Authorizer struct {
	roles map[gravity.Role]gravity.Identifier
}

// NewAuthorizer creates an authorizer from the given role assignments.
// Every role must be assigned to a non-zero identity.
func NewAuthorizer(assignments map[gravity.Role]gravity.Identifier) (*Authorizer, error) {
	roles := make(map[gravity.Role]gravity.Identifier, len(assignments))
	for _, role := range gravity.Roles() {
		id, ok := assignments[role]
		if !ok {
			return nil, fmt.Errorf("missing identity assignment for role %s", role)
		}
		if id.IsZero() {
			return nil, fmt.Errorf("zero identity assigned to role %s", role)
		}
		roles[role] = id
	}
	return &Authorizer{roles: roles}, nil
}

// Require returns an InvalidCallerError unless the caller holds the role.
func (a *Authorizer) Require(caller gravity.Identifier, role gravity.Role) error {
	if a.roles[role] != caller {
		return InvalidCallerError{Caller: caller, Role: role}
	}
	return nil
}

// Identity returns the identity bound to the given role.
func (a *Authorizer) Identity(role gravity.Role) gravity.Identifier {
	return a.roles[role]
}
