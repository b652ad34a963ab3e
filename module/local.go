package module

import (
	"github.com/gravityledger/gravity-core/model/gravity"
)

// Local encapsulates the identity a component presents when calling
// role-gated entry points.
type Local interface {
	Identity() gravity.Identifier
}

type local struct {
	id gravity.Identifier
}

// NewLocal wraps an identifier as a Local identity.
func NewLocal(id gravity.Identifier) Local {
	return local{id: id}
}

func (l local) Identity() gravity.Identifier {
	return l.id
}
