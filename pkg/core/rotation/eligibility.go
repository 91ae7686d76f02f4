package rotation

import (
	"github.com/pventura/congregation-admin/pkg/core/catalog"
	"github.com/pventura/congregation-admin/pkg/core/model"
)

// Eligible reports whether a member qualifies for a duty slot: the
// member's flag for the base function is set and any gender requirement
// on the catalog entry is satisfied. Pure; history never enters into it.
func Eligible(m *model.Member, fn catalog.FunctionKey) bool {
	f, ok := catalog.Lookup(fn)
	if !ok {
		return false
	}
	if !m.EligibleFor(f.Base) {
		return false
	}
	if f.RequiresGender != "" && m.Gender != f.RequiresGender {
		return false
	}
	return true
}
