// Package access holds the caller identity handed over by the gateway and the
// read-visibility rules derived from it.
package access

import "strings"

type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleSeller        Role = "Seller"
)

// ParseRole matches case-insensitively; unknown roles yield "".
func ParseRole(s string) Role {
	switch {
	case strings.EqualFold(s, string(RoleAdministrator)):
		return RoleAdministrator
	case strings.EqualFold(s, string(RoleSeller)):
		return RoleSeller
	default:
		return ""
	}
}

// Actor is an already-authenticated caller.
type Actor struct {
	ID   string
	Name string
	Role Role
}

func (a Actor) IsAdministrator() bool { return a.Role == RoleAdministrator }

// CanViewSale reports whether the actor may see an order recorded for sellerID.
func (a Actor) CanViewSale(sellerID string) bool {
	return a.IsAdministrator() || (a.ID != "" && a.ID == sellerID)
}
