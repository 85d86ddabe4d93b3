package domain

import "fmt"

// Role is the closed set of actor roles. Dispatch on it with an
// exhaustive switch rather than comparing raw strings.
type Role int

// Actor roles.
const (
	RoleCustomer Role = iota
	RoleAdmin
	RoleRider
)

// Actor identifies who performed an operation. It drives the audit trail
// and actor/resource ownership checks, not authorization.
type Actor struct {
	ID   string
	Role Role
}

// Customer returns a customer actor.
func Customer(id string) Actor { return Actor{ID: id, Role: RoleCustomer} }

// Admin returns an admin actor.
func Admin(id string) Actor { return Actor{ID: id, Role: RoleAdmin} }

// RiderActor returns a rider actor.
func RiderActor(id string) Actor { return Actor{ID: id, Role: RoleRider} }

// String returns the wire label for the role.
func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleAdmin:
		return "admin"
	case RoleRider:
		return "rider"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ParseRole maps a wire label onto a role.
func ParseRole(raw string) (Role, bool) {
	switch raw {
	case "customer":
		return RoleCustomer, true
	case "admin":
		return RoleAdmin, true
	case "rider":
		return RoleRider, true
	}
	return 0, false
}
