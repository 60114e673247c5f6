package domain

// Role enumerates account roles. The set is closed: any role outside it is
// denied by the authorization layer.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
	RoleClient   Role = "CLIENT"
)

// AllRoles lists every known role.
var AllRoles = []Role{RoleAdmin, RoleManager, RoleEmployee, RoleClient}

var roleRank = map[Role]int{
	RoleClient:   1,
	RoleEmployee: 2,
	RoleManager:  3,
	RoleAdmin:    4,
}

// Valid reports whether the role belongs to the known set.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether the role ranks at or above the given minimum.
// Unknown roles never satisfy any minimum.
func (r Role) AtLeast(min Role) bool {
	rr, ok := roleRank[r]
	if !ok {
		return false
	}
	mr, ok := roleRank[min]
	if !ok {
		return false
	}
	return rr >= mr
}
