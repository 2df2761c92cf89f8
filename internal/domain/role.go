package domain

// Role is the organisational role of an employee. It drives default approval chains
// and route permissions.
type Role string

const (
	RoleEmployee           Role = "EMPLOYEE"
	RoleManager            Role = "MANAGER"
	RoleDepartmentDirector Role = "DEPARTMENT_DIRECTOR"
	RoleExecutive          Role = "EXECUTIVE"
	RoleHR                 Role = "HR"
	RoleAdmin              Role = "ADMIN"
)

var AllRoles = []Role{
	RoleEmployee,
	RoleManager,
	RoleDepartmentDirector,
	RoleExecutive,
	RoleHR,
	RoleAdmin,
}

func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// CanOverride reports whether the role may act on other employees' requests
// (cancel on behalf, read any request).
func (r Role) CanOverride() bool {
	return r == RoleHR || r == RoleAdmin
}

// Actor is the authenticated caller as established by the auth middleware.
type Actor struct {
	ID        string
	CompanyID string
	Role      Role
}
