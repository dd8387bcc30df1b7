package entity

// Role is the role claim carried by the identity provider session.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "gestor"
	RoleSeller  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleSeller
}

type Permission string

const (
	PermissionPatientRead  Permission = "patients.read"
	PermissionPatientWrite Permission = "patients.write"
	PermissionSellerRead   Permission = "sellers.read"
	PermissionSellerWrite  Permission = "sellers.write"
	PermissionClinicWrite  Permission = "clinics.write"
	PermissionReportRead   Permission = "reports.read"
)

var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionPatientRead,
		PermissionPatientWrite,
		PermissionSellerRead,
		PermissionSellerWrite,
		PermissionClinicWrite,
		PermissionReportRead,
	},
	RoleManager: {
		PermissionPatientRead,
		PermissionPatientWrite,
		PermissionSellerRead,
		PermissionSellerWrite,
		PermissionReportRead,
	},
	RoleSeller: {
		PermissionPatientRead,
		PermissionPatientWrite,
		PermissionSellerRead,
		PermissionReportRead,
	},
}

func (r Role) HasPermission(permission Permission) bool {
	for _, p := range RolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}

// Session is what the identity provider tells us about the caller.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}
