package entity

// Role names as stored in users.role and carried in token claims.
const (
	RoleAdmin      = "admin"
	RoleDoctor     = "medico"
	RolePatient    = "paciente"
	RolePharmacist = "farmaceutico"
)

// ProfileRoles are the roles that own a 1:1 profile row.
var ProfileRoles = []string{RoleDoctor, RolePatient, RolePharmacist}

// IsValidRole reports whether role is one of the known role names.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RolePatient, RolePharmacist:
		return true
	}
	return false
}

// HasProfile reports whether users with this role are expected to own a profile row.
func HasProfile(role string) bool {
	return role == RoleDoctor || role == RolePatient || role == RolePharmacist
}
