package user

import "time"

type Role string

const (
	RoleStudent       Role = "student"        // Marked, never marks
	RoleTutor         Role = "tutor"          // Marks and edits, cannot delete
	RoleNursingHead   Role = "nursing_head"   // Ward supervisor
	RoleHospitalAdmin Role = "hospital_admin" // Hospital-side administrator
	RolePrincipal     Role = "principal"      // College principal
)

// AllRoles lists every known role in hierarchy order.
var AllRoles = []Role{RoleStudent, RoleTutor, RoleNursingHead, RoleHospitalAdmin, RolePrincipal}

func (r Role) IsValid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Role Role
}

type Profile struct {
	ID           string
	Email        string
	FullName     string
	Role         Role
	Department   *string
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor returns the identity used for authorization decisions.
func (p Profile) Actor() Actor {
	return Actor{ID: p.ID, Role: p.Role}
}
