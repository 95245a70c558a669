package domain

import "time"

const (
	RoleIndividual  = "individual"
	RoleBusiness    = "business"
	RoleEducational = "educational"
	RoleRecycler    = "recycler"
	// RoleAdmin is a virtual role: the admin is never a stored user row, it
	// is resolved by credential match against injected configuration.
	RoleAdmin = "admin"
)

// SubmitterRoles are the roles allowed to submit recycling requests.
var SubmitterRoles = []string{RoleIndividual, RoleBusiness, RoleEducational}

// IsSubmitterRole reports whether role may submit recycling requests.
func IsSubmitterRole(role string) bool {
	for _, r := range SubmitterRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsRegistrableRole reports whether role can be assigned at registration.
// Admin is excluded: it is a configured identity, not a row.
func IsRegistrableRole(role string) bool {
	return IsSubmitterRole(role) || role == RoleRecycler
}

// User models a registered actor in the system. Role is fixed at creation.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Identity is the tagged caller identity passed into every lifecycle
// operation: either a stored user with a role, or the configured admin.
// Dispatch on IsAdmin instead of comparing ids against sentinel strings.
type Identity struct {
	admin  bool
	userID string
	role   string
}

// UserIdentity returns the identity of a stored user.
func UserIdentity(userID, role string) Identity {
	return Identity{userID: userID, role: role}
}

// AdminIdentity returns the virtual admin identity.
func AdminIdentity() Identity {
	return Identity{admin: true, role: RoleAdmin}
}

// IsAdmin reports whether this is the virtual admin identity.
func (i Identity) IsAdmin() bool { return i.admin }

// UserID returns the stored user id, or "" for the admin identity.
func (i Identity) UserID() string { return i.userID }

// Role returns the caller's role.
func (i Identity) Role() string { return i.role }
