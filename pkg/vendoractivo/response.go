package vendoractivo

import "time"

// Role is the wire value of a record's role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleVendor Role = "vendedor"
	RoleUser   Role = "usuario"
)

// Assignable reports whether the console may set this role on a record.
// Admin is never set or cleared from the console.
func (r Role) Assignable() bool {
	return r == RoleVendor || r == RoleUser
}

// Toggled returns the opposite assignable role. Anything that is not a
// vendor becomes a vendor.
func (r Role) Toggled() Role {
	if r == RoleVendor {
		return RoleUser
	}
	return RoleVendor
}

// Record is one vendor/user entity as served by the backend.
type Record struct {
	ID           string    `json:"_id"`
	DisplayName  string    `json:"nombre"`
	Email        string    `json:"email"`
	Role         Role      `json:"rol"`
	ContactPhone *string   `json:"whatsapp"`
	Verified     bool      `json:"isVerified"`
	IsFrozen     bool      `json:"isFrozen"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Pagination mirrors the backend pagination block of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ListResponse is the payload of GET /vendedoractivo.
type ListResponse struct {
	Success    bool       `json:"success"`
	Data       []Record   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// FreezeResult is the confirmed freeze state after a toggle.
type FreezeResult struct {
	IsFrozen bool `json:"isFrozen"`
}

type freezeResponse struct {
	Data FreezeResult `json:"data"`
}

// RoleResult is the confirmed role after a role change.
type RoleResult struct {
	Role Role `json:"rol"`
}

type roleResponse struct {
	Data RoleResult `json:"data"`
}

// User is the authenticated account returned by the login endpoint.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Role  Role   `json:"rol"`
}

// LoginResponse is the payload of POST /auth/login.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}
