package vendoractivo

// ChangeRoleRequest is the body of PATCH /vendedoractivo/{id}/rol.
type ChangeRoleRequest struct {
	NuevoRol Role `json:"nuevoRol"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
