package model

// AdminLoginRequest is the payload for admin authentication. There is a
// single shared admin password and no user name.
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required,max=128"`
}
