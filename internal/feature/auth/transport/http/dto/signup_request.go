// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// SignupReq represents the request body for the /auth/signup endpoint.
// Name must be present but may be empty. The 72-byte password limit is
// enforced by the usecase, since the max tag counts characters, not bytes.
type SignupReq struct {
	Name     *string `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
}

// DisplayName returns the submitted name, or "" when absent.
func (r SignupReq) DisplayName() string {
	if r.Name == nil {
		return ""
	}
	return *r.Name
}
