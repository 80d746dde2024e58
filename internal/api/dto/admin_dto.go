package dto

// AdminSignupRequest payload for new administrators.
type AdminSignupRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

// AdminUpdateRequest lists the profile fields an administrator may change.
type AdminUpdateRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Username  *string `json:"username"`
}

// AdminAuthResponse is returned by admin login.
type AdminAuthResponse struct {
	Admin any    `json:"admin"`
	Token string `json:"token"`
}
