package dto

// UserSignupRequest payload for new users.
type UserSignupRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNo     string `json:"phoneNo" validate:"required"`
	CompanyName string `json:"companyName" validate:"required"`
	Position    string `json:"position"`
	Password    string `json:"password" validate:"required"`
}

// LoginRequest payload shared by user and admin login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdateRequest lists the profile fields a user may change. Any other
// field in the body is ignored.
type UserUpdateRequest struct {
	FullName    *string `json:"fullName"`
	PhoneNo     *string `json:"phoneNo"`
	CompanyName *string `json:"companyName"`
	Position    *string `json:"position"`
}

// PasswordUpdateRequest payload for password changes.
type PasswordUpdateRequest struct {
	Password string `json:"password" validate:"required"`
}

// UserAuthResponse is returned by user login.
type UserAuthResponse struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}
