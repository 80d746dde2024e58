package domain

import "time"

// Admin is an administrator who manages products, locations and quotes.
type Admin struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Tokens       []string  `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AdminProfileUpdate lists the admin fields a profile update may touch.
// Nil fields are left unchanged.
type AdminProfileUpdate struct {
	FirstName *string
	LastName  *string
	Username  *string
}

// Empty reports whether the update carries no field.
func (u AdminProfileUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Username == nil
}

// Apply copies the set fields onto admin.
func (u AdminProfileUpdate) Apply(admin *Admin) {
	if u.FirstName != nil {
		admin.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		admin.LastName = *u.LastName
	}
	if u.Username != nil {
		admin.Username = *u.Username
	}
}
