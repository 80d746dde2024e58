package domain

import "time"

// User is a marketplace customer who browses products and places orders.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PhoneNo      string    `json:"phoneNo"`
	CompanyName  string    `json:"companyName"`
	Position     string    `json:"position,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"-"`
	Tokens       []string  `json:"-"`
	SoftDeleted  bool      `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserProfileUpdate lists the user fields a profile update may touch.
type UserProfileUpdate struct {
	FullName    *string
	PhoneNo     *string
	CompanyName *string
	Position    *string
	Avatar      *string
}

// Empty reports whether the update carries no field.
func (u UserProfileUpdate) Empty() bool {
	return u.FullName == nil && u.PhoneNo == nil && u.CompanyName == nil && u.Position == nil && u.Avatar == nil
}

// Apply copies the set fields onto user.
func (u UserProfileUpdate) Apply(user *User) {
	if u.FullName != nil {
		user.FullName = *u.FullName
	}
	if u.PhoneNo != nil {
		user.PhoneNo = *u.PhoneNo
	}
	if u.CompanyName != nil {
		user.CompanyName = *u.CompanyName
	}
	if u.Position != nil {
		user.Position = *u.Position
	}
	if u.Avatar != nil {
		user.Avatar = *u.Avatar
	}
}
