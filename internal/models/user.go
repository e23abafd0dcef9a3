package models

import (
	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleTenant   Role = "TENANT"
	RoleLandlord Role = "LANDLORD"
)

// User represents a user in the system
type User struct {
	BaseModel
	Email       string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName   string `gorm:"size:100" json:"firstName"`
	LastName    string `gorm:"size:100" json:"lastName"`
	Role        Role   `gorm:"size:20;default:'TENANT'" json:"role"`
	PhoneNumber string `gorm:"size:30" json:"phoneNumber,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	IsVerified  bool   `gorm:"default:false" json:"isVerified"` // landlord verification badge

	// Relations (not always preloaded)
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	Listings      []Listing      `gorm:"foreignKey:LandlordID" json:"-"`
	SavedListings []SavedListing `gorm:"foreignKey:TenantID" json:"-"`
	Reviews       []Review       `gorm:"foreignKey:TenantID" json:"-"`
	SentMessages  []Message      `gorm:"foreignKey:SenderID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Role        Role   `json:"role"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	IsVerified  bool   `json:"isVerified"`
}

// PublicProfile is the projection of a user shown to the other side of a
// conversation. Phone is included only once the owner has revealed it.
type PublicProfile struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Avatar      string `json:"avatar,omitempty"`
	Role        Role   `json:"role"`
	IsVerified  bool   `json:"isVerified"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		PhoneNumber: u.PhoneNumber,
		Avatar:      u.Avatar,
		IsVerified:  u.IsVerified,
	}
}

// Profile creates the public projection of the user. The phone number is
// attached only when revealed is true.
func (u *User) Profile(revealed bool) PublicProfile {
	p := PublicProfile{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Avatar:     u.Avatar,
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}
	if revealed {
		p.PhoneNumber = u.PhoneNumber
	}
	return p
}
