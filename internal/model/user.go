package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an authenticated user in the system
type User struct {
	BaseModel
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string      `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FullName     string      `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	PhoneNumber  string      `gorm:"type:varchar(20)" json:"phone_number"`
	RoleID       *uint       `gorm:"index" json:"role_id"`
	Role         *Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive     bool        `gorm:"default:true" json:"is_active"`
	Privileges   []Privilege `gorm:"many2many:user_privileges;" json:"privileges,omitempty"`
	TokenVersion string      `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
	LastSeenAt   *time.Time  `json:"last_seen_at,omitempty"`                // For user presence
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// HasPrivilege reports whether the user holds a privilege, either
// directly or through their role.
func (u *User) HasPrivilege(code string) bool {
	for _, p := range u.Privileges {
		if p.Code == code {
			return true
		}
	}
	if u.Role != nil {
		for _, p := range u.Role.Privileges {
			if p.Code == code {
				return true
			}
		}
	}
	return false
}

// GetPrivilegeCodes returns the deduplicated privilege codes granted to
// this user, merging direct grants with the role's privileges. Role
// privilege changes take effect on the next token issue without
// re-copying grants onto the user.
func (u *User) GetPrivilegeCodes() []string {
	seen := make(map[string]bool, len(u.Privileges))
	codes := make([]string, 0, len(u.Privileges))
	appendCodes := func(privileges []Privilege) {
		for _, p := range privileges {
			if !seen[p.Code] {
				seen[p.Code] = true
				codes = append(codes, p.Code)
			}
		}
	}
	appendCodes(u.Privileges)
	if u.Role != nil {
		appendCodes(u.Role.Privileges)
	}
	return codes
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	PhoneNumber string      `json:"phone_number"`
	RoleID      *uint       `json:"role_id,omitempty"`
	Role        *Role       `json:"role,omitempty"`
	IsActive    bool        `json:"is_active"`
	LastSeenAt  *time.Time  `json:"last_seen_at,omitempty"`
	Privileges  []Privilege `json:"privileges"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		RoleID:      u.RoleID,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastSeenAt:  u.LastSeenAt,
		Privileges:  u.Privileges,
	}
}
