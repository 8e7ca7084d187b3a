package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered user in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`            // Never expose password in JSON
	PasswordSalt []byte         `gorm:"not null;type:bytea" json:"-"` // Salt for key derivation
	Name         string         `gorm:"not null" json:"name"`
	Phone        string         `gorm:"type:varchar(50)" json:"phone"`
	Role         string         `gorm:"type:varchar(20);default:'user'" json:"role"` // user, admin
	TokenVersion int            `gorm:"default:0" json:"-"`                          // Increment to invalidate all user tokens

	// Set once the user confirms the verification email; nil means unverified
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`

	// Relationships
	Institutes     []Institute         `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"institutes,omitempty"`
	Shops          []Shop              `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"shops,omitempty"`
	AdminAuditLog  []AdminAuditLog     `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// EmailVerified reports whether the user has confirmed their email
func (u *User) EmailVerified() bool {
	return u.EmailVerifiedAt != nil
}
