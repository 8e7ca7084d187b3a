package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Shop represents a commercial listing in the directory. It shares the
// approval lifecycle and media layout of Institute so the media migration
// utility can process both categories with the same rules.
type Shop struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"not null;index" json:"name"`
	Category    string `gorm:"type:varchar(100)" json:"category"`
	Description string `gorm:"type:text" json:"description"`

	Location string `gorm:"type:varchar(255);not null" json:"location"`
	Address  string `gorm:"type:varchar(255)" json:"address"`
	City     string `gorm:"type:varchar(100);not null;index" json:"city"`
	Province string `gorm:"type:varchar(100);not null" json:"province"`

	Phone   string `gorm:"type:varchar(50)" json:"phone"`
	Email   string `gorm:"type:varchar(255)" json:"email"`
	Website string `gorm:"type:varchar(255)" json:"website"`

	Logo    string                      `gorm:"type:varchar(500)" json:"logo"`
	Banner  string                      `gorm:"type:varchar(500)" json:"banner"`
	Gallery datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"gallery"`

	OwnerID    uint   `gorm:"not null;index" json:"owner_id"`
	OwnerName  string `gorm:"type:varchar(255)" json:"owner_name"`
	OwnerEmail string `gorm:"type:varchar(255)" json:"owner_email"`
	OwnerPhone string `gorm:"type:varchar(50)" json:"owner_phone"`
	AgentID    string `gorm:"type:varchar(100);index" json:"agent_id"`

	Verified       bool       `gorm:"default:false" json:"verified"`
	ApprovalStatus string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"approval_status"`
	ApprovalNotes  string     `gorm:"type:text" json:"approval_notes"`
	ApprovedByID   *uint      `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`

	Rating       float64 `gorm:"default:4.5" json:"rating"`
	TotalReviews int     `gorm:"default:0" json:"total_reviews"`

	// Relationships
	Owner User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
}

// TableName specifies the table name for Shop
func (Shop) TableName() string {
	return "shops"
}

// Approve transitions the shop from pending to approved
func (s *Shop) Approve(adminID uint, notes string, now time.Time) error {
	if s.ApprovalStatus != ApprovalPending {
		return ErrDecisionAlreadyMade
	}
	s.ApprovalStatus = ApprovalApproved
	s.ApprovalNotes = notes
	s.ApprovedByID = &adminID
	s.ApprovedAt = &now
	return nil
}

// Reject transitions the shop from pending to rejected
func (s *Shop) Reject(adminID uint, notes string, now time.Time) error {
	if s.ApprovalStatus != ApprovalPending {
		return ErrDecisionAlreadyMade
	}
	s.ApprovalStatus = ApprovalRejected
	s.ApprovalNotes = notes
	s.ApprovedByID = &adminID
	s.ApprovedAt = &now
	return nil
}

// PubliclyVisible reports whether the shop may appear in public listings
func (s *Shop) PubliclyVisible() bool {
	return s.ApprovalStatus == ApprovalApproved
}
