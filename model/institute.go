package model

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Directory domains an institute can belong to
const (
	DomainEducation  = "education"
	DomainHealthcare = "healthcare"
)

// Approval lifecycle states for directory records
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// InstituteTypes lists the allowed types per domain
var InstituteTypes = map[string][]string{
	DomainEducation:  {"School", "College", "University", "Academy", "Training Center"},
	DomainHealthcare: {"Hospital", "Clinic", "Laboratory", "Pharmacy"},
}

var (
	ErrDecisionAlreadyMade = errors.New("approval decision has already been recorded")
)

// FieldViolations maps field names to human-readable violation messages.
// It is returned by record validation so handlers can surface a field-level
// error list to the client.
type FieldViolations map[string]string

func (v FieldViolations) Error() string {
	for field, msg := range v {
		return field + ": " + msg
	}
	return "validation failed"
}

// Course is a nested sub-record of an Institute. Entries are stored in
// submission order inside a jsonb column; there is no uniqueness constraint.
type Course struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Fee         *float64 `json:"fee"`
	Category    string   `json:"category"`
}

// Conformant reports whether the entry carries its required name.
// Non-conformant entries are kept and only counted for diagnostics.
func (c Course) Conformant() bool {
	return c.Name != ""
}

// Faculty is a nested sub-record of an Institute, stored like Course.
type Faculty struct {
	Name          string `json:"name"`
	Position      string `json:"position"`
	Qualification string `json:"qualification"`
	Experience    string `json:"experience"`
	Image         string `json:"image"`
}

func (f Faculty) Conformant() bool {
	return f.Name != ""
}

// Institute represents an education or healthcare organization listing
type Institute struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name           string `gorm:"not null;index" json:"name"`
	Domain         string `gorm:"type:varchar(20);not null;default:'education'" json:"domain"`
	Type           string `gorm:"type:varchar(50);not null" json:"type"`
	Description    string `gorm:"type:text" json:"description"`
	Specialization string `gorm:"type:varchar(255)" json:"specialization"`

	// Location fields. Location is the display string; when no street
	// address is supplied it is derived from city and province.
	Location string `gorm:"type:varchar(255);not null" json:"location"`
	Address  string `gorm:"type:varchar(255)" json:"address"`
	City     string `gorm:"type:varchar(100);not null;index" json:"city"`
	Province string `gorm:"type:varchar(100);not null" json:"province"`

	// Contact and social fields, free-form strings
	Phone     string `gorm:"type:varchar(50)" json:"phone"`
	Email     string `gorm:"type:varchar(255)" json:"email"`
	Website   string `gorm:"type:varchar(255)" json:"website"`
	Facebook  string `gorm:"type:varchar(255)" json:"facebook"`
	Instagram string `gorm:"type:varchar(255)" json:"instagram"`

	// Media slots. Always hold a well-formed URL once assembled; absent
	// inputs get a deterministic placeholder.
	Logo    string                      `gorm:"type:varchar(500)" json:"logo"`
	Banner  string                      `gorm:"type:varchar(500)" json:"banner"`
	Gallery datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"gallery"`

	// Nested collections, insertion order preserved
	Courses       datatypes.JSONSlice[Course]  `gorm:"type:jsonb" json:"courses"`
	Faculty       datatypes.JSONSlice[Faculty] `gorm:"type:jsonb" json:"faculty"`
	Accreditation datatypes.JSONSlice[string]  `gorm:"type:jsonb" json:"accreditation"`
	Facilities    datatypes.JSONSlice[string]  `gorm:"type:jsonb" json:"facilities"`

	// Ownership. Owner is immutable after creation; the owner_* columns are
	// a snapshot taken at assembly time, not kept in sync with the user.
	OwnerID    uint   `gorm:"not null;index" json:"owner_id"`
	OwnerName  string `gorm:"type:varchar(255)" json:"owner_name"`
	OwnerEmail string `gorm:"type:varchar(255)" json:"owner_email"`
	OwnerPhone string `gorm:"type:varchar(50)" json:"owner_phone"`
	AgentID    string `gorm:"type:varchar(100);index" json:"agent_id"`

	// Approval lifecycle
	Verified       bool       `gorm:"default:false" json:"verified"`
	ApprovalStatus string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"approval_status"`
	ApprovalNotes  string     `gorm:"type:text" json:"approval_notes"`
	ApprovedByID   *uint      `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`

	Rating       float64 `gorm:"default:4.5" json:"rating"`
	TotalReviews int     `gorm:"default:0" json:"total_reviews"`

	// Relationships
	Owner      User  `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
	ApprovedBy *User `gorm:"foreignKey:ApprovedByID" json:"-"`
}

// TableName specifies the table name for Institute
func (Institute) TableName() string {
	return "institutes"
}

// ValidDomain reports whether the domain is one of the allowed values
func ValidDomain(domain string) bool {
	_, ok := InstituteTypes[domain]
	return ok
}

// ValidType reports whether the type belongs to the domain's allowed subset
func ValidType(domain, typ string) bool {
	for _, t := range InstituteTypes[domain] {
		if t == typ {
			return true
		}
	}
	return false
}

// Validate checks enum fields before the record reaches the store, so a
// schema violation surfaces as a client error and never as a partial write.
func (i *Institute) Validate() error {
	violations := FieldViolations{}

	if !ValidDomain(i.Domain) {
		violations["domain"] = "domain must be 'education' or 'healthcare'"
	} else if !ValidType(i.Domain, i.Type) {
		violations["type"] = "'" + i.Type + "' is not a valid type for domain '" + i.Domain + "'"
	}

	switch i.ApprovalStatus {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
	default:
		violations["approval_status"] = "approval status must be pending, approved or rejected"
	}

	if len(violations) > 0 {
		return violations
	}
	return nil
}

// Approve transitions the record from pending to approved, recording the
// deciding admin and the decision time. Approved and rejected are terminal
// in this flow; re-opening a decision is an admin-tool concern.
func (i *Institute) Approve(adminID uint, notes string, now time.Time) error {
	if i.ApprovalStatus != ApprovalPending {
		return ErrDecisionAlreadyMade
	}
	i.ApprovalStatus = ApprovalApproved
	i.ApprovalNotes = notes
	i.ApprovedByID = &adminID
	i.ApprovedAt = &now
	return nil
}

// Reject transitions the record from pending to rejected
func (i *Institute) Reject(adminID uint, notes string, now time.Time) error {
	if i.ApprovalStatus != ApprovalPending {
		return ErrDecisionAlreadyMade
	}
	i.ApprovalStatus = ApprovalRejected
	i.ApprovalNotes = notes
	i.ApprovedByID = &adminID
	i.ApprovedAt = &now
	return nil
}

// PubliclyVisible reports whether the record may appear in public listings
func (i *Institute) PubliclyVisible() bool {
	return i.ApprovalStatus == ApprovalApproved
}
