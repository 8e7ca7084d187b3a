package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/rehbar-pk/directory-api/model"
	"github.com/rehbar-pk/directory-api/utils/agentid"
	"github.com/rehbar-pk/directory-api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Deterministic placeholders substituted for absent media fields. A record
// never leaves assembly with an undefined media reference.
const (
	PlaceholderLogoURL   = "https://cdn.rehbar.pk/defaults/institute-logo.png"
	PlaceholderBannerURL = "https://cdn.rehbar.pk/defaults/institute-banner.png"
)

// CreateInstituteInput is the raw submission for a new listing. List-valued
// fields stay raw until the normalizer resolves their shape.
type CreateInstituteInput struct {
	Name           string `json:"name"`
	Domain         string `json:"domain"`
	Type           string `json:"type"`
	Description    string `json:"description"`
	Specialization string `json:"specialization"`

	Address  string `json:"address"`
	City     string `json:"city"`
	Province string `json:"province"`

	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Website   string `json:"website"`
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`

	Logo    string `json:"logo"`
	Banner  string `json:"banner"`
	AgentID string `json:"agent_id"`

	Gallery       json.RawMessage `json:"gallery"`
	Courses       json.RawMessage `json:"courses"`
	Faculty       json.RawMessage `json:"faculty"`
	Accreditation json.RawMessage `json:"accreditation"`
	Facilities    json.RawMessage `json:"facilities"`
}

// InstituteService assembles and persists institute records
type InstituteService struct {
	db *gorm.DB
}

// NewInstituteService creates a new institute service
func NewInstituteService(db *gorm.DB) *InstituteService {
	return &InstituteService{db: db}
}

// AssembleInstitute merges a submission, defaults and the caller identity
// into a candidate record. Pure: no I/O, nothing persisted.
func AssembleInstitute(input CreateInstituteInput, owner *model.User) (*model.Institute, error) {
	violations := model.FieldViolations{}
	if validation.SanitizeString(input.Name) == "" {
		violations["name"] = "name is required"
	}
	if validation.SanitizeString(input.Type) == "" {
		violations["type"] = "type is required"
	}
	if validation.SanitizeString(input.City) == "" {
		violations["city"] = "city is required"
	}
	if validation.SanitizeString(input.Province) == "" {
		violations["province"] = "province is required"
	}
	if len(violations) > 0 {
		return nil, violations
	}

	domain := input.Domain
	if domain == "" {
		domain = model.DomainEducation
	}

	courses := NormalizeCourses(input.Courses)
	faculty := NormalizeFaculty(input.Faculty)

	if n := CountNonConformantCourses(courses); n > 0 {
		log.Printf("institute %q: %d course entries missing a name, keeping them", input.Name, n)
	}
	if n := CountNonConformantFaculty(faculty); n > 0 {
		log.Printf("institute %q: %d faculty entries missing a name, keeping them", input.Name, n)
	}

	logo := input.Logo
	if logo == "" {
		logo = PlaceholderLogoURL
	}
	banner := input.Banner
	if banner == "" {
		banner = PlaceholderBannerURL
	}

	city := validation.SanitizeString(input.City)
	province := validation.SanitizeString(input.Province)

	location := validation.SanitizeString(input.Address)
	if location == "" {
		location = fmt.Sprintf("%s, %s", city, province)
	}

	agentID := input.AgentID
	if agentID == "" {
		agentID = agentid.Generate(input.Name)
	}

	institute := &model.Institute{
		Name:           validation.SanitizeString(input.Name),
		Domain:         domain,
		Type:           validation.SanitizeString(input.Type),
		Description:    input.Description,
		Specialization: input.Specialization,

		Location: location,
		Address:  validation.SanitizeString(input.Address),
		City:     city,
		Province: province,

		Phone:     input.Phone,
		Email:     input.Email,
		Website:   input.Website,
		Facebook:  input.Facebook,
		Instagram: input.Instagram,

		Logo:          logo,
		Banner:        banner,
		Gallery:       datatypes.NewJSONSlice(NormalizeStringList(input.Gallery)),
		Courses:       datatypes.NewJSONSlice(courses),
		Faculty:       datatypes.NewJSONSlice(faculty),
		Accreditation: datatypes.NewJSONSlice(NormalizeStringList(input.Accreditation)),
		Facilities:    datatypes.NewJSONSlice(NormalizeStringList(input.Facilities)),

		// Ownership snapshot, not kept in sync with the user afterwards
		OwnerID:    owner.ID,
		OwnerName:  owner.Name,
		OwnerEmail: owner.Email,
		OwnerPhone: owner.Phone,
		AgentID:    agentID,

		Verified:       false,
		ApprovalStatus: model.ApprovalPending,
		Rating:         4.5,
		TotalReviews:   0,
	}

	return institute, nil
}

// Create assembles and persists a new institute record. Enum violations are
// detected before the write so assembly stays all-or-nothing; the returned
// error is a model.FieldViolations for any client-side problem.
func (s *InstituteService) Create(ctx context.Context, input CreateInstituteInput, owner *model.User) (*model.Institute, error) {
	institute, err := AssembleInstitute(input, owner)
	if err != nil {
		return nil, err
	}

	if err := institute.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(institute).Error; err != nil {
		return nil, fmt.Errorf("failed to persist institute: %w", err)
	}

	return institute, nil
}

// UpdateInstituteInput carries the owner-editable fields of a listing.
// Approval fields and ownership are excluded; those change only through
// the admin flow.
type UpdateInstituteInput struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Specialization *string `json:"specialization"`
	Address        *string `json:"address"`
	City           *string `json:"city"`
	Province       *string `json:"province"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Website        *string `json:"website"`
	Facebook       *string `json:"facebook"`
	Instagram      *string `json:"instagram"`
	Logo           *string `json:"logo"`
	Banner         *string `json:"banner"`

	Gallery       json.RawMessage `json:"gallery"`
	Courses       json.RawMessage `json:"courses"`
	Faculty       json.RawMessage `json:"faculty"`
	Accreditation json.RawMessage `json:"accreditation"`
	Facilities    json.RawMessage `json:"facilities"`
}

// ApplyUpdate merges owner-supplied changes into an existing record,
// running list fields through the normalizer. Pure.
func ApplyUpdate(institute *model.Institute, input UpdateInstituteInput) {
	setIfPresent := func(dst *string, src *string) {
		if src != nil {
			*dst = validation.SanitizeString(*src)
		}
	}

	setIfPresent(&institute.Name, input.Name)
	setIfPresent(&institute.Description, input.Description)
	setIfPresent(&institute.Specialization, input.Specialization)
	setIfPresent(&institute.Address, input.Address)
	setIfPresent(&institute.City, input.City)
	setIfPresent(&institute.Province, input.Province)
	setIfPresent(&institute.Phone, input.Phone)
	setIfPresent(&institute.Email, input.Email)
	setIfPresent(&institute.Website, input.Website)
	setIfPresent(&institute.Facebook, input.Facebook)
	setIfPresent(&institute.Instagram, input.Instagram)
	setIfPresent(&institute.Logo, input.Logo)
	setIfPresent(&institute.Banner, input.Banner)

	if institute.Address != "" {
		institute.Location = institute.Address
	} else {
		institute.Location = fmt.Sprintf("%s, %s", institute.City, institute.Province)
	}

	if len(input.Gallery) > 0 {
		institute.Gallery = datatypes.NewJSONSlice(NormalizeStringList(input.Gallery))
	}
	if len(input.Courses) > 0 {
		institute.Courses = datatypes.NewJSONSlice(NormalizeCourses(input.Courses))
	}
	if len(input.Faculty) > 0 {
		institute.Faculty = datatypes.NewJSONSlice(NormalizeFaculty(input.Faculty))
	}
	if len(input.Accreditation) > 0 {
		institute.Accreditation = datatypes.NewJSONSlice(NormalizeStringList(input.Accreditation))
	}
	if len(input.Facilities) > 0 {
		institute.Facilities = datatypes.NewJSONSlice(NormalizeStringList(input.Facilities))
	}
}

// Update applies owner changes and persists them
func (s *InstituteService) Update(ctx context.Context, institute *model.Institute, input UpdateInstituteInput) error {
	ApplyUpdate(institute, input)

	if err := institute.Validate(); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Save(institute).Error; err != nil {
		return fmt.Errorf("failed to update institute: %w", err)
	}
	return nil
}

// Decide records an admin approval decision on an institute and persists it
func (s *InstituteService) Decide(ctx context.Context, institute *model.Institute, admin *model.User, approve bool, notes string) error {
	var err error
	now := time.Now()
	if approve {
		err = institute.Approve(admin.ID, notes, now)
	} else {
		err = institute.Reject(admin.ID, notes, now)
	}
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(institute).Updates(map[string]interface{}{
		"approval_status": institute.ApprovalStatus,
		"approval_notes":  institute.ApprovalNotes,
		"approved_by_id":  institute.ApprovedByID,
		"approved_at":     institute.ApprovedAt,
	}).Error
}
