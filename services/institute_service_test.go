package services

import (
	"encoding/json"
	"testing"

	"github.com/rehbar-pk/directory-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOwner() *model.User {
	return &model.User{
		ID:    7,
		Name:  "Rehbar Khan",
		Email: "rehbar@example.com",
		Phone: "+92-300-1234567",
	}
}

func TestAssembleInstituteDefaults(t *testing.T) {
	input := CreateInstituteInput{
		Name:     "Punjab Science College",
		Type:     "College",
		City:     "Lahore",
		Province: "Punjab",
	}

	institute, err := AssembleInstitute(input, testOwner())
	require.NoError(t, err)

	assert.Equal(t, model.DomainEducation, institute.Domain)
	assert.Equal(t, model.ApprovalPending, institute.ApprovalStatus)
	assert.False(t, institute.Verified)
	assert.Equal(t, 4.5, institute.Rating)
	assert.Equal(t, 0, institute.TotalReviews)

	// Media placeholders for absent slots
	assert.Equal(t, PlaceholderLogoURL, institute.Logo)
	assert.Equal(t, PlaceholderBannerURL, institute.Banner)

	// No address: location derives from city and province
	assert.Equal(t, "Lahore, Punjab", institute.Location)

	// Owner snapshot
	assert.Equal(t, uint(7), institute.OwnerID)
	assert.Equal(t, "Rehbar Khan", institute.OwnerName)
	assert.Equal(t, "rehbar@example.com", institute.OwnerEmail)
	assert.Equal(t, "+92-300-1234567", institute.OwnerPhone)

	// Generated agent id: slug plus random suffix
	assert.Regexp(t, `^punjab-science-college-[0-9a-f]{8}$`, institute.AgentID)

	// List fields are canonical empty slices, never nil
	assert.NotNil(t, institute.Gallery)
	assert.NotNil(t, institute.Courses)
	assert.NotNil(t, institute.Faculty)
	assert.NotNil(t, institute.Accreditation)
	assert.NotNil(t, institute.Facilities)
}

func TestAssembleInstituteRequiredFields(t *testing.T) {
	input := CreateInstituteInput{
		Name: "   ",
		Type: "College",
	}

	_, err := AssembleInstitute(input, testOwner())
	require.Error(t, err)

	var violations model.FieldViolations
	require.ErrorAs(t, err, &violations)
	assert.Contains(t, violations, "name")
	assert.Contains(t, violations, "city")
	assert.Contains(t, violations, "province")
	assert.NotContains(t, violations, "type")
}

func TestAssembleInstituteKeepsSuppliedValues(t *testing.T) {
	input := CreateInstituteInput{
		Name:     "City Care Clinic",
		Domain:   model.DomainHealthcare,
		Type:     "Clinic",
		Address:  "12 Mall Road",
		City:     "Multan",
		Province: "Punjab",
		Logo:     "https://cdn.example.com/logo.png",
		AgentID:  "city-care-clinic-abc12345",
		Courses:  json.RawMessage(`"[{\"name\":\"Physiotherapy\"}]"`),
	}

	institute, err := AssembleInstitute(input, testOwner())
	require.NoError(t, err)

	assert.Equal(t, model.DomainHealthcare, institute.Domain)
	assert.Equal(t, "12 Mall Road", institute.Location)
	assert.Equal(t, "https://cdn.example.com/logo.png", institute.Logo)
	assert.Equal(t, PlaceholderBannerURL, institute.Banner)
	assert.Equal(t, "city-care-clinic-abc12345", institute.AgentID)

	require.Len(t, institute.Courses, 1)
	assert.Equal(t, "Physiotherapy", institute.Courses[0].Name)
}

func TestAssembledInstituteValidates(t *testing.T) {
	input := CreateInstituteInput{
		Name:     "Quick Labs",
		Domain:   model.DomainHealthcare,
		Type:     "University", // education type under healthcare domain
		City:     "Karachi",
		Province: "Sindh",
	}

	institute, err := AssembleInstitute(input, testOwner())
	require.NoError(t, err)

	err = institute.Validate()
	require.Error(t, err)

	var violations model.FieldViolations
	require.ErrorAs(t, err, &violations)
	assert.Contains(t, violations, "type")
}

func TestApplyUpdateNormalizesListsAndLocation(t *testing.T) {
	institute := &model.Institute{
		Name:     "Old Name",
		City:     "Lahore",
		Province: "Punjab",
		Location: "Lahore, Punjab",
	}

	newCity := "Faisalabad"
	ApplyUpdate(institute, UpdateInstituteInput{
		City:       &newCity,
		Facilities: json.RawMessage(`["Library","Hostel"]`),
	})

	assert.Equal(t, "Old Name", institute.Name)
	assert.Equal(t, "Faisalabad", institute.City)
	assert.Equal(t, "Faisalabad, Punjab", institute.Location)
	assert.Equal(t, []string{"Library", "Hostel"}, []string(institute.Facilities))
}

func TestApplyUpdateLeavesOmittedListsAlone(t *testing.T) {
	institute := &model.Institute{
		Name: "Stable",
	}
	institute.Gallery = append(institute.Gallery, "https://cdn.example.com/1.jpg")

	ApplyUpdate(institute, UpdateInstituteInput{})

	require.Len(t, institute.Gallery, 1)
	assert.Equal(t, "https://cdn.example.com/1.jpg", institute.Gallery[0])
}
