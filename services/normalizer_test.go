package services

import (
	"encoding/json"
	"testing"

	"github.com/rehbar-pk/directory-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCoursesFromArray(t *testing.T) {
	raw := json.RawMessage(`[{"name":"BSc Physics","duration":"4 years"},{"name":"MSc Chemistry"}]`)

	courses := NormalizeCourses(raw)

	require.Len(t, courses, 2)
	assert.Equal(t, "BSc Physics", courses[0].Name)
	assert.Equal(t, "4 years", courses[0].Duration)
	assert.Equal(t, "MSc Chemistry", courses[1].Name)
}

func TestNormalizeCoursesFromEncodedString(t *testing.T) {
	// The web wizard posts arrays as JSON-encoded strings
	raw := json.RawMessage(`"[{\"name\":\"DPT\",\"category\":\"healthcare\"}]"`)

	courses := NormalizeCourses(raw)

	require.Len(t, courses, 1)
	assert.Equal(t, "DPT", courses[0].Name)
	assert.Equal(t, "healthcare", courses[0].Category)
}

func TestNormalizeCoursesPlainStringFallback(t *testing.T) {
	// A bare string that is not JSON becomes a single entry named by it
	raw := json.RawMessage(`"Intermediate Pre-Medical"`)

	courses := NormalizeCourses(raw)

	require.Len(t, courses, 1)
	assert.Equal(t, "Intermediate Pre-Medical", courses[0].Name)
	assert.Empty(t, courses[0].Duration)
}

func TestNormalizeCoursesMalformedStringFallback(t *testing.T) {
	// Looks like an array but does not parse; kept as a single raw entry
	raw := json.RawMessage(`"[{broken json"`)

	courses := NormalizeCourses(raw)

	require.Len(t, courses, 1)
	assert.Equal(t, "[{broken json", courses[0].Name)
}

func TestNormalizeCoursesEmptyShapes(t *testing.T) {
	cases := map[string]json.RawMessage{
		"omitted":      nil,
		"null":         json.RawMessage(`null`),
		"empty array":  json.RawMessage(`[]`),
		"empty string": json.RawMessage(`""`),
		"number":       json.RawMessage(`42`),
		"object":       json.RawMessage(`{"name":"x"}`),
		"boolean":      json.RawMessage(`true`),
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			courses := NormalizeCourses(raw)
			require.NotNil(t, courses)
			assert.Empty(t, courses)
		})
	}
}

func TestNormalizeFacultyPreservesOrderAndDuplicates(t *testing.T) {
	raw := json.RawMessage(`[{"name":"Dr. Aslam"},{"name":"Dr. Bilal"},{"name":"Dr. Aslam"}]`)

	faculty := NormalizeFaculty(raw)

	require.Len(t, faculty, 3)
	assert.Equal(t, "Dr. Aslam", faculty[0].Name)
	assert.Equal(t, "Dr. Bilal", faculty[1].Name)
	assert.Equal(t, "Dr. Aslam", faculty[2].Name)
}

func TestNormalizeFacultyKeepsNamelessEntries(t *testing.T) {
	raw := json.RawMessage(`[{"position":"Professor"},{"name":"Dr. Sana"}]`)

	faculty := NormalizeFaculty(raw)

	require.Len(t, faculty, 2)
	assert.False(t, faculty[0].Conformant())
	assert.True(t, faculty[1].Conformant())
	assert.Equal(t, 1, CountNonConformantFaculty(faculty))
}

func TestNormalizeStringList(t *testing.T) {
	assert.Equal(t, []string{"HEC", "PMDC"}, NormalizeStringList(json.RawMessage(`["HEC","PMDC"]`)))
	assert.Equal(t, []string{"HEC", "PMDC"}, NormalizeStringList(json.RawMessage(`"[\"HEC\",\"PMDC\"]"`)))
	assert.Equal(t, []string{"Library"}, NormalizeStringList(json.RawMessage(`"Library"`)))
	assert.Empty(t, NormalizeStringList(nil))
}

// Empty and whitespace-only strings carry no usable entry: they normalize
// to an empty list, not a single blank-named fallback entry.
func TestNormalizeBlankStringsProduceNoEntries(t *testing.T) {
	assert.Empty(t, NormalizeStringList(json.RawMessage(`""`)))
	assert.Empty(t, NormalizeStringList(json.RawMessage(`"   "`)))
	assert.Empty(t, NormalizeCourses(json.RawMessage(`"   "`)))
}

func TestCountNonConformantCourses(t *testing.T) {
	courses := []model.Course{
		{Name: "BSc"},
		{Description: "no name here"},
		{Name: ""},
	}
	assert.Equal(t, 2, CountNonConformantCourses(courses))
}
