package services

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rehbar-pk/directory-api/model"
)

// Listing submissions arrive from two very different callers: the multi-step
// web wizard posts list fields as flat JSON-encoded strings, while API
// clients post real arrays. The normalizer resolves both shapes once at the
// boundary into canonical typed slices; nothing downstream re-inspects the
// raw payload. A malformed optional field never fails the submission: an
// unparseable string degrades to a single entry carrying the raw string as
// its name, and any other shape collapses to an empty list.

// NormalizeCourses canonicalizes the courses field of a submission
func NormalizeCourses(raw json.RawMessage) []model.Course {
	return normalizeList(raw, func(s string) model.Course {
		return model.Course{Name: s}
	})
}

// NormalizeFaculty canonicalizes the faculty field of a submission
func NormalizeFaculty(raw json.RawMessage) []model.Faculty {
	return normalizeList(raw, func(s string) model.Faculty {
		return model.Faculty{Name: s}
	})
}

// NormalizeStringList canonicalizes plain string list fields
// (accreditation, facilities, gallery)
func NormalizeStringList(raw json.RawMessage) []string {
	return normalizeList(raw, func(s string) string {
		return s
	})
}

// normalizeList implements the shared contract. fromString builds the
// single-entry fallback for a string that fails structured decoding.
func normalizeList[T any](raw json.RawMessage, fromString func(string) T) []T {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []T{}
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return []T{}
		}
		if items == nil {
			items = []T{}
		}
		return items

	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return []T{}
		}
		return normalizeString(s, fromString)

	default:
		// Numbers, objects, booleans all collapse to an empty list
		return []T{}
	}
}

func normalizeString[T any](s string, fromString func(string) T) []T {
	// A blank string yields no entries; the single-entry fallback is
	// reserved for strings that carry actual content
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return []T{}
	}

	if strings.HasPrefix(trimmed, "[") {
		var items []T
		if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
			if items == nil {
				items = []T{}
			}
			return items
		}
	}

	// Defined fallback, not a failure: keep the raw string as the entry name
	return []T{fromString(s)}
}

// CountNonConformantCourses reports how many entries are missing their
// required name. Entries are kept regardless; the count feeds diagnostics
// only.
func CountNonConformantCourses(courses []model.Course) int {
	n := 0
	for _, c := range courses {
		if !c.Conformant() {
			n++
		}
	}
	return n
}

// CountNonConformantFaculty reports faculty entries missing their name
func CountNonConformantFaculty(faculty []model.Faculty) int {
	n := 0
	for _, f := range faculty {
		if !f.Conformant() {
			n++
		}
	}
	return n
}
