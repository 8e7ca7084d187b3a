package agentid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "punjab-science-college", Slugify("Punjab Science College"))
	assert.Equal(t, "al-noor-academy", Slugify("Al-Noor Academy!"))
	assert.Equal(t, "", Slugify("   "))

	// At most four words survive
	assert.Equal(t, "the-national-institute-of", Slugify("The National Institute of Modern Languages"))
}

func TestGenerateShape(t *testing.T) {
	id := Generate("Punjab Science College")
	assert.Regexp(t, `^punjab-science-college-[0-9a-f]{8}$`, id)

	// Empty names still produce a usable identifier
	assert.Regexp(t, `^agent-[0-9a-f]{8}$`, Generate(""))
}

func TestGenerateUnique(t *testing.T) {
	a := Generate("Same Name")
	b := Generate("Same Name")
	assert.NotEqual(t, a, b)
}
