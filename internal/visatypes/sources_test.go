// internal/visatypes/sources_test.go
package visatypes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "H-1B", Normalize(" h-1b "))
	assert.Equal(t, "EB-1", Normalize("eb-1"))
	assert.Equal(t, "", Normalize("   "))
}

func TestSupported(t *testing.T) {
	for _, visaType := range All() {
		assert.True(t, Supported(visaType), visaType)
	}
	assert.True(t, Supported("h-1b"))
	assert.False(t, Supported("O-1"))
	assert.False(t, Supported(""))
}

func TestSourceURL(t *testing.T) {
	for _, visaType := range All() {
		url := SourceURL(visaType)
		assert.True(t, strings.HasPrefix(url, "https://www.uscis.gov/"), visaType)
	}

	// Unknown codes fall back to the H-1B page.
	assert.Equal(t, SourceURL(H1B), SourceURL("O-1"))
}

func TestPolicyManualURLs(t *testing.T) {
	for visaType, url := range PolicyManualURLs {
		assert.True(t, Supported(visaType), visaType)
		assert.True(t, strings.HasPrefix(url, "https://www.uscis.gov/policy-manual/"), visaType)
	}
}
