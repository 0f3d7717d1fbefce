//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURI(t *testing.T) {
	payload := []byte("%PDF-1.4 test")
	uri := EncodeDataURI("application/pdf", payload)
	assert.Equal(t, "data:application/pdf;base64,JVBERi0xLjQgdGVzdA==", uri)

	mimeType, data, err := ParseDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mimeType)
	assert.Equal(t, payload, data)
}

func TestParseDataURI_Errors(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{name: "not a data uri", uri: "https://example.com/a.png"},
		{name: "missing comma", uri: "data:image/png;base64"},
		{name: "not base64", uri: "data:text/plain,hello"},
		{name: "bad payload", uri: "data:image/png;base64,@@@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseDataURI(tt.uri)
			assert.Error(t, err)
		})
	}
}

func TestStripDataURIHeader(t *testing.T) {
	assert.Equal(t, "AAAA", StripDataURIHeader("data:image/png;base64,AAAA"))
	assert.Equal(t, "AAAA", StripDataURIHeader("AAAA"))
}
