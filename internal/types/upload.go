package types

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Upload is a user-selected file, either a profile picture or a resume to import
type Upload struct {
	Name     string
	MIMEType string
	Data     []byte
}

// EncodeDataURI encodes data as a displayable data URI.
func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// StripDataURIHeader drops a "data:<mime>;base64," prefix, leaving the bare base64 payload.
// Input without a header is returned unchanged.
func StripDataURIHeader(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if idx := strings.Index(s, ","); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// ParseDataURI decodes a base64 data URI into its media type and bytes.
func ParseDataURI(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, fmt.Errorf("not a data URI")
	}
	comma := strings.Index(uri, ",")
	if comma < 0 {
		return "", nil, fmt.Errorf("malformed data URI: missing payload separator")
	}
	header := uri[len("data:"):comma]
	if !strings.HasSuffix(header, ";base64") {
		return "", nil, fmt.Errorf("unsupported data URI encoding: only base64 is accepted")
	}
	mimeType := strings.TrimSuffix(header, ";base64")

	data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URI payload: %w", err)
	}
	return mimeType, data, nil
}
