// Package codec parses inline attachment payloads carried as data URLs.
package codec

import (
	"encoding/base64"
	"strings"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/domain"
)

// DecodedAttachment is the result of decoding a data URL.
type DecodedAttachment struct {
	MediaType string
	Data      []byte
}

// Decode parses a data URL of the form data:<mediaType>;base64,<payload>
// into its media type and raw bytes.
//
// It fails when the comma separator is absent, the "data:" prefix is
// missing, the ";base64" marker is missing, or the payload is not valid
// base64. Callers treat the failure as recoverable: a bad attachment is
// skipped, not fatal.
func Decode(dataURL string) (*DecodedAttachment, error) {
	header, payload, found := strings.Cut(dataURL, ",")
	if !found {
		return nil, domain.ErrCodec("data URL has no comma separator")
	}

	if !strings.HasPrefix(header, "data:") {
		return nil, domain.ErrCodec("data URL missing data: prefix")
	}
	if !strings.Contains(header, ";base64") {
		return nil, domain.ErrCodec("data URL is not base64 encoded")
	}

	// Media type is everything between "data:" and the first ";".
	mediaType := strings.SplitN(strings.TrimPrefix(header, "data:"), ";", 2)[0]

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, domain.ErrCodec("invalid base64 payload").WithCause(err)
	}

	return &DecodedAttachment{MediaType: mediaType, Data: raw}, nil
}

// IsImage reports whether the decoded attachment is an image of any subtype.
func (d *DecodedAttachment) IsImage() bool {
	return strings.HasPrefix(d.MediaType, "image/")
}

// IsPDF reports whether the decoded attachment is an already-paginated document.
func (d *DecodedAttachment) IsPDF() bool {
	return d.MediaType == "application/pdf"
}
