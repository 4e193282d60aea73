package codec

import (
	"testing"

	"github.com/GSA-TTS/spiffworkflow-connector/internal/domain"
)

func TestDecode(t *testing.T) {
	got, err := Decode("data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.MediaType != "image/png" {
		t.Errorf("media type = %q, want image/png", got.MediaType)
	}
	if string(got.Data) != "hello" {
		t.Errorf("data = %q, want hello", got.Data)
	}
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name    string
		dataURL string
	}{
		{"no comma separator", "not-a-data-url"},
		{"missing data prefix", "image/png;base64,aGVsbG8="},
		{"missing base64 marker", "data:image/png,aGVsbG8="},
		{"bad base64 payload", "data:application/pdf;base64,!!!"},
		{"empty string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.dataURL)
			if err == nil {
				t.Fatalf("Decode(%q) expected error", tt.dataURL)
			}
			if kind := domain.KindOf(err); kind != domain.ErrorKindCodec {
				t.Errorf("error kind = %v, want codec", kind)
			}
		})
	}
}

func TestDecodedAttachmentTypes(t *testing.T) {
	img, err := Decode("data:image/jpeg;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !img.IsImage() || img.IsPDF() {
		t.Errorf("image/jpeg: IsImage=%v IsPDF=%v", img.IsImage(), img.IsPDF())
	}

	pdf, err := Decode("data:application/pdf;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if pdf.IsImage() || !pdf.IsPDF() {
		t.Errorf("application/pdf: IsImage=%v IsPDF=%v", pdf.IsImage(), pdf.IsPDF())
	}
}
