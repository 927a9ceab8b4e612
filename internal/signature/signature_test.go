package signature

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"
)

// tinyPNG is a 1x1 transparent PNG.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestRenderTyped(t *testing.T) {
	dataURL, err := RenderTyped("Asha Verma")
	if err != nil {
		t.Skipf("no system font available: %v", err)
	}

	if !strings.HasPrefix(dataURL, "data:image/png;base64,") {
		t.Fatalf("unexpected data URL prefix: %.40s", dataURL)
	}

	raw, err := Decode(dataURL)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("rendered signature is not a PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != canvasWidth || b.Dy() != canvasHeight {
		t.Errorf("canvas = %dx%d, want %dx%d", b.Dx(), b.Dy(), canvasWidth, canvasHeight)
	}
}

func TestRenderTypedRejectsEmptyName(t *testing.T) {
	if _, err := RenderTyped("   "); err == nil {
		t.Fatal("blank name accepted")
	}
}

func TestValidateDrawn(t *testing.T) {
	tests := []struct {
		name    string
		dataURL string
		wantErr bool
	}{
		{"valid png", "data:image/png;base64," + tinyPNG, false},
		{"empty", "", true},
		{"wrong mime", "data:image/jpeg;base64," + tinyPNG, true},
		{"not base64", "data:image/png;base64,@@@@", true},
		{"bare payload", tinyPNG, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDrawn(tt.dataURL)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDrawn() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	raw, err := Decode("data:image/png;base64," + tinyPNG)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want, _ := base64.StdEncoding.DecodeString(tinyPNG)
	if !bytes.Equal(raw, want) {
		t.Error("decoded bytes differ from the payload")
	}

	if _, err := Decode("data:text/plain;base64,aGk="); err == nil {
		t.Error("non-image data URL decoded")
	}
}
