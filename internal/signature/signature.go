// Package signature renders and validates the signature attached to a
// complaint letter.
//
// Two sources are supported:
//   - a typed name, rendered onto a white canvas in an italic face so
//     the exported document carries a signature-like image
//   - a drawn signature, arriving as a base64 PNG data URL from the
//     client, which is only validated and passed through
package signature

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"runtime"
	"strings"

	"github.com/fogleman/gg"

	"civiclens/internal/complaint"
	cerrors "civiclens/internal/errors"
)

// Canvas dimensions, sized so the image drops into the export layout
// at signature scale without resampling artifacts.
const (
	canvasWidth  = 500
	canvasHeight = 200
	nameFontSize = 56
	ruleY        = 150.0
)

var (
	inkColor  = color.RGBA{R: 23, G: 37, B: 84, A: 255}    // Dark blue ink
	ruleColor = color.RGBA{R: 148, G: 163, B: 184, A: 255} // Slate rule
)

// findFont locates an italic-leaning font file across Linux and
// Windows paths.
func findFont() string {
	var candidates []string
	if runtime.GOOS == "windows" {
		winRoot := os.Getenv("WINDIR")
		if winRoot == "" {
			winRoot = `C:\Windows`
		}
		candidates = []string{
			winRoot + `\Fonts\ariali.ttf`,
			winRoot + `\Fonts\arial.ttf`,
		}
	} else {
		candidates = []string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans-Oblique.ttf",
			"/usr/share/fonts/TTF/DejaVuSans-Oblique.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/TTF/DejaVuSans.ttf",
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return candidates[0]
}

// RenderTyped draws a typed name as a PNG signature image and returns
// it as a base64 data URL.
func RenderTyped(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", cerrors.NewValidationError("signature", "a name is required")
	}

	dc := gg.NewContext(canvasWidth, canvasHeight)
	dc.SetColor(color.White)
	dc.Clear()

	if err := dc.LoadFontFace(findFont(), nameFontSize); err != nil {
		return "", fmt.Errorf("failed to load signature font: %w", err)
	}

	dc.SetColor(inkColor)
	dc.DrawStringAnchored(name, canvasWidth/2, ruleY-nameFontSize/2, 0.5, 0.5)

	dc.SetColor(ruleColor)
	dc.SetLineWidth(2)
	dc.DrawLine(40, ruleY, canvasWidth-40, ruleY)
	dc.Stroke()

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return "", fmt.Errorf("failed to encode signature image: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ValidateDrawn checks a client-drawn signature data URL: PNG mime,
// size budget, decodable payload.
func ValidateDrawn(dataURL string) error {
	if dataURL == "" {
		return cerrors.NewValidationError("signature", "a drawn signature is required")
	}
	if !strings.HasPrefix(dataURL, "data:image/png;base64,") {
		return cerrors.NewValidationError("signature", "drawn signatures must be PNG data URLs")
	}
	if err := complaint.ValidateImage(dataURL); err != nil {
		return cerrors.NewValidationError("signature", err.Error())
	}
	payload := strings.TrimPrefix(dataURL, "data:image/png;base64,")
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return cerrors.NewValidationError("signature", "the signature payload is not valid base64")
	}
	return nil
}

// Decode extracts the raw PNG bytes from a signature data URL. Both
// rendered and drawn signatures pass through here on export.
func Decode(dataURL string) ([]byte, error) {
	i := strings.Index(dataURL, ";base64,")
	if !strings.HasPrefix(dataURL, "data:image/") || i < 0 {
		return nil, cerrors.NewValidationError("signature", "not an image data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(dataURL[i+len(";base64,"):])
	if err != nil {
		return nil, cerrors.NewValidationError("signature", "the signature payload is not valid base64")
	}
	return raw, nil
}
