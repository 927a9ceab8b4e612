// Package export renders a complaint letter to downloadable document
// formats. PDF is the primary format; DOCX is offered for authorities
// that ask for editable submissions.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/jung-kurt/gofpdf"

	"civiclens/internal/complaint"
	"civiclens/internal/signature"
)

// PDF layout constants (millimetres on an A4 page).
const (
	marginLeft    = 15.0
	marginTop     = 20.0
	lineHeight    = 7.0
	textWidth     = 180.0
	pageBreakY    = 250.0
	signatureW    = 40.0
	signatureH    = 20.0
	letterFontPt  = 11.0
	letterFont    = "Arial"
	signatureName = "signature"
)

// PDF renders the record's letter as a PDF document.
//
// The letter text is wrapped to the printable width line by line, page
// breaking past the body area. A signature image, when present on the
// record's draft, is placed under the text.
func PDF(rec complaint.Record, sigDataURL string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont(letterFont, "", letterFontPt)

	y := marginTop
	for _, line := range strings.Split(rec.GeneratedLetter, "\n") {
		wrapped := pdf.SplitText(line, textWidth)
		if len(wrapped) == 0 {
			wrapped = []string{""}
		}
		for _, w := range wrapped {
			if y > pageBreakY {
				pdf.AddPage()
				y = marginTop
			}
			pdf.Text(marginLeft, y, w)
			y += lineHeight
		}
	}

	if sigDataURL != "" {
		raw, err := signature.Decode(sigDataURL)
		if err != nil {
			return nil, err
		}
		if y > pageBreakY-signatureH {
			pdf.AddPage()
			y = marginTop
		}
		pdf.RegisterImageOptionsReader(signatureName,
			gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(raw))
		pdf.ImageOptions(signatureName, marginLeft, y, signatureW, signatureH,
			false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// DOCX renders the record's letter as a Word document, one paragraph
// per letter line, with the signature image appended.
func DOCX(rec complaint.Record, sigDataURL string) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	for _, line := range strings.Split(rec.GeneratedLetter, "\n") {
		p := doc.AddParagraph()
		if line != "" {
			p.AddText(line)
		}
	}

	if sigDataURL != "" {
		raw, err := signature.Decode(sigDataURL)
		if err != nil {
			return nil, err
		}
		if _, err := doc.AddParagraph().AddInlineDrawing(raw); err != nil {
			return nil, fmt.Errorf("failed to embed signature: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render DOCX: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName builds a download file name from the record, e.g.
// "complaint-water-supply-issue-2025-01-31.pdf".
func FileName(rec complaint.Record, ext string) string {
	category := strings.ToLower(string(rec.Type))
	category = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, category)
	category = strings.Trim(strings.ReplaceAll(category, "--", "-"), "-")

	date := rec.DateCreated
	if len(date) >= 10 {
		date = date[:10]
	}
	return fmt.Sprintf("complaint-%s-%s.%s", category, date, ext)
}
