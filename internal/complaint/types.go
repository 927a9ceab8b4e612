// Package complaint defines the core domain types for CivicLens.
//
// Two representations of a complaint exist:
//   - Draft: in-memory, owned by a single wizard session, mutable
//     while the citizen works through the steps
//   - Record: persisted entry with a stable id and a mutable status
//
// A Draft becomes a Record exactly once, at the moment the letter is
// first generated. Records are never deleted.
package complaint

import (
	"fmt"
	"strings"
	"time"
)

// Type identifies the category of civic issue being reported.
//
// The string values are the display labels shown to citizens and
// embedded verbatim in generated letters.
type Type string

const (
	TypeRoad        Type = "Road Issue / Potholes"
	TypeDrainage    Type = "Drainage Problem"
	TypeStreetLight Type = "Street Light Not Working"
	TypeWater       Type = "Water Supply Issue"
	TypeGarbage     Type = "Garbage / Sanitation"
	TypeOther       Type = "Other"
)

// AllTypes lists every complaint category in display order.
var AllTypes = []Type{
	TypeRoad,
	TypeDrainage,
	TypeStreetLight,
	TypeWater,
	TypeGarbage,
	TypeOther,
}

// IsValid reports whether t is a known complaint category.
func (t Type) IsValid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Language is an output language for the generated letter.
type Language string

const (
	LangEnglish   Language = "English"
	LangHindi     Language = "Hindi"
	LangGujarati  Language = "Gujarati"
	LangMarathi   Language = "Marathi"
	LangPunjabi   Language = "Punjabi"
	LangTamil     Language = "Tamil"
	LangTelugu    Language = "Telugu"
	LangKannada   Language = "Kannada"
	LangMalayalam Language = "Malayalam"
	LangBengali   Language = "Bengali"
)

// AllLanguages lists the supported letter languages.
var AllLanguages = []Language{
	LangEnglish, LangHindi, LangGujarati, LangMarathi, LangPunjabi,
	LangTamil, LangTelugu, LangKannada, LangMalayalam, LangBengali,
}

// IsValid reports whether l is a supported letter language.
func (l Language) IsValid() bool {
	for _, known := range AllLanguages {
		if l == known {
			return true
		}
	}
	return false
}

// Template selects the tone instructions for the letter.
type Template string

const (
	TemplateNormal   Template = "Normal Complaint"
	TemplateUrgent   Template = "Urgent - Immediate Action"
	TemplateReminder Template = "Reminder / Follow-up"
)

// IsValid reports whether tp is a known tone template.
func (tp Template) IsValid() bool {
	switch tp {
	case TemplateNormal, TemplateUrgent, TemplateReminder:
		return true
	}
	return false
}

// Status is the lifecycle state of a persisted Record.
//
// Transitions are forward-free: any status is reachable from any
// other via an explicit user action. The system never changes a
// status on its own.
type Status string

const (
	StatusDraft      Status = "Draft"
	StatusDownloaded Status = "Downloaded"
	StatusSubmitted  Status = "Submitted"
	StatusResolved   Status = "Resolved"
)

// IsValid reports whether s is a known record status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusDownloaded, StatusSubmitted, StatusResolved:
		return true
	}
	return false
}

// AreaType distinguishes urban and rural complaint locations. It
// drives the authority suggestion and nothing else.
type AreaType string

const (
	AreaUrban AreaType = "urban"
	AreaRural AreaType = "rural"
)

// LocationDetails holds the free-text address fields of a complaint.
//
// City and State are aided by the state/city catalog but never
// strictly validated against it.
type LocationDetails struct {
	Area  string `json:"area"`
	City  string `json:"city"`
	State string `json:"state"`
	Ward  string `json:"ward,omitempty"`
}

// MaxImageBytes is the upper bound for an inline photo or signature
// image (decoded size).
const MaxImageBytes = 5 * 1024 * 1024

// MinDescriptionLen is the exclusive lower bound on description
// length before the wizard may leave the details step.
const MinDescriptionLen = 5

// Draft is the in-memory complaint being assembled by one wizard
// session. It is discarded once converted into a Record.
type Draft struct {
	Type        Type
	Location    LocationDetails
	AreaType    AreaType
	Description string
	Image       string // base64 data URL, optional
	Language    Language
	Template    Template
	Authority   string
	Signature   string // PNG data URL, optional
}

// DetailsComplete reports whether the draft satisfies the gate for
// leaving the details step: area, city and state non-empty and a
// description longer than MinDescriptionLen characters.
func (d *Draft) DetailsComplete() bool {
	return strings.TrimSpace(d.Location.Area) != "" &&
		strings.TrimSpace(d.Location.City) != "" &&
		strings.TrimSpace(d.Location.State) != "" &&
		len(d.Description) > MinDescriptionLen
}

// Record is a persisted complaint entry.
type Record struct {
	ID              string          `json:"id"`
	Type            Type            `json:"type"`
	DateCreated     string          `json:"dateCreated"` // ISO-8601
	Description     string          `json:"description"`
	Image           string          `json:"image,omitempty"`
	GeneratedLetter string          `json:"generatedLetter"`
	LocationDetails LocationDetails `json:"locationDetails"`
	Language        Language        `json:"language"`
	Template        Template        `json:"template"`
	Authority       string          `json:"authority"`
	Signature       string          `json:"signature,omitempty"`
	Status          Status          `json:"status"`
}

// NewRecord builds a Draft-status Record from a completed draft.
//
// The caller supplies the id so that regeneration within the same
// wizard session reuses it (overwrite-by-id, never append).
func NewRecord(id string, d *Draft, letter string) Record {
	return Record{
		ID:              id,
		Type:            d.Type,
		DateCreated:     time.Now().Format(time.RFC3339),
		Description:     d.Description,
		Image:           d.Image,
		GeneratedLetter: letter,
		LocationDetails: d.Location,
		Language:        d.Language,
		Template:        d.Template,
		Authority:       d.Authority,
		Signature:       d.Signature,
		Status:          StatusDraft,
	}
}

// ValidateImage checks that a base64 data URL payload is within the
// size budget. The encoded length over-approximates the decoded size
// by 4/3, which is fine for a hard cap.
func ValidateImage(dataURL string) error {
	if dataURL == "" {
		return nil
	}
	if !strings.HasPrefix(dataURL, "data:") {
		return fmt.Errorf("image must be a data URL")
	}
	if len(dataURL) > MaxImageBytes*4/3+128 {
		return fmt.Errorf("image exceeds %d byte limit", MaxImageBytes)
	}
	return nil
}
