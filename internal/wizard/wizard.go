// Package wizard implements the four-step complaint drafting state
// machine.
//
// Steps are strictly linear:
//
//	ProblemSelection → DetailsConfig → PhotoCapture → Review
//
// Transition rules:
//   - 1→2 fires immediately on category selection; selecting a
//     category is itself the gating condition and the advancing action
//   - 2→3 is gated on area/city/state non-empty and a description
//     longer than five characters
//   - 3→4 happens only through Generate, which runs the letter
//     pipeline and persists the record
//   - Review is terminal; Back from Review re-enters PhotoCapture
//     without discarding the generated letter or the persisted record
//
// Derived fields follow a touched-flag policy: the authority
// suggestion and reverse-geocoded address components only ever fill
// fields the citizen has not edited by hand.
package wizard

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"civiclens/internal/authority"
	"civiclens/internal/complaint"
	cerrors "civiclens/internal/errors"
	"civiclens/internal/geocode"
	"civiclens/internal/letter"
	"civiclens/internal/storage"
)

// Step indexes the wizard states 1..4.
type Step int

const (
	StepProblemSelection Step = iota + 1
	StepDetailsConfig
	StepPhotoCapture
	StepReview
)

// String returns the display name of a step.
func (s Step) String() string {
	switch s {
	case StepProblemSelection:
		return "Problem"
	case StepDetailsConfig:
		return "Details"
	case StepPhotoCapture:
		return "Evidence"
	case StepReview:
		return "Review"
	}
	return "Unknown"
}

// Notifier receives record lifecycle events. The Telegram client
// implements it; a nil client is a valid no-op notifier.
type Notifier interface {
	NotifyNewRecord(rec complaint.Record)
}

// Session is one citizen's pass through the wizard. It owns the draft
// for its lifetime and discards it once converted into a record.
//
// Thread-safety: all exported methods lock; a session may be driven
// from concurrent HTTP requests.
type Session struct {
	mu sync.Mutex

	ID    string
	step  Step
	draft complaint.Draft

	// touched flags: once a field is edited by hand it is never
	// auto-overwritten again
	authorityTouched bool
	areaTouched      bool
	cityTouched      bool
	stateTouched     bool

	// recordID is set on first generation; regeneration reuses it so
	// saves overwrite-by-id instead of appending
	recordID string
	letter   string
	fallback bool

	resolver *geocode.Resolver
	pipeline *letter.Pipeline
	store    *storage.Store
	notifier Notifier
}

// Step returns the current wizard step.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Draft returns a copy of the in-memory draft.
func (s *Session) Draft() complaint.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Letter returns the generated letter, if any.
func (s *Session) Letter() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.letter, s.letter != ""
}

// UsedFallback reports whether the template fallback produced the
// current letter.
func (s *Session) UsedFallback() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fallback
}

// RecordID returns the persisted record id, if the session has
// generated a letter.
func (s *Session) RecordID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordID, s.recordID != ""
}

// Coordinates returns the last resolved map coordinate.
func (s *Session) Coordinates() (geocode.Coordinates, bool) {
	return s.resolver.Coordinates()
}

// SelectCategory records the complaint category. On the first step
// this is also the advancing action: the wizard moves straight to the
// details step.
func (s *Session) SelectCategory(t complaint.Type) error {
	if !t.IsValid() {
		return cerrors.NewValidationError("category", "unknown complaint category")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Type = t
	s.recomputeAuthority()
	if s.step == StepProblemSelection {
		s.step = StepDetailsConfig
	}
	return nil
}

// DetailsPatch is a partial update of the details step. Nil fields are
// left untouched.
type DetailsPatch struct {
	Area        *string
	City        *string
	State       *string
	Ward        *string
	Description *string
	Language    *complaint.Language
	Template    *complaint.Template
	AreaType    *complaint.AreaType
	Authority   *string
}

// UpdateDetails applies a patch of user edits to the draft.
//
// Location edits mark their field as touched and kick the debounced
// forward geocoder; the lookup runs on the resolver's own lifetime,
// not the caller's, since the quiet period outlasts a request. An
// authority edit marks the field touched, after which the suggestion
// engine stops writing it.
func (s *Session) UpdateDetails(p DetailsPatch) error {
	if p.Language != nil && !p.Language.IsValid() {
		return cerrors.NewValidationError("language", "unsupported language")
	}
	if p.Template != nil && !p.Template.IsValid() {
		return cerrors.NewValidationError("template", "unknown template")
	}

	s.mu.Lock()

	locationEdited := false
	if p.Area != nil {
		s.draft.Location.Area = *p.Area
		s.areaTouched = true
		locationEdited = true
	}
	if p.City != nil {
		s.draft.Location.City = *p.City
		s.cityTouched = true
		locationEdited = true
	}
	if p.State != nil {
		s.draft.Location.State = *p.State
		s.stateTouched = true
		locationEdited = true
	}
	if p.Ward != nil {
		s.draft.Location.Ward = *p.Ward
	}
	if p.Description != nil {
		s.draft.Description = *p.Description
	}
	if p.Language != nil {
		s.draft.Language = *p.Language
	}
	if p.Template != nil {
		s.draft.Template = *p.Template
	}
	if p.AreaType != nil {
		s.draft.AreaType = *p.AreaType
	}
	if p.Authority != nil {
		s.draft.Authority = *p.Authority
		s.authorityTouched = true
	}

	s.recomputeAuthority()

	area, city, state := s.draft.Location.Area, s.draft.Location.City, s.draft.Location.State
	s.mu.Unlock()

	if locationEdited {
		s.resolver.NoteEdit(area, city, state)
	}
	return nil
}

// Locate resolves a device-reported GPS position to address fields.
//
// Components fill only fields that are empty or never edited by hand;
// a village component flips the area type to rural.
func (s *Session) Locate(ctx context.Context, lat, lon float64) error {
	addr, err := s.resolver.Locate(ctx, lat, lon)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if addr.State != "" && (!s.stateTouched || s.draft.Location.State == "") {
		s.draft.Location.State = addr.State
	}
	if addr.City != "" && (!s.cityTouched || s.draft.Location.City == "") {
		s.draft.Location.City = addr.City
	}
	if addr.Area != "" && (!s.areaTouched || s.draft.Location.Area == "") {
		s.draft.Location.Area = addr.Area
	}
	if addr.Rural {
		s.draft.AreaType = complaint.AreaRural
	} else {
		s.draft.AreaType = complaint.AreaUrban
	}

	s.recomputeAuthority()
	return nil
}

// SetImage attaches photo evidence to the draft.
func (s *Session) SetImage(dataURL string) error {
	if err := complaint.ValidateImage(dataURL); err != nil {
		return cerrors.NewValidationError("image", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Image = dataURL
	return nil
}

// SetSignature attaches a signature image to the draft. An empty
// value removes it.
func (s *Session) SetSignature(dataURL string) error {
	if err := complaint.ValidateImage(dataURL); err != nil {
		return cerrors.NewValidationError("signature", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Signature = dataURL
	return nil
}

// Next advances one step. The details gate blocks 2→3; 3→4 is only
// reachable through Generate; Review is terminal.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.step {
	case StepProblemSelection:
		if s.draft.Type == "" {
			return cerrors.NewValidationError("category", "select a complaint category first")
		}
		s.step = StepDetailsConfig
	case StepDetailsConfig:
		if !s.draft.DetailsComplete() {
			return cerrors.NewValidationError("details",
				"area, city, state and a longer description are required")
		}
		s.step = StepPhotoCapture
	case StepPhotoCapture:
		return cerrors.NewValidationError("step", "generate the letter to continue")
	case StepReview:
		return cerrors.NewValidationError("step", "the review step is the last one")
	}
	return nil
}

// Back moves one step back, unconditionally. Returning from Review
// keeps the generated letter and the persisted record.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step > StepProblemSelection {
		s.step--
	}
}

// Generate runs the letter pipeline and persists the record.
//
// Only reachable from the evidence step: the details gate has already
// held by then, so no record can be created from an empty draft. Once
// past the gate the pipeline itself never fails; a fallback still
// yields a usable letter. The session's record id is allocated on
// first generation and reused afterwards, so regenerating overwrites
// the same record instead of creating a second one. Storage failures
// are logged and swallowed.
func (s *Session) Generate(ctx context.Context) (string, complaint.Record, error) {
	s.mu.Lock()
	if s.step != StepPhotoCapture && s.step != StepReview {
		s.mu.Unlock()
		return "", complaint.Record{}, cerrors.NewValidationError("step",
			"complete the details step before generating the letter")
	}
	if !s.draft.DetailsComplete() {
		s.mu.Unlock()
		return "", complaint.Record{}, cerrors.NewValidationError("details",
			"area, city, state and a longer description are required")
	}
	if s.draft.AreaType == "" {
		s.draft.AreaType = complaint.AreaUrban
	}
	draft := s.draft
	firstGeneration := s.recordID == ""
	if firstGeneration {
		s.recordID = uuid.NewString()
	}
	recordID := s.recordID
	s.mu.Unlock()

	text, fromFallback := s.pipeline.Letter(ctx, &draft)

	rec := complaint.NewRecord(recordID, &draft, text)
	if err := s.store.Save(rec); err != nil {
		// Best-effort persistence: the citizen still gets the letter
		log.Printf("⚠️  Failed to persist complaint record: %v", err)
	}

	s.mu.Lock()
	s.letter = text
	s.fallback = fromFallback
	s.step = StepReview
	s.mu.Unlock()

	if firstGeneration && s.notifier != nil {
		s.notifier.NotifyNewRecord(rec)
	}
	return text, rec, nil
}

// AutoFillDescription produces a short description for the details
// step. Never fails; the deterministic fallback covers a missing or
// failing generative service.
func (s *Session) AutoFillDescription(ctx context.Context) string {
	s.mu.Lock()
	draft := s.draft
	s.mu.Unlock()

	text := s.pipeline.Description(ctx, &draft)

	s.mu.Lock()
	s.draft.Description = text
	s.mu.Unlock()
	return text
}

// UpdateLetter applies a manual edit to the generated letter and, if a
// record exists, persists it in place.
func (s *Session) UpdateLetter(text string) {
	s.mu.Lock()
	s.letter = text
	recordID := s.recordID
	s.mu.Unlock()

	if recordID == "" {
		return
	}
	if err := s.store.UpdateLetter(recordID, text); err != nil {
		log.Printf("⚠️  Failed to persist letter edit: %v", err)
	}
}

// Close releases the session's resources (pending geocode timers).
func (s *Session) Close() {
	s.resolver.Stop()
}

// recomputeAuthority refreshes the suggested authority from the
// current inputs. Caller must hold the mutex. Once the citizen has
// edited the field the suggestion engine never writes it again.
func (s *Session) recomputeAuthority() {
	if s.authorityTouched {
		return
	}
	areaType := s.draft.AreaType
	if areaType == "" {
		areaType = complaint.AreaUrban
	}
	s.draft.Authority = authority.Suggest(s.draft.Type, areaType, s.draft.Location.City)
}
