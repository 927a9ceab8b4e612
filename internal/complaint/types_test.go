package complaint

import (
	"strings"
	"testing"
)

func TestDetailsComplete(t *testing.T) {
	tests := []struct {
		name     string
		draft    Draft
		expected bool
	}{
		{
			name: "all fields present",
			draft: Draft{
				Location:    LocationDetails{Area: "MG Road", City: "Pune", State: "Maharashtra"},
				Description: "No water for 5 days",
			},
			expected: true,
		},
		{
			name: "missing area",
			draft: Draft{
				Location:    LocationDetails{City: "Pune", State: "Maharashtra"},
				Description: "No water for 5 days",
			},
			expected: false,
		},
		{
			name: "missing city",
			draft: Draft{
				Location:    LocationDetails{Area: "MG Road", State: "Maharashtra"},
				Description: "No water for 5 days",
			},
			expected: false,
		},
		{
			name: "missing state",
			draft: Draft{
				Location:    LocationDetails{Area: "MG Road", City: "Pune"},
				Description: "No water for 5 days",
			},
			expected: false,
		},
		{
			name: "description too short",
			draft: Draft{
				Location:    LocationDetails{Area: "MG Road", City: "Pune", State: "Maharashtra"},
				Description: "bad",
			},
			expected: false,
		},
		{
			name: "description exactly at boundary is rejected",
			draft: Draft{
				Location:    LocationDetails{Area: "MG Road", City: "Pune", State: "Maharashtra"},
				Description: "12345",
			},
			expected: false,
		},
		{
			name: "whitespace-only area is rejected",
			draft: Draft{
				Location:    LocationDetails{Area: "   ", City: "Pune", State: "Maharashtra"},
				Description: "No water for 5 days",
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.draft.DetailsComplete(); got != tt.expected {
				t.Errorf("expected %v but got %v", tt.expected, got)
			}
		})
	}
}

func TestTypeIsValid(t *testing.T) {
	for _, typ := range AllTypes {
		if !typ.IsValid() {
			t.Errorf("expected %q to be valid", typ)
		}
	}

	if Type("Noise Pollution").IsValid() {
		t.Error("expected unknown type to be invalid")
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusDownloaded, StatusSubmitted, StatusResolved} {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	if Status("Archived").IsValid() {
		t.Error("expected unknown status to be invalid")
	}
}

func TestNewRecord(t *testing.T) {
	draft := &Draft{
		Type:        TypeWater,
		Location:    LocationDetails{Area: "MG Road", City: "Pune", State: "Maharashtra"},
		Description: "No water for 5 days",
		Language:    LangEnglish,
		Template:    TemplateNormal,
		Authority:   "The Municipal Commissioner",
	}

	rec := NewRecord("abc-123", draft, "letter body")

	if rec.ID != "abc-123" {
		t.Errorf("expected id 'abc-123' but got %q", rec.ID)
	}
	if rec.Status != StatusDraft {
		t.Errorf("expected new record status Draft but got %q", rec.Status)
	}
	if rec.GeneratedLetter != "letter body" {
		t.Errorf("unexpected letter: %q", rec.GeneratedLetter)
	}
	if rec.DateCreated == "" {
		t.Error("expected dateCreated to be set")
	}
}

func TestValidateImage(t *testing.T) {
	if err := ValidateImage(""); err != nil {
		t.Errorf("empty image should be allowed, got: %v", err)
	}

	if err := ValidateImage("data:image/png;base64,iVBORw0KGgo="); err != nil {
		t.Errorf("small data URL should be allowed, got: %v", err)
	}

	if err := ValidateImage("nonsense"); err == nil {
		t.Error("expected error for non data URL payload")
	}

	huge := "data:image/png;base64," + strings.Repeat("A", MaxImageBytes*4/3+256)
	if err := ValidateImage(huge); err == nil {
		t.Error("expected error for oversized image")
	}
}

func TestCitySuggestionsContainsPune(t *testing.T) {
	got := CitySuggestions("Maharashtra", "pu")
	found := false
	for _, city := range got {
		if city == "Pune" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Pune in suggestions, got %v", got)
	}

	if got := CitySuggestions("Atlantis", "x"); got != nil {
		t.Errorf("expected nil for unknown state, got %v", got)
	}
}
