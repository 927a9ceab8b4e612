package authority

import (
	"strings"
	"testing"

	"civiclens/internal/complaint"
)

func TestSuggest(t *testing.T) {
	tests := []struct {
		name     string
		category complaint.Type
		areaType complaint.AreaType
		city     string
		contains []string
	}{
		{
			name:     "metro city gets municipal corporation",
			category: complaint.TypeWater,
			areaType: complaint.AreaUrban,
			city:     "Pune",
			contains: []string{"The Municipal Commissioner", "Pune Municipal Corporation", "Water Supply Department"},
		},
		{
			name:     "metro match is case-insensitive",
			category: complaint.TypeRoad,
			areaType: complaint.AreaUrban,
			city:     "mumbai",
			contains: []string{"The Municipal Commissioner", "mumbai Municipal Corporation", "Public Works Department (PWD)"},
		},
		{
			name:     "city suffix is stripped before matching",
			category: complaint.TypeRoad,
			areaType: complaint.AreaUrban,
			city:     "Surat City",
			contains: []string{"The Municipal Commissioner", "Surat City Municipal Corporation"},
		},
		{
			name:     "non-metro city gets municipal council",
			category: complaint.TypeDrainage,
			areaType: complaint.AreaUrban,
			city:     "Nashik",
			contains: []string{"The Chief Officer / Chairman", "Nashik Municipal Council (Nagar Palika)", "Drainage & Sewerage Department"},
		},
		{
			name:     "rural gets gram panchayat",
			category: complaint.TypeStreetLight,
			areaType: complaint.AreaRural,
			city:     "Shirur",
			contains: []string{"The Sarpanch / Gram Sevak", "Gram Panchayat Shirur", "Electricity Department / Street Light Wing"},
		},
		{
			name:     "empty urban city uses placeholder",
			category: complaint.TypeGarbage,
			areaType: complaint.AreaUrban,
			city:     "",
			contains: []string{"[City Name]", "Department of Sanitation & Solid Waste Management"},
		},
		{
			name:     "empty rural city uses village placeholder",
			category: complaint.TypeOther,
			areaType: complaint.AreaRural,
			city:     "   ",
			contains: []string{"[Village Name]", "Public Grievance Cell"},
		},
		{
			name:     "unknown category falls back to general administration",
			category: complaint.Type("Noise"),
			areaType: complaint.AreaUrban,
			city:     "Nagpur",
			contains: []string{"General Administration Department"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.category, tt.areaType, tt.city)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected suggestion to contain %q, got:\n%s", want, got)
				}
			}
		})
	}
}

func TestSuggestIsPure(t *testing.T) {
	first := Suggest(complaint.TypeWater, complaint.AreaUrban, "Pune")
	for i := 0; i < 10; i++ {
		if got := Suggest(complaint.TypeWater, complaint.AreaUrban, "Pune"); got != first {
			t.Fatalf("expected byte-identical output on call %d, got:\n%s", i, got)
		}
	}
}
