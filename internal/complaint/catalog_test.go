package complaint

import (
	"sort"
	"testing"
)

func TestStatesSortedAndStable(t *testing.T) {
	first := States()
	if len(first) == 0 {
		t.Fatal("no states in the catalog")
	}
	if !sort.StringsAreSorted(first) {
		t.Errorf("states not sorted: %v", first)
	}
	second := States()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("order changed between calls: %v vs %v", first, second)
		}
	}
}

func TestCitySuggestions(t *testing.T) {
	tests := []struct {
		state, typed string
		want         []string
	}{
		{"Maharashtra", "pu", []string{"Pune"}},
		{"Maharashtra", "Na", []string{"Nagpur", "Nashik"}},
		{"Maharashtra", "xyz", nil},
		{"Narnia", "pu", nil},
	}
	for _, tt := range tests {
		got := CitySuggestions(tt.state, tt.typed)
		if len(got) != len(tt.want) {
			t.Errorf("CitySuggestions(%q, %q) = %v, want %v", tt.state, tt.typed, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("CitySuggestions(%q, %q) = %v, want %v", tt.state, tt.typed, got, tt.want)
				break
			}
		}
	}
}
