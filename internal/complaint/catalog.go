package complaint

import (
	"sort"
	"strings"
)

// statesCities is the auxiliary state → major cities lookup used for
// city auto-suggestion. It is an aid, not a validation source: citizens
// may type any city name.
var statesCities = map[string][]string{
	"Andhra Pradesh": {"Visakhapatnam", "Vijayawada", "Guntur", "Nellore", "Tirupati"},
	"Bihar":          {"Patna", "Gaya", "Bhagalpur", "Muzaffarpur", "Darbhanga"},
	"Delhi":          {"New Delhi", "Delhi", "Dwarka", "Rohini", "Karol Bagh"},
	"Gujarat":        {"Ahmedabad", "Surat", "Vadodara", "Rajkot", "Bhavnagar", "Jamnagar"},
	"Haryana":        {"Gurugram", "Faridabad", "Panipat", "Ambala", "Hisar"},
	"Karnataka":      {"Bengaluru", "Mysuru", "Mangaluru", "Hubballi", "Belagavi"},
	"Kerala":         {"Thiruvananthapuram", "Kochi", "Kozhikode", "Thrissur", "Kollam"},
	"Madhya Pradesh": {"Bhopal", "Indore", "Gwalior", "Jabalpur", "Ujjain"},
	"Maharashtra":    {"Mumbai", "Pune", "Nagpur", "Nashik", "Aurangabad", "Solapur"},
	"Punjab":         {"Ludhiana", "Amritsar", "Jalandhar", "Patiala", "Bathinda"},
	"Rajasthan":      {"Jaipur", "Jodhpur", "Udaipur", "Kota", "Ajmer"},
	"Tamil Nadu":     {"Chennai", "Coimbatore", "Madurai", "Tiruchirappalli", "Salem"},
	"Telangana":      {"Hyderabad", "Warangal", "Nizamabad", "Karimnagar", "Khammam"},
	"Uttar Pradesh":  {"Lucknow", "Kanpur", "Varanasi", "Agra", "Prayagraj", "Ghaziabad"},
	"West Bengal":    {"Kolkata", "Howrah", "Durgapur", "Asansol", "Siliguri"},
}

// States returns the known state names, sorted.
func States() []string {
	states := make([]string, 0, len(statesCities))
	for state := range statesCities {
		states = append(states, state)
	}
	sort.Strings(states)
	return states
}

// CitySuggestions returns the catalog cities of a state whose names
// contain the typed prefix, case-insensitively. An unknown state or
// empty prefix match yields nil.
func CitySuggestions(state, typed string) []string {
	cities, ok := statesCities[state]
	if !ok {
		return nil
	}

	needle := strings.ToLower(typed)
	var matches []string
	for _, city := range cities {
		if strings.Contains(strings.ToLower(city), needle) {
			matches = append(matches, city)
		}
	}
	return matches
}
