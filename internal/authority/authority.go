// Package authority suggests the recipient-authority block for a
// complaint letter.
//
// The suggestion is a pure function of (category, area type, city):
// identical inputs always produce byte-identical output. Callers are
// responsible for deciding whether the suggestion may overwrite a
// field the citizen has already edited.
package authority

import (
	"fmt"
	"regexp"
	"strings"

	"civiclens/internal/complaint"
)

// departments maps a complaint category to the municipal department
// handling it.
var departments = map[complaint.Type]string{
	complaint.TypeRoad:        "Public Works Department (PWD)",
	complaint.TypeDrainage:    "Drainage & Sewerage Department",
	complaint.TypeStreetLight: "Electricity Department / Street Light Wing",
	complaint.TypeWater:       "Water Supply Department",
	complaint.TypeGarbage:     "Department of Sanitation & Solid Waste Management",
	complaint.TypeOther:       "Public Grievance Cell",
}

// defaultDepartment is used for categories missing from the table.
const defaultDepartment = "General Administration Department"

// municipalCorporations are the metro cities governed by a Municipal
// Corporation rather than a Municipal Council.
var municipalCorporations = []string{
	"Mumbai", "Delhi", "Bengaluru", "Chennai", "Kolkata",
	"Hyderabad", "Ahmedabad", "Pune", "Surat", "Jaipur",
}

// suffixPattern strips a trailing City/Town/Village word before
// matching against the corporation list.
var suffixPattern = regexp.MustCompile(`(?i)\s+(City|Town|Village)$`)

// Suggest returns the addressee block for a complaint.
//
// Rules:
//   - category → department via table, unknown → General Administration
//   - urban + metro city → Municipal Commissioner / Corporation
//   - urban + other city → Chief Officer / Municipal Council
//   - rural → Sarpanch / Gram Panchayat
//   - empty city → bracketed placeholder matching the area type
func Suggest(category complaint.Type, areaType complaint.AreaType, city string) string {
	dept, ok := departments[category]
	if !ok {
		dept = defaultDepartment
	}

	placeName := strings.TrimSpace(city)
	if placeName == "" {
		if areaType == complaint.AreaRural {
			placeName = "[Village Name]"
		} else {
			placeName = "[City Name]"
		}
	}

	if areaType == complaint.AreaRural {
		return fmt.Sprintf("The Sarpanch / Gram Sevak,\nGram Panchayat %s,\n%s", placeName, dept)
	}

	cleaned := strings.TrimSpace(suffixPattern.ReplaceAllString(placeName, ""))
	if isCorporation(cleaned) {
		return fmt.Sprintf("The Municipal Commissioner,\n%s Municipal Corporation,\n%s", placeName, dept)
	}
	return fmt.Sprintf("The Chief Officer / Chairman,\n%s Municipal Council (Nagar Palika),\n%s", placeName, dept)
}

func isCorporation(city string) bool {
	for _, metro := range municipalCorporations {
		if strings.EqualFold(city, metro) {
			return true
		}
	}
	return false
}
