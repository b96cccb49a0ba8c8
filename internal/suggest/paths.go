package suggest

import "regexp"

// Field paths are caller-supplied strings, so they are checked against the
// declared spot schema before any suggestion is stored. Everything outside
// this set is rejected at the boundary.

var suggestibleScalarPaths = map[string]struct{}{
	"place_name":                           {},
	"address":                              {},
	"region":                               {},
	"expert_tip_final":                     {},
	"tags":                                 {},
	"average_duration_minutes":             {},
	"import_url":                           {},
	"attributes.targetAudience":            {},
	"attributes.recommendedSeasons":        {},
	"attributes.withKids":                  {},
	"attributes.withPets":                  {},
	"attributes.parkingDifficulty":         {},
	"attributes.admissionFee":              {},
	"attributes.recommended_time_of_day":   {},
	"public_info.operating_hours":          {},
	"public_info.phone_number":             {},
	"public_info.website_url":              {},
	"public_info.closed_days":              {},
	"category_specific_info.signatureMenu": {},
	"category_specific_info.priceRange":    {},
	"category_specific_info.difficulty":    {},
}

var suggestibleIndexedPath = regexp.MustCompile(
	`^(images\[\d+\]\.caption|comments\[\d+\]\.content|categories\[\d+\]|tags\[\d+\])$`)

// ValidFieldPath reports whether a path names a suggestible field.
func ValidFieldPath(path string) bool {
	if _, ok := suggestibleScalarPaths[path]; ok {
		return true
	}
	return suggestibleIndexedPath.MatchString(path)
}
