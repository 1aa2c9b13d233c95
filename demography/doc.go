// Package demography defines the closed demographic vocabularies used as
// matching keys across synthpop: Sex, RelationshipStatus and AgeRange.
//
// AgeRange is a value type with inclusive Min/Max bounds. Ranges are totally
// ordered by Min (ties broken by Max), which is the order every pool sort in
// the factory relies on. The set of ranges a run may use is a Bands catalogue:
//
//	bands := demography.DefaultBands()  // 0-14, 15-29, 30-44, 45-59, 60-74, 75-89, 90-120
//	r, err := bands.Of(37)              // 30-44
//
// Sex has a zero value (SexUnspecified) that is never valid on a person but
// reads as "unconstrained" inside filters.
//
// Errors:
//
//	ErrUnknownSex     - textual sex value not recognised.
//	ErrUnknownStatus  - textual relationship status not recognised.
//	ErrAgeOutOfRange  - age not covered by any band of the catalogue.
//	ErrBadBands       - catalogue empty, unordered, overlapping or negative.
package demography
