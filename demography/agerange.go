package demography

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"
)

// AgeRange is an inclusive bucket of ages in whole years.
type AgeRange struct {
	Min int
	Max int
}

// Common bands of the default catalogue.
var (
	A0to14   = AgeRange{Min: 0, Max: 14}
	A15to29  = AgeRange{Min: 15, Max: 29}
	A30to44  = AgeRange{Min: 30, Max: 44}
	A45to59  = AgeRange{Min: 45, Max: 59}
	A60to74  = AgeRange{Min: 60, Max: 74}
	A75to89  = AgeRange{Min: 75, Max: 89}
	A90to120 = AgeRange{Min: 90, Max: 120}
)

// String renders the range as "Min-Max".
func (a AgeRange) String() string {
	return strconv.Itoa(a.Min) + "-" + strconv.Itoa(a.Max)
}

// Contains reports whether age lies inside the range (inclusive).
func (a AgeRange) Contains(age int) bool { return a.Min <= age && age <= a.Max }

// Compare orders ranges by Min, then Max. It returns -1, 0 or +1.
func (a AgeRange) Compare(b AgeRange) int {
	if c := cmp.Compare(a.Min, b.Min); c != 0 {
		return c
	}
	return cmp.Compare(a.Max, b.Max)
}

// Bands is an ascending, non-overlapping catalogue of age ranges.
// Construct it with NewBands or DefaultBands; a Bands value is never mutated.
type Bands []AgeRange

// DefaultBands returns the 15-year census banding used when no catalogue is configured.
func DefaultBands() Bands {
	return Bands{A0to14, A15to29, A30to44, A45to59, A60to74, A75to89, A90to120}
}

// NewBands validates and returns a catalogue built from ranges.
// The input is copied and sorted; overlapping, negative or inverted ranges
// are rejected with ErrBadBands.
func NewBands(ranges ...AgeRange) (Bands, error) {
	if len(ranges) == 0 {
		return nil, errors.WithDetail(ErrBadBands, "no ranges")
	}
	b := slices.Clone(ranges)
	slices.SortFunc(b, AgeRange.Compare)

	for i, r := range b {
		if r.Min < 0 || r.Min > r.Max {
			return nil, errors.WithDetailf(ErrBadBands, "range %s is inverted or negative", r)
		}
		if i > 0 && b[i-1].Max >= r.Min {
			return nil, errors.WithDetailf(ErrBadBands, "range %s overlaps %s", b[i-1], r)
		}
	}
	return Bands(b), nil
}

// Of returns the band containing age.
func (b Bands) Of(age int) (AgeRange, error) {
	for _, r := range b {
		if r.Contains(age) {
			return r, nil
		}
	}
	return AgeRange{}, errors.Wrapf(ErrAgeOutOfRange, "age %d", age)
}

// Has reports whether r is one of the catalogue's bands.
func (b Bands) Has(r AgeRange) bool {
	return slices.Contains(b, r)
}

// Filter returns, in ascending order, the bands for which keep returns true.
func (b Bands) Filter(keep func(AgeRange) bool) []AgeRange {
	var out []AgeRange
	for _, r := range b {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
