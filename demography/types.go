package demography

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for demographic parsing and catalogue validation.
var (
	// ErrUnknownSex indicates an unrecognised textual sex value.
	ErrUnknownSex = errors.New("demography: unknown sex")

	// ErrUnknownStatus indicates an unrecognised relationship status.
	ErrUnknownStatus = errors.New("demography: unknown relationship status")

	// ErrAgeOutOfRange indicates an age outside every band of a catalogue.
	ErrAgeOutOfRange = errors.New("demography: age not covered by any band")

	// ErrBadBands indicates an invalid age band catalogue.
	ErrBadBands = errors.New("demography: invalid age bands")
)

// Sex of a person. The zero value means "unspecified" and is only meaningful
// as an unconstrained filter.
type Sex uint8

const (
	SexUnspecified Sex = iota
	Male
	Female
)

// String returns the census spelling ("Male", "Female") or "Unspecified".
func (s Sex) String() string {
	switch s {
	case Male:
		return "Male"
	case Female:
		return "Female"
	default:
		return "Unspecified"
	}
}

// Valid reports whether s is Male or Female.
func (s Sex) Valid() bool { return s == Male || s == Female }

// ParseSex accepts "male"/"m" and "female"/"f" in any case. An empty string
// parses to SexUnspecified.
func ParseSex(v string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return SexUnspecified, nil
	case "male", "m":
		return Male, nil
	case "female", "f":
		return Female, nil
	}
	return SexUnspecified, errors.Wrapf(ErrUnknownSex, "%q", v)
}

// RelationshipStatus is the household relationship category of a person.
type RelationshipStatus uint8

const (
	LonePerson RelationshipStatus = iota + 1
	Relative
	Married
	U15Child
	Student
	O15Child
	LoneParent
	GroupHousehold
)

var statusNames = [...]string{
	LonePerson:     "LONE_PERSON",
	Relative:       "RELATIVE",
	Married:        "MARRIED",
	U15Child:       "U15_CHILD",
	Student:        "STUDENT",
	O15Child:       "O15_CHILD",
	LoneParent:     "LONE_PARENT",
	GroupHousehold: "GROUP_HOUSEHOLD",
}

// String returns the census code of the status, e.g. "LONE_PARENT".
func (s RelationshipStatus) String() string {
	if s >= LonePerson && s <= GroupHousehold {
		return statusNames[s]
	}
	return "RelationshipStatus(" + strconv.Itoa(int(s)) + ")"
}

// Valid reports whether s is one of the declared statuses.
func (s RelationshipStatus) Valid() bool { return s >= LonePerson && s <= GroupHousehold }

// IsChild reports whether the status is one of the child statuses.
func (s RelationshipStatus) IsChild() bool {
	return s == U15Child || s == Student || s == O15Child
}

// CanParent reports whether a person of this status may be recorded as a parent.
func (s RelationshipStatus) CanParent() bool {
	return s == Married || s == LoneParent
}

// ParseRelationshipStatus parses a census code such as "O15_CHILD" (case-insensitive).
func ParseRelationshipStatus(v string) (RelationshipStatus, error) {
	key := strings.ToUpper(strings.TrimSpace(v))
	for s := LonePerson; s <= GroupHousehold; s++ {
		if statusNames[s] == key {
			return s, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownStatus, "%q", v)
}

// Statuses returns every relationship status in declaration order.
func Statuses() []RelationshipStatus {
	out := make([]RelationshipStatus, 0, len(statusNames)-1)
	for s := LonePerson; s <= GroupHousehold; s++ {
		out = append(out, s)
	}
	return out
}

// ChildStatuses returns the statuses for which IsChild is true.
func ChildStatuses() []RelationshipStatus {
	return []RelationshipStatus{U15Child, Student, O15Child}
}
