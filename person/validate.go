package person

import (
	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/synthpop/demography"
)

// presence is the requirement a status places on one relational field.
type presence uint8

const (
	anyPresence presence = iota
	mustBeAbsent
	mustBePresent
)

func (p presence) String() string {
	switch p {
	case mustBeAbsent:
		return "absent"
	case mustBePresent:
		return "present"
	default:
		return "any"
	}
}

// field is one column of the structure table. parents folds mother and
// father: present means at least one of them is set.
type field uint8

const (
	fieldPartner field = iota
	fieldParents
	fieldChildren
	fieldSiblings
	fieldRelatives
	fieldGroup
	numFields
)

var fieldNames = [numFields]string{"partner", "mother/father", "children", "siblings", "relatives", "groupHouseholdMembers"}

type pattern [numFields]presence

// structure maps each status to its required presence pattern.
//
//	partner, parents, children, siblings, relatives, group
var structure = map[demography.RelationshipStatus]pattern{
	demography.LonePerson:     {mustBeAbsent, mustBeAbsent, mustBeAbsent, mustBeAbsent, mustBeAbsent, mustBeAbsent},
	demography.Relative:       {mustBeAbsent, mustBeAbsent, mustBeAbsent, mustBeAbsent, mustBePresent, mustBeAbsent},
	demography.Married:        {mustBePresent, mustBeAbsent, anyPresence, mustBeAbsent, anyPresence, mustBeAbsent},
	demography.U15Child:       {mustBeAbsent, mustBePresent, mustBeAbsent, anyPresence, anyPresence, mustBeAbsent},
	demography.Student:        {mustBeAbsent, mustBePresent, mustBeAbsent, anyPresence, anyPresence, mustBeAbsent},
	demography.O15Child:       {mustBeAbsent, mustBePresent, mustBeAbsent, anyPresence, anyPresence, mustBeAbsent},
	demography.LoneParent:     {mustBeAbsent, mustBeAbsent, mustBePresent, mustBeAbsent, mustBeAbsent, mustBeAbsent},
	demography.GroupHousehold: {mustBeAbsent, mustBeAbsent, mustBeAbsent, mustBeAbsent, mustBeAbsent, mustBePresent},
}

// observed returns which fields are populated for id. Caller holds mu.
func (r *Registry) observed(id ID) [numFields]bool {
	m := r.links[id]
	var got [numFields]bool
	got[fieldPartner] = len(m[RelPartner]) > 0
	got[fieldParents] = len(m[RelMother]) > 0 || len(m[RelFather]) > 0
	got[fieldChildren] = len(m[RelChild]) > 0
	got[fieldSiblings] = len(m[RelSibling]) > 0
	got[fieldRelatives] = len(m[RelRelative]) > 0
	got[fieldGroup] = len(m[RelGroupMember]) > 0
	return got
}

// Validate checks that id's relationships match the pattern required by its status.
//
// Errors:
//   - ErrPersonNotFound: unknown id.
//   - ErrStructureViolation: first offending field, with status and expectation in the detail.
//
// Complexity: O(1).
func (r *Registry) Validate(id ID) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.validateLocked(id)
}

func (r *Registry) validateLocked(id ID) error {
	p, ok := r.persons[id]
	if !ok {
		return errors.Wrapf(ErrPersonNotFound, "id %s", id)
	}
	want, ok := structure[p.Status]
	if !ok {
		return errors.WithDetailf(ErrStructureViolation, "person %s has unknown status %s", id, p.Status)
	}
	got := r.observed(id)
	for f := field(0); f < numFields; f++ {
		switch {
		case want[f] == mustBeAbsent && got[f], want[f] == mustBePresent && !got[f]:
			return errors.WithDetailf(ErrStructureViolation,
				"person %s (%s): %s must be %s", id, p.Status, fieldNames[f], want[f])
		}
	}
	return nil
}

// ValidateAll validates every person in ascending id order. It returns the
// first violation, annotated with the total number of invalid persons.
func (r *Registry) ValidateAll() error {
	ids := r.IDs()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var first error
	bad := 0
	for _, id := range ids {
		if err := r.validateLocked(id); err != nil {
			if first == nil {
				first = err
			}
			bad++
		}
	}
	if first != nil {
		return errors.WithDetailf(first, "%d of %d persons invalid", bad, len(ids))
	}
	return nil
}
