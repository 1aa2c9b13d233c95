package factory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/extras"
	"github.com/katalvlaran/synthpop/family"
	"github.com/katalvlaran/synthpop/person"
	"github.com/katalvlaran/synthpop/rng"
)

// TestSeed is the stream seed used by formation tests.
const TestSeed = 42

// mk creates a person or fails the test.
func mk(t *testing.T, r *person.Registry, s demography.RelationshipStatus, sex demography.Sex, age int) *person.Person {
	t.Helper()
	p, err := r.Create(s, sex, age)
	require.NoError(t, err, "Create(%s, %s, %d)", s, sex, age)
	return p
}

// decadeBands returns 10-year bands 0-9 ... 80-89 plus 90-120.
func decadeBands(t *testing.T) demography.Bands {
	t.Helper()
	var ranges []demography.AgeRange
	for lo := 0; lo < 90; lo += 10 {
		ranges = append(ranges, demography.AgeRange{Min: lo, Max: lo + 9})
	}
	ranges = append(ranges, demography.AgeRange{Min: 90, Max: 120})
	b, err := demography.NewBands(ranges...)
	require.NoError(t, err)
	return b
}

// shortHandler returns no persons and no error.
type shortHandler struct{}

func (shortHandler) PersonsFromExtras(*rng.Stream, extras.Filter, int) ([]*person.Person, error) {
	return nil, nil
}

func (shortHandler) ChildrenFromExtras(*rng.Stream, demography.Sex, []demography.AgeRange, int) ([]*person.Person, error) {
	return nil, nil
}

// validateMembers checks the relationship structure of every member.
func validateMembers(t *testing.T, reg *person.Registry, fams []*family.Family) {
	t.Helper()
	for _, f := range fams {
		for _, id := range f.MemberIDs() {
			require.NoError(t, reg.Validate(id), "family %d member %s", f.ID, id)
			owner, ok := reg.Owner(id)
			require.True(t, ok)
			require.Equal(t, uint64(f.ID), owner)
		}
	}
}

func memberIDs(fams []*family.Family) [][]person.ID {
	out := make([][]person.ID, len(fams))
	for i, f := range fams {
		out[i] = f.MemberIDs()
	}
	return out
}
