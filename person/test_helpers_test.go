// Package person_test contains fixtures shared by the registry tests.
package person_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/person"
)

// Ages used across tests (avoid magic numbers in test bodies).
const (
	AgeChild  = 8
	AgeTeen   = 17
	AgeAdult  = 38
	AgeSenior = 66
)

// MustCreate creates a person or fails the test.
func MustCreate(t *testing.T, r *person.Registry, s demography.RelationshipStatus, sex demography.Sex, age int) *person.Person {
	t.Helper()
	p, err := r.Create(s, sex, age)
	require.NoError(t, err, "Create(%s, %s, %d)", s, sex, age)
	return p
}

// familyOf builds a married couple and one U15 child in a fresh registry.
func familyOf(t *testing.T) (r *person.Registry, husband, wife, child *person.Person) {
	t.Helper()
	r = person.NewRegistry()
	husband = MustCreate(t, r, demography.Married, demography.Male, AgeAdult)
	wife = MustCreate(t, r, demography.Married, demography.Female, AgeAdult)
	child = MustCreate(t, r, demography.U15Child, demography.Female, AgeChild)
	return r, husband, wife, child
}
