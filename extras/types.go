// Package extras supplies additional persons when a formation pool is short.
//
// The "extras" are a secondary, larger demographic distribution. A Handler
// manufactures fresh persons matching a Filter; the factory asks for exactly
// the shortfall of a pool, once, before pairing starts.
//
// Contract:
//   - PersonsFromExtras returns exactly n persons each satisfying every
//     constrained field of the filter, or an error.
//   - ChildrenFromExtras is PersonsFromExtras restricted to child statuses.
//   - n == 0 returns an empty result and never fails.
package extras

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/person"
	"github.com/katalvlaran/synthpop/rng"
)

var (
	// ErrNoSupply indicates the distribution cannot supply the requested persons.
	ErrNoSupply = errors.New("extras: not enough supply")

	// ErrBadCell indicates a malformed distribution cell.
	ErrBadCell = errors.New("extras: invalid distribution cell")
)

// Filter restricts generated persons. Zero-valued fields are unconstrained.
type Filter struct {
	Statuses  []demography.RelationshipStatus
	Sex       demography.Sex
	AgeRanges []demography.AgeRange
}

// Match reports whether a (status, sex, ageRange) combination passes f.
func (f Filter) Match(status demography.RelationshipStatus, sex demography.Sex, ar demography.AgeRange) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, status) {
		return false
	}
	if f.Sex != demography.SexUnspecified && f.Sex != sex {
		return false
	}
	if len(f.AgeRanges) > 0 && !slices.Contains(f.AgeRanges, ar) {
		return false
	}
	return true
}

// Handler generates persons on demand.
type Handler interface {
	PersonsFromExtras(r *rng.Stream, f Filter, n int) ([]*person.Person, error)
	ChildrenFromExtras(r *rng.Stream, sex demography.Sex, ageRanges []demography.AgeRange, n int) ([]*person.Person, error)
}

// Empty is a Handler with no supply at all.
type Empty struct{}

// PersonsFromExtras fails with ErrNoSupply for any n > 0.
func (Empty) PersonsFromExtras(_ *rng.Stream, _ Filter, n int) ([]*person.Person, error) {
	if n <= 0 {
		return nil, nil
	}
	return nil, errors.Wrapf(ErrNoSupply, "empty extras asked for %d", n)
}

// ChildrenFromExtras fails with ErrNoSupply for any n > 0.
func (e Empty) ChildrenFromExtras(r *rng.Stream, sex demography.Sex, ranges []demography.AgeRange, n int) ([]*person.Person, error) {
	return e.PersonsFromExtras(r, Filter{Statuses: demography.ChildStatuses(), Sex: sex, AgeRanges: ranges}, n)
}
