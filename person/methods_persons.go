// File: methods_persons.go
// Role: Person lifecycle & queries on the arena.
//
// Determinism:
//   - IDs are assigned 1, 2, 3, ... in creation order.
//   - IDs() returns ids ascending.
package person

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/synthpop/demography"
)

// Bands returns the catalogue used to derive age ranges.
func (r *Registry) Bands() demography.Bands {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bands
}

// Create registers a new person and returns its record.
//
// Implementation:
//   - Stage 1: Validate status and sex (ErrInvalidPerson).
//   - Stage 2: Derive the age range from the registry's bands (ErrInvalidPerson, band error kept as secondary).
//   - Stage 3: Under the write lock, assign the next ID and store the record.
//
// Complexity: O(bands) for the range lookup, O(1) amortized for insertion.
func (r *Registry) Create(status demography.RelationshipStatus, sex demography.Sex, age int) (*Person, error) {
	if !status.Valid() {
		return nil, errors.WithDetailf(ErrInvalidPerson, "status %s", status)
	}
	if !sex.Valid() {
		return nil, errors.WithDetailf(ErrInvalidPerson, "sex %s", sex)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	band, err := r.bands.Of(age)
	if err != nil {
		return nil, errors.WithSecondaryError(errors.Wrapf(ErrInvalidPerson, "age %d", age), err)
	}

	r.nextID++
	p := &Person{
		ID:       ID(r.nextID),
		Status:   status,
		Age:      age,
		AgeRange: band,
		Sex:      sex,
	}
	r.persons[p.ID] = p
	return p, nil
}

// Get returns the record for id.
func (r *Registry) Get(id ID) (*Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.persons[id]
	if !ok {
		return nil, errors.Wrapf(ErrPersonNotFound, "id %s", id)
	}
	return p, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.persons[id]
	return ok
}

// Len returns the number of registered persons.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.persons)
}

// IDs returns all registered ids in ascending order.
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	ids := make([]ID, 0, len(r.persons))
	for id := range r.persons {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Persons returns all records in ascending id order.
func (r *Registry) Persons() []*Person {
	ids := r.IDs()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Person, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.persons[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Claim records that owner (a family id) owns person id. Claiming again for
// the same owner is a no-op; a different owner is an invariant violation,
// since a person belongs to at most one family per run.
func (r *Registry) Claim(id ID, owner uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.persons[id]; !ok {
		return errors.Wrapf(ErrPersonNotFound, "id %s", id)
	}
	if cur, ok := r.owners[id]; ok && cur != owner {
		return errors.WithDetailf(ErrInvariantViolation,
			"person %s already belongs to family %d, cannot join family %d", id, cur, owner)
	}
	r.owners[id] = owner
	return nil
}

// Owner returns the family id that claimed id, if any.
func (r *Registry) Owner(id ID) (uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.owners[id]
	return o, ok
}
