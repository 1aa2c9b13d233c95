package person_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/person"
)

// TestRegistry_CreateAssignsMonotonicIDs verifies ids start at 1 and grow by one.
func TestRegistry_CreateAssignsMonotonicIDs(t *testing.T) {
	r := person.NewRegistry()
	a := MustCreate(t, r, demography.LonePerson, demography.Male, AgeAdult)
	b := MustCreate(t, r, demography.LonePerson, demography.Female, AgeSenior)

	assert.Equal(t, person.ID(1), a.ID)
	assert.Equal(t, person.ID(2), b.ID)
	assert.Equal(t, demography.A30to44, a.AgeRange)
	assert.Equal(t, demography.A60to74, b.AgeRange)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []person.ID{1, 2}, r.IDs())

	got, err := r.Get(b.ID)
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = r.Get(99)
	assert.ErrorIs(t, err, person.ErrPersonNotFound)
}

func TestRegistry_CreateRejectsInvalid(t *testing.T) {
	r := person.NewRegistry()

	_, err := r.Create(0, demography.Male, AgeAdult)
	assert.ErrorIs(t, err, person.ErrInvalidPerson, "unknown status")

	_, err = r.Create(demography.Married, demography.SexUnspecified, AgeAdult)
	assert.ErrorIs(t, err, person.ErrInvalidPerson, "unspecified sex")

	_, err = r.Create(demography.Married, demography.Male, 130)
	assert.ErrorIs(t, err, person.ErrInvalidPerson, "age outside bands")

	assert.Zero(t, r.Len(), "failed creates must not register anyone")
}

func TestRegistry_WithBands(t *testing.T) {
	decades, err := demography.NewBands(
		demography.AgeRange{Min: 0, Max: 9},
		demography.AgeRange{Min: 10, Max: 19},
	)
	require.NoError(t, err)

	r := person.NewRegistry(person.WithBands(decades))
	p := MustCreate(t, r, demography.U15Child, demography.Male, 12)
	assert.Equal(t, demography.AgeRange{Min: 10, Max: 19}, p.AgeRange)
	assert.Equal(t, decades, r.Bands())
}

// TestRegistry_Claim enforces exclusive family membership.
func TestRegistry_Claim(t *testing.T) {
	r := person.NewRegistry()
	p := MustCreate(t, r, demography.Relative, demography.Male, AgeAdult)

	require.NoError(t, r.Claim(p.ID, 1))
	require.NoError(t, r.Claim(p.ID, 1), "re-claim by the same family is a no-op")
	assert.ErrorIs(t, r.Claim(p.ID, 2), person.ErrInvariantViolation)

	owner, ok := r.Owner(p.ID)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), owner)

	assert.ErrorIs(t, r.Claim(42, 1), person.ErrPersonNotFound)
}

// TestRegistry_ConcurrentCreate checks ids stay unique under concurrent creation.
func TestRegistry_ConcurrentCreate(t *testing.T) {
	const workers, perWorker = 8, 50
	r := person.NewRegistry()

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := r.Create(demography.LonePerson, demography.Female, AgeAdult); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	ids := r.IDs()
	require.Len(t, ids, workers*perWorker)
	assert.Equal(t, person.ID(1), ids[0])
	assert.Equal(t, person.ID(workers*perWorker), ids[len(ids)-1])
}

func TestPerson_String(t *testing.T) {
	r := person.NewRegistry()
	p := MustCreate(t, r, demography.LoneParent, demography.Female, 41)
	assert.Equal(t, "#1 LONE_PARENT Female 41 (30-44)", p.String())
	assert.True(t, p.CanParent())
	assert.False(t, p.IsChild())
}
