package person_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/person"
)

func TestPool_QueueOps(t *testing.T) {
	r := person.NewRegistry()
	a := MustCreate(t, r, demography.Relative, demography.Male, 20)
	b := MustCreate(t, r, demography.Relative, demography.Male, 50)
	c := MustCreate(t, r, demography.Relative, demography.Male, 35)

	pool := person.Pool{a, b, c}

	front, ok := pool.Front()
	require.True(t, ok)
	assert.Same(t, a, front)

	got, ok := pool.PopFront()
	require.True(t, ok)
	assert.Same(t, a, got)
	assert.Equal(t, 2, pool.Len())

	pool.PushBack(got)
	assert.Equal(t, []person.ID{b.ID, c.ID, a.ID}, pool.IDs())

	removed := pool.RemoveAt(1)
	assert.Same(t, c, removed)
	assert.Equal(t, []person.ID{b.ID, a.ID}, pool.IDs())

	var empty person.Pool
	_, ok = empty.PopFront()
	assert.False(t, ok)
	_, ok = empty.Front()
	assert.False(t, ok)
}

// TestPool_SortByAgeRange_Stable verifies band ordering keeps insertion order
// within a band.
func TestPool_SortByAgeRange_Stable(t *testing.T) {
	r := person.NewRegistry()
	y1 := MustCreate(t, r, demography.Married, demography.Male, 16) // 15-29
	o1 := MustCreate(t, r, demography.Married, demography.Male, 70) // 60-74
	y2 := MustCreate(t, r, demography.Married, demography.Male, 29) // 15-29
	m1 := MustCreate(t, r, demography.Married, demography.Male, 44) // 30-44

	pool := person.Pool{y1, o1, y2, m1}
	pool.SortByAgeRange(true)
	assert.Equal(t, []person.ID{o1.ID, m1.ID, y1.ID, y2.ID}, pool.IDs())

	pool.SortByAgeRange(false)
	assert.Equal(t, []person.ID{y1.ID, y2.ID, m1.ID, o1.ID}, pool.IDs())
}

// TestPool_SortByAge orders by exact age inside a band; equal ages keep
// insertion order.
func TestPool_SortByAge(t *testing.T) {
	r := person.NewRegistry()
	a31 := MustCreate(t, r, demography.Married, demography.Male, 31) // 30-44
	a40 := MustCreate(t, r, demography.Married, demography.Male, 40) // 30-44
	a16 := MustCreate(t, r, demography.Married, demography.Male, 16) // 15-29
	b40 := MustCreate(t, r, demography.Married, demography.Male, 40) // 30-44

	pool := person.Pool{a31, a40, a16, b40}
	pool.SortByAge(true)
	assert.Equal(t, []person.ID{a40.ID, b40.ID, a31.ID, a16.ID}, pool.IDs())

	pool.SortByAge(false)
	assert.Equal(t, []person.ID{a16.ID, a31.ID, a40.ID, b40.ID}, pool.IDs())
}
