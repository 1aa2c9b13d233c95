package factory

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/synthpop/family"
	"github.com/katalvlaran/synthpop/logger"
	"github.com/katalvlaran/synthpop/person"
)

// shortfall builds, logs and counts a NotEnoughPersonsError.
func (f *Factory) shortfall(op string, requested int, fams []*family.Family, cause error) error {
	f.metrics.IncShortfall(op)
	f.log.Warnw("not enough persons",
		logger.FieldOperation, op,
		logger.FieldRequested, requested,
		logger.FieldFormed, len(fams),
		logger.FieldError, cause,
	)
	return &NotEnoughPersonsError{Op: op, Requested: requested, Families: fams, Cause: cause}
}

// topUp asks draw for exactly need - pool.Len() persons and appends them.
// It is a no-op when the pool already holds need persons.
func (f *Factory) topUp(op, poolName string, pool *person.Pool, need int, draw func(n int) ([]*person.Person, error)) error {
	short := need - pool.Len()
	if short <= 0 {
		return nil
	}
	got, err := draw(short)
	if err != nil {
		return err
	}
	pool.PushBack(got...)
	for _, p := range got {
		f.metrics.AddExtras(p.Status.String(), 1)
	}
	f.log.Debugw("pool topped up from extras",
		logger.FieldOperation, op,
		logger.FieldPool, poolName,
		logger.FieldShortfall, short,
		logger.FieldCount, len(got),
	)
	return nil
}

// commit assigns the next family id, claims every member and records the family.
func (f *Factory) commit(fam *family.Family) error {
	f.nextID++
	fam.ID = f.nextID
	for _, m := range fam.Members() {
		if err := f.reg.Claim(m.ID, uint64(fam.ID)); err != nil {
			return errors.Wrapf(err, "factory: claim member %s for family %d", m.ID, fam.ID)
		}
	}
	f.metrics.IncFamily(fam.Type.String())
	f.log.Debugw("family formed",
		logger.FieldFamily, fam.ID,
		logger.FieldType, fam.Type.String(),
		logger.FieldCount, fam.Size(),
	)
	return nil
}

func checkCount(count int) error {
	if count < 0 {
		return errors.WithDetailf(ErrInvalidCount, "got %d", count)
	}
	return nil
}

// sortFamilies stable-sorts fams by youngest parent age range, oldest first
// when desc is true.
func sortFamilies(fams []*family.Family, desc bool) {
	slices.SortStableFunc(fams, func(a, b *family.Family) int {
		if desc {
			return family.CompareYoungestParent(b, a)
		}
		return family.CompareYoungestParent(a, b)
	})
}
