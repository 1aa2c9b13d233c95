// Package synthesis drives a complete formation run: it builds the base
// population, forms every family type in a fixed order, and reports what is
// left over.
//
// Order of formation:
//  1. couples (COUPLE_ONLY target + COUPLE_WITH_CHILDREN target)
//  2. couples with children, promoted from the couples of step 1
//  3. one-parent families
//  4. other families
package synthesis

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/synthpop/config"
	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/extras"
	"github.com/katalvlaran/synthpop/person"
	"github.com/katalvlaran/synthpop/rng"
)

// PopulationCell creates Count persons with ages uniform in AgeRange.
// AgeRange need not be a band; each person's band is derived from its age.
type PopulationCell struct {
	Status   demography.RelationshipStatus
	Sex      demography.Sex
	AgeRange demography.AgeRange
	Count    int
}

// Targets is the number of units to form per family type.
type Targets struct {
	CoupleOnly         int
	CoupleWithChildren int
	OneParent          int
	OtherFamily        int
}

// ExtrasSource builds the extras handler for one attempt's registry.
type ExtrasSource func(reg *person.Registry) (extras.Handler, error)

// Plan is everything a run needs.
type Plan struct {
	Seed     int64
	Attempts int
	Parallel int
	Bands    demography.Bands
	Cells    []PopulationCell
	Targets  Targets
	// Extras may be nil: no extras.
	Extras ExtrasSource
}

// NoExtras is an ExtrasSource that can supply nobody.
func NoExtras(*person.Registry) (extras.Handler, error) { return extras.Empty{}, nil }

// DistributionFile returns an ExtrasSource that loads the YAML distribution
// at path. The file is read once; each attempt gets its own Distribution.
func DistributionFile(path string) (ExtrasSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "synthesis: read extras %s", path)
	}
	return func(reg *person.Registry) (extras.Handler, error) {
		return extras.LoadDistribution(reg, bytes.NewReader(data))
	}, nil
}

// PlanFromConfig converts a validated configuration to a Plan.
func PlanFromConfig(cfg *config.Config) (Plan, error) {
	bands, err := cfg.AgeBands()
	if err != nil {
		return Plan{}, err
	}

	p := Plan{
		Seed:     cfg.Seed,
		Attempts: cfg.Attempts,
		Parallel: cfg.Parallel,
		Bands:    bands,
		Targets: Targets{
			CoupleOnly:         cfg.Targets.CoupleOnly,
			CoupleWithChildren: cfg.Targets.CoupleWithChildren,
			OneParent:          cfg.Targets.OneParent,
			OtherFamily:        cfg.Targets.OtherFamily,
		},
		Extras: NoExtras,
	}
	for i, c := range cfg.Population.Cells {
		status, err := demography.ParseRelationshipStatus(c.Status)
		if err != nil {
			return Plan{}, errors.Wrapf(err, "synthesis: population cell %d", i)
		}
		sex, err := demography.ParseSex(c.Sex)
		if err != nil {
			return Plan{}, errors.Wrapf(err, "synthesis: population cell %d", i)
		}
		p.Cells = append(p.Cells, PopulationCell{
			Status:   status,
			Sex:      sex,
			AgeRange: demography.AgeRange{Min: c.Min, Max: c.Max},
			Count:    c.Count,
		})
	}
	if cfg.Extras.Path != "" {
		if p.Extras, err = DistributionFile(cfg.Extras.Path); err != nil {
			return Plan{}, err
		}
	}
	return p, nil
}

// Pools are the formation inputs split by role.
type Pools struct {
	MarriedMales   person.Pool
	MarriedFemales person.Pool
	LoneParents    person.Pool
	Children       person.Pool
	Relatives      person.Pool
	// Others holds statuses no formation consumes (LONE_PERSON, GROUP_HOUSEHOLD).
	Others person.Pool
}

// Len returns the total number of pooled persons.
func (p *Pools) Len() int {
	return p.MarriedMales.Len() + p.MarriedFemales.Len() + p.LoneParents.Len() +
		p.Children.Len() + p.Relatives.Len() + p.Others.Len()
}

// BuildPools creates the base population in reg and sorts it into pools.
// Cells are processed in order, each person drawing its age from r.
func BuildPools(r *rng.Stream, reg *person.Registry, cells []PopulationCell) (*Pools, error) {
	pools := &Pools{}
	for i, c := range cells {
		if c.AgeRange.Max < c.AgeRange.Min {
			return nil, errors.Newf("synthesis: cell %d: inverted age range %s", i, c.AgeRange)
		}
		for n := 0; n < c.Count; n++ {
			age := c.AgeRange.Min + r.Intn(c.AgeRange.Max-c.AgeRange.Min+1)
			p, err := reg.Create(c.Status, c.Sex, age)
			if err != nil {
				return nil, errors.Wrapf(err, "synthesis: cell %d", i)
			}
			pools.add(p)
		}
	}
	return pools, nil
}

func (p *Pools) add(x *person.Person) {
	switch {
	case x.Status == demography.Married && x.Sex == demography.Male:
		p.MarriedMales.PushBack(x)
	case x.Status == demography.Married:
		p.MarriedFemales.PushBack(x)
	case x.Status == demography.LoneParent:
		p.LoneParents.PushBack(x)
	case x.IsChild():
		p.Children.PushBack(x)
	case x.Status == demography.Relative:
		p.Relatives.PushBack(x)
	default:
		p.Others.PushBack(x)
	}
}
