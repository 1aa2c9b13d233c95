package extras

import (
	"io"
	"sort"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/person"
	"github.com/katalvlaran/synthpop/rng"
)

// Cell is one category of the extras distribution.
//
// Weight is the relative share of the cell among the cells matching a
// filter. Limit caps how many persons the cell may ever produce (0 = no cap).
type Cell struct {
	Status   demography.RelationshipStatus
	Sex      demography.Sex
	AgeRange demography.AgeRange
	Weight   float64
	Limit    int
}

// Distribution is a weighted, optionally capped, extras source that creates
// persons in a registry.
type Distribution struct {
	reg   *person.Registry
	cells []Cell
	// used[i] counts persons produced by cells[i].
	used []int
}

// NewDistribution validates cells against the registry's bands.
func NewDistribution(reg *person.Registry, cells []Cell) (*Distribution, error) {
	bands := reg.Bands()
	for i, c := range cells {
		switch {
		case !c.Status.Valid():
			return nil, errors.WithDetailf(ErrBadCell, "cell %d: status %s", i, c.Status)
		case !c.Sex.Valid():
			return nil, errors.WithDetailf(ErrBadCell, "cell %d: sex %s", i, c.Sex)
		case !bands.Has(c.AgeRange):
			return nil, errors.WithDetailf(ErrBadCell, "cell %d: age range %s is not a configured band", i, c.AgeRange)
		case c.Weight < 0 || c.Limit < 0:
			return nil, errors.WithDetailf(ErrBadCell, "cell %d: negative weight or limit", i)
		}
	}
	return &Distribution{
		reg:   reg,
		cells: append([]Cell(nil), cells...),
		used:  make([]int, len(cells)),
	}, nil
}

// remaining returns how many more persons cell i can produce, or -1 if uncapped.
func (d *Distribution) remaining(i int) int {
	if d.cells[i].Limit == 0 {
		return -1
	}
	return d.cells[i].Limit - d.used[i]
}

// PersonsFromExtras draws n persons matching f.
//
// Implementation:
//   - Stage 1: Collect matching cells with positive weight and supply.
//   - Stage 2: Refuse (ErrNoSupply) if the capped supply cannot cover n; nothing is created.
//   - Stage 3: For each person pick a cell by cumulative weight, then a uniform age in its range.
//     The whole draw is planned and checked against the registry bands first.
//   - Stage 4: Create the planned persons and commit the cell counters.
//
// Complexity: O(n * cells).
func (d *Distribution) PersonsFromExtras(r *rng.Stream, f Filter, n int) ([]*person.Person, error) {
	if n <= 0 {
		return nil, nil
	}

	var idx []int
	supply, unbounded := 0, false
	for i, c := range d.cells {
		if c.Weight <= 0 || d.remaining(i) == 0 || !f.Match(c.Status, c.Sex, c.AgeRange) {
			continue
		}
		idx = append(idx, i)
		if rem := d.remaining(i); rem < 0 {
			unbounded = true
		} else {
			supply += rem
		}
	}
	if len(idx) == 0 {
		return nil, errors.WithDetailf(ErrNoSupply, "no cell matches filter %+v", f)
	}
	if !unbounded && supply < n {
		return nil, errors.WithDetailf(ErrNoSupply, "requested %d, distribution holds %d", n, supply)
	}

	type draw struct{ cell, age int }
	bands := d.reg.Bands()
	plan := make([]draw, 0, n)
	used := append([]int(nil), d.used...)
	for len(plan) < n {
		i := d.pick(r, idx)
		c := d.cells[i]
		age := c.AgeRange.Min + r.Intn(c.AgeRange.Max-c.AgeRange.Min+1)
		if band, err := bands.Of(age); err != nil || band != c.AgeRange {
			return nil, errors.WithDetailf(ErrBadCell, "cell %d: age %d is outside band %s", i, age, c.AgeRange)
		}
		plan = append(plan, draw{cell: i, age: age})
		used[i]++
		if c.Limit > 0 && used[i] == c.Limit {
			idx = removeIndex(idx, i)
		}
	}

	out := make([]*person.Person, 0, n)
	for _, dr := range plan {
		c := d.cells[dr.cell]
		p, err := d.reg.Create(c.Status, c.Sex, dr.age)
		if err != nil {
			return nil, errors.Wrap(err, "extras: create person")
		}
		out = append(out, p)
	}
	d.used = used
	return out, nil
}

// ChildrenFromExtras draws n persons of child statuses.
func (d *Distribution) ChildrenFromExtras(r *rng.Stream, sex demography.Sex, ageRanges []demography.AgeRange, n int) ([]*person.Person, error) {
	return d.PersonsFromExtras(r, Filter{Statuses: demography.ChildStatuses(), Sex: sex, AgeRanges: ageRanges}, n)
}

// pick returns a cell index from idx weighted by cell weight.
func (d *Distribution) pick(r *rng.Stream, idx []int) int {
	total := 0.0
	for _, i := range idx {
		total += d.cells[i].Weight
	}
	u := r.Float64() * total
	for _, i := range idx {
		u -= d.cells[i].Weight
		if u < 0 {
			return i
		}
	}
	return idx[len(idx)-1]
}

func removeIndex(idx []int, v int) []int {
	out := idx[:0]
	for _, i := range idx {
		if i != v {
			out = append(out, i)
		}
	}
	return out
}

// Cells returns a copy of the distribution's cells, sorted by status, sex and range.
func (d *Distribution) Cells() []Cell {
	out := append([]Cell(nil), d.cells...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status < out[j].Status
		}
		if out[i].Sex != out[j].Sex {
			return out[i].Sex < out[j].Sex
		}
		return out[i].AgeRange.Compare(out[j].AgeRange) < 0
	})
	return out
}

// cellDoc is the YAML form of a Cell.
type cellDoc struct {
	Status string  `yaml:"status"`
	Sex    string  `yaml:"sex"`
	Min    int     `yaml:"min"`
	Max    int     `yaml:"max"`
	Weight float64 `yaml:"weight"`
	Limit  int     `yaml:"limit"`
}

type distributionDoc struct {
	Cells []cellDoc `yaml:"cells"`
}

// LoadDistribution reads a YAML document of the form
//
//	cells:
//	  - {status: LONE_PARENT, sex: female, min: 30, max: 44, weight: 12.5}
//	  - {status: U15_CHILD,   sex: male,   min: 0,  max: 14, weight: 40, limit: 100}
//
// and returns a Distribution creating persons in reg.
func LoadDistribution(reg *person.Registry, in io.Reader) (*Distribution, error) {
	var doc distributionDoc
	if err := yaml.NewDecoder(in).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "extras: decode distribution")
	}
	cells := make([]Cell, 0, len(doc.Cells))
	for i, cd := range doc.Cells {
		status, err := demography.ParseRelationshipStatus(cd.Status)
		if err != nil {
			return nil, errors.Wrapf(err, "extras: cell %d", i)
		}
		sex, err := demography.ParseSex(cd.Sex)
		if err != nil {
			return nil, errors.Wrapf(err, "extras: cell %d", i)
		}
		cells = append(cells, Cell{
			Status:   status,
			Sex:      sex,
			AgeRange: demography.AgeRange{Min: cd.Min, Max: cd.Max},
			Weight:   cd.Weight,
			Limit:    cd.Limit,
		})
	}
	return NewDistribution(reg, cells)
}
