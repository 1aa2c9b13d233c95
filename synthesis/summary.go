package synthesis

import (
	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/family"
	"github.com/katalvlaran/synthpop/person"
)

// StatusCount is the number of persons of one status, split by sex.
type StatusCount struct {
	Status demography.RelationshipStatus
	Male   int
	Female int
}

// Summary describes a population after formation.
type Summary struct {
	// Statuses lists every status in declaration order.
	Statuses []StatusCount
	Families map[family.Type]int
	Persons  int
	Members  int
	// Unassigned counts persons that belong to no family.
	Unassigned int
}

// Summarize counts persons by status and sex and families by type.
func Summarize(reg *person.Registry, fams []*family.Family) Summary {
	byStatus := make(map[demography.RelationshipStatus]*StatusCount)
	s := Summary{Families: family.CountByType(fams)}
	for _, st := range demography.Statuses() {
		s.Statuses = append(s.Statuses, StatusCount{Status: st})
	}
	for i := range s.Statuses {
		byStatus[s.Statuses[i].Status] = &s.Statuses[i]
	}

	for _, p := range reg.Persons() {
		s.Persons++
		if c, ok := byStatus[p.Status]; ok {
			switch p.Sex {
			case demography.Male:
				c.Male++
			case demography.Female:
				c.Female++
			}
		}
		if _, ok := reg.Owner(p.ID); !ok {
			s.Unassigned++
		}
	}
	for _, f := range fams {
		s.Members += f.Size()
	}
	return s
}
