package synthesis_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/synthpop/config"
	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/factory"
	"github.com/katalvlaran/synthpop/family"
	"github.com/katalvlaran/synthpop/metrics"
	"github.com/katalvlaran/synthpop/person"
	"github.com/katalvlaran/synthpop/rng"
	"github.com/katalvlaran/synthpop/synthesis"
)

func basePlan() synthesis.Plan {
	return synthesis.Plan{
		Seed:     11,
		Attempts: 1,
		Parallel: 1,
		Cells: []synthesis.PopulationCell{
			{Status: demography.Married, Sex: demography.Male, AgeRange: demography.A30to44, Count: 3},
			{Status: demography.Married, Sex: demography.Female, AgeRange: demography.A30to44, Count: 3},
			{Status: demography.U15Child, Sex: demography.Female, AgeRange: demography.A0to14, Count: 4},
			{Status: demography.LoneParent, Sex: demography.Female, AgeRange: demography.A30to44, Count: 2},
			{Status: demography.Relative, Sex: demography.Male, AgeRange: demography.AgeRange{Min: 20, Max: 80}, Count: 4},
			{Status: demography.LonePerson, Sex: demography.Male, AgeRange: demography.A60to74, Count: 1},
		},
		Targets: synthesis.Targets{CoupleOnly: 1, CoupleWithChildren: 2, OneParent: 2, OtherFamily: 2},
	}
}

func TestBuildPools(t *testing.T) {
	reg := person.NewRegistry()
	pools, err := synthesis.BuildPools(rng.New(3), reg, basePlan().Cells)
	require.NoError(t, err)

	assert.Equal(t, 3, pools.MarriedMales.Len())
	assert.Equal(t, 3, pools.MarriedFemales.Len())
	assert.Equal(t, 4, pools.Children.Len())
	assert.Equal(t, 2, pools.LoneParents.Len())
	assert.Equal(t, 4, pools.Relatives.Len())
	assert.Equal(t, 1, pools.Others.Len())
	assert.Equal(t, 17, pools.Len())
	assert.Equal(t, 17, reg.Len())
	for _, p := range pools.Relatives {
		assert.True(t, p.Age >= 20 && p.Age <= 80)
	}
}

func TestRunOnce_FormsEveryType(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	rn := synthesis.New(basePlan(), synthesis.WithMetrics(m))

	res, err := rn.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, int64(11), res.Seed)

	counts := family.CountByType(res.Families)
	assert.Equal(t, 1, counts[family.CoupleOnly])
	assert.Equal(t, 2, counts[family.CoupleWithChildren])
	assert.Equal(t, 2, counts[family.OneParent])
	assert.Equal(t, 2, counts[family.OtherFamily])
	for i, f := range res.Families {
		assert.Equal(t, family.ID(i+1), f.ID)
	}

	assert.Equal(t, 3, res.Bounds[factory.OpCoupleWithChild])
	assert.Equal(t, 2, res.Bounds[factory.OpOneParent])
	require.NoError(t, res.Registry.ValidateAll())

	s := synthesis.Summarize(res.Registry, res.Families)
	assert.Equal(t, 17, s.Persons)
	assert.Equal(t, 16, s.Members)
	assert.Equal(t, 1, s.Unassigned)
	assert.Equal(t, 1, res.Leftover.Len())
	for _, sc := range s.Statuses {
		if sc.Status == demography.U15Child {
			assert.Equal(t, 4, sc.Female)
		}
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.FamiliesFormed.WithLabelValues("COUPLE_ONLY")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FamiliesFormed.WithLabelValues("COUPLE_WITH_CHILDREN")))
}

func TestRun_Deterministic(t *testing.T) {
	ids := func() [][]person.ID {
		res, err := synthesis.New(basePlan()).Run(context.Background())
		require.NoError(t, err)
		out := make([][]person.ID, len(res.Families))
		for i, f := range res.Families {
			out[i] = f.MemberIDs()
		}
		return out
	}
	assert.Equal(t, ids(), ids())
}

func TestRun_RetriesPickLowestAttempt(t *testing.T) {
	plan := basePlan()
	plan.Attempts = 3
	plan.Parallel = 2

	res, err := synthesis.New(plan).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Attempt)
	assert.Equal(t, plan.Seed, res.Seed)
}

func TestRun_AllAttemptsFail(t *testing.T) {
	plan := basePlan()
	plan.Attempts = 3
	plan.Parallel = 3
	plan.Targets.OneParent = 5

	_, err := synthesis.New(plan).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, factory.ErrNotEnoughPersons))

	var nep *factory.NotEnoughPersonsError
	require.True(t, errors.As(err, &nep))
	assert.Equal(t, factory.OpOneParent, nep.Op)
}

func TestAttemptSeed(t *testing.T) {
	assert.Equal(t, int64(5), synthesis.AttemptSeed(5, 0))
	assert.Equal(t, rng.DefaultSeed, synthesis.AttemptSeed(0, 0))
	assert.Equal(t, rng.DeriveSeed(5, 1), synthesis.AttemptSeed(5, 1))
	assert.NotEqual(t, synthesis.AttemptSeed(5, 1), synthesis.AttemptSeed(5, 2))
}

func TestPlanFromConfig_WithExtras(t *testing.T) {
	dir := t.TempDir()
	extrasPath := filepath.Join(dir, "extras.yaml")
	require.NoError(t, os.WriteFile(extrasPath, []byte(`
cells:
  - {status: U15_CHILD, sex: male, min: 0, max: 14, weight: 1}
  - {status: LONE_PARENT, sex: female, min: 30, max: 44, weight: 1}
`), 0o600))

	cfg := &config.Config{
		Seed:     3,
		Attempts: 1,
		Parallel: 1,
		Extras:   config.ExtrasConfig{Path: extrasPath},
		Population: config.PopulationConfig{Cells: []config.PopulationCell{
			{Status: "LONE_PARENT", Sex: "f", Min: 30, Max: 44, Count: 1},
		}},
		Targets: config.Targets{OneParent: 2},
	}
	require.NoError(t, cfg.Validate())

	plan, err := synthesis.PlanFromConfig(cfg)
	require.NoError(t, err)
	require.Len(t, plan.Cells, 1)
	assert.Equal(t, demography.LoneParent, plan.Cells[0].Status)

	res, err := synthesis.New(plan).Run(context.Background())
	require.NoError(t, err)
	counts := family.CountByType(res.Families)
	assert.Equal(t, 2, counts[family.OneParent], "one lone parent and both children come from extras")
	require.NoError(t, res.Registry.ValidateAll())
}
