package main

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/family"
	"github.com/katalvlaran/synthpop/metrics"
	"github.com/katalvlaran/synthpop/synthesis"
)

func TestFamilyTable(t *testing.T) {
	s := synthesis.Summary{
		Families:   map[family.Type]int{family.OneParent: 2},
		Members:    4,
		Unassigned: 1,
	}
	data := familyTable(s)
	assert.Equal(t, []string{"Family type", "Units"}, data[0])
	assert.Equal(t, []string{"ONE_PARENT", "2"}, data[3])
	assert.Equal(t, []string{"unassigned persons", "1"}, data[len(data)-1])
}

func TestStatusTable_SkipsEmptyStatuses(t *testing.T) {
	s := synthesis.Summary{Statuses: []synthesis.StatusCount{
		{Status: demography.Married, Male: 2, Female: 2},
		{Status: demography.Student},
	}}
	data := statusTable(s)
	assert.Len(t, data, 2)
	assert.Equal(t, []string{"MARRIED", "2", "2"}, data[1])
}

func TestMetricsTable(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.IncFamily("OTHER_FAMILY")
	m.AddExtras("RELATIVE", 2)

	data, err := metricsTable(reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Metric", "Labels", "Value"}, data[0])
	assert.Contains(t, data, []string{"synthpop_extras_drawn_total", "status=RELATIVE", "2"})
	assert.Contains(t, data, []string{"synthpop_families_formed_total", "type=OTHER_FAMILY", "1"})
	assert.Contains(t, data, []string{"synthpop_attach_misses_total", "", "0"})
}
