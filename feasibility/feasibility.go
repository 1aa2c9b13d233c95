// Package feasibility bounds how many parent/child attachments a pair of
// pools admits before any formation runs.
//
// The pools are collapsed to age bands and solved as a bipartite max-flow:
//
//	source -> parent band (capacity: parents in band)
//	parent band -> child band (unbounded, only where the age rule holds)
//	child band -> sink (capacity: children in band)
//
// The flow value is the maximum number of distinct (parent, child) pairs the
// age rule allows. First-fit formation may attach fewer; it can never attach more.
package feasibility

import (
	"context"
	"math"

	"github.com/katalvlaran/synthpop/demography"
	"github.com/katalvlaran/synthpop/rules"
)

const (
	source = "source"
	sink   = "sink"
)

// MaxAttachable returns the maximum number of children that can be paired
// with distinct parents, one child per parent. parents holds the age range of
// each parent unit (for couples: the youngest parent) and children the range
// of each child.
//
// Steps:
//  1. Count units per band on each side and build the capacity map.
//  2. Repeat until the sink is unreachable:
//     a. Check ctx.
//     b. BFS the residual graph for levels.
//     c. Push blocking flow along strictly increasing levels.
//
// Complexity: O(B^2) edges for B distinct bands; O(E * sqrt(V)) on this
// unit-like network.
func MaxAttachable(ctx context.Context, parents, children []demography.AgeRange) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	capMap := buildCapMap(parents, children)

	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		level := levels(capMap)
		if level[sink] < 0 {
			break
		}

		next := make(map[string][]string, len(capMap))
		for u, nbrs := range capMap {
			for v, c := range nbrs {
				if c > 0 && level[v] == level[u]+1 {
					next[u] = append(next[u], v)
				}
			}
		}

		iter := make(map[string]int, len(next))
		for {
			if err := ctx.Err(); err != nil {
				return total, err
			}
			pushed := push(capMap, next, iter, source, math.MaxInt)
			if pushed == 0 {
				break
			}
			total += pushed
		}
	}
	return total, nil
}

func parentNode(r demography.AgeRange) string { return "p:" + r.String() }
func childNode(r demography.AgeRange) string  { return "c:" + r.String() }

// buildCapMap returns capMap[u][v] = residual capacity u->v, with reverse
// edges initialised to zero.
func buildCapMap(parents, children []demography.AgeRange) map[string]map[string]int {
	capMap := map[string]map[string]int{source: {}, sink: {}}
	edge := func(u, v string, c int) {
		if capMap[u] == nil {
			capMap[u] = map[string]int{}
		}
		if capMap[v] == nil {
			capMap[v] = map[string]int{}
		}
		capMap[u][v] += c
		if _, ok := capMap[v][u]; !ok {
			capMap[v][u] = 0
		}
	}

	pCount := map[demography.AgeRange]int{}
	for _, p := range parents {
		pCount[p]++
	}
	cCount := map[demography.AgeRange]int{}
	for _, c := range children {
		cCount[c]++
	}

	for p, n := range pCount {
		edge(source, parentNode(p), n)
	}
	for c, n := range cCount {
		edge(childNode(c), sink, n)
	}
	for p, np := range pCount {
		for c := range cCount {
			if rules.ValidateParentChildAgeRule(p, c) {
				// Parent side caps throughput; np is a sufficient bound.
				edge(parentNode(p), childNode(c), np)
			}
		}
	}
	return capMap
}

// levels runs BFS from source over positive residual edges. Unreached nodes get -1.
func levels(capMap map[string]map[string]int) map[string]int {
	level := make(map[string]int, len(capMap))
	for u := range capMap {
		level[u] = -1
	}
	level[source] = 0
	queue := []string{source}
	for i := 0; i < len(queue); i++ {
		u := queue[i]
		for v, c := range capMap[u] {
			if c > 0 && level[v] < 0 {
				level[v] = level[u] + 1
				queue = append(queue, v)
			}
		}
	}
	return level
}

// push sends up to available units from u to the sink along the level graph
// and updates residual capacities in place.
func push(capMap map[string]map[string]int, next map[string][]string, iter map[string]int, u string, available int) int {
	if u == sink {
		return available
	}
	for i := iter[u]; i < len(next[u]); i++ {
		v := next[u][i]
		c := capMap[u][v]
		if c <= 0 {
			iter[u] = i + 1
			continue
		}
		send := min(available, c)
		if pushed := push(capMap, next, iter, v, send); pushed > 0 {
			capMap[u][v] -= pushed
			capMap[v][u] += pushed
			return pushed
		}
		iter[u] = i + 1
	}
	return 0
}
