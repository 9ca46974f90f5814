// Package graph derives execution structure from a checklist's dependency
// edges: topological levels, cycle membership, and the set of steps that
// are executable right now.
//
// All functions here are pure and synchronous. They never mutate the steps
// they are given, so any number of goroutines may call them concurrently
// while executors mutate individual steps elsewhere.
package graph

import (
	"math"
	"sort"

	"github.com/chainrun/chainrun/internal/model"
)

// Levels assigns each step an integer level >= 1: steps with no
// dependencies are level 1, and every other step sits one level above its
// deepest direct dependency.
//
// The computation is an iterative fixed point rather than a recursion:
// each pass collects the not-yet-levelled steps whose dependencies all
// have levels, assigns them the current level, and repeats. Collection and
// assignment are separate phases so a step never observes a level assigned
// in its own pass. Steps that are part of a dependency cycle, or depend on
// one, can never satisfy the collection condition and are absent from the
// result.
//
// Levels assumes Validate has passed; its behavior on a graph with
// duplicate IDs or dangling references is unspecified.
func Levels(steps []model.Step) map[string]int {
	levels := make(map[string]int, len(steps))
	for level := 1; ; level++ {
		var batch []string
		for _, s := range steps {
			h := s.Head()
			if _, done := levels[h.ID]; done {
				continue
			}
			levelled := true
			for _, dep := range h.DependsOn {
				if _, ok := levels[dep]; !ok {
					levelled = false
					break
				}
			}
			if levelled {
				batch = append(batch, h.ID)
			}
		}
		if len(batch) == 0 {
			return levels
		}
		for _, id := range batch {
			levels[id] = level
		}
	}
}

// Cycles returns the steps that cannot be levelled: every step inside a
// dependency cycle plus every step whose dependency closure reaches one.
// The result preserves the checklist's authoring order. An empty result
// means the dependency graph is a DAG.
func Cycles(steps []model.Step) []model.Step {
	levels := Levels(steps)
	var cyclic []model.Step
	for _, s := range steps {
		if _, ok := levels[s.Head().ID]; !ok {
			cyclic = append(cyclic, s)
		}
	}
	return cyclic
}

// NextSteps returns the steps that are executable now: incomplete, with
// every direct and transitive dependency complete. The check runs over the
// full dependency closure, so a step whose direct dependencies are all
// complete is still held back while anything deeper remains incomplete.
//
// The returned steps are ordered by ascending level; ties keep the
// checklist's authoring order. Steps involved in cycles are never
// returned: their closure can never be satisfied.
func NextSteps(c *model.Checklist) []model.Step {
	levels := Levels(c.Steps)
	byID := make(map[string]model.Step, len(c.Steps))
	for _, s := range c.Steps {
		byID[s.Head().ID] = s
	}

	ordered := make([]model.Step, len(c.Steps))
	copy(ordered, c.Steps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return levelOf(levels, ordered[i]) < levelOf(levels, ordered[j])
	})

	var ready []model.Step
	for _, s := range ordered {
		if s.Complete() {
			continue
		}
		if _, levelled := levels[s.Head().ID]; !levelled {
			continue
		}
		if closureComplete(s, byID) {
			ready = append(ready, s)
		}
	}
	return ready
}

func levelOf(levels map[string]int, s model.Step) int {
	if l, ok := levels[s.Head().ID]; ok {
		return l
	}
	// Unlevelled steps (cycle members) sort last; they are filtered out
	// of the readiness scan anyway.
	return math.MaxInt
}

// closureComplete walks the transitive dependency closure of s and reports
// whether every reachable step is complete. The seen set makes the walk
// terminate even on cyclic input.
func closureComplete(s model.Step, byID map[string]model.Step) bool {
	seen := make(map[string]bool)
	stack := append([]string(nil), s.Head().DependsOn...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true

		dep, ok := byID[id]
		if !ok || !dep.Complete() {
			return false
		}
		stack = append(stack, dep.Head().DependsOn...)
	}
	return true
}
