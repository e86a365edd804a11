package graphview

import (
	"github.com/layerviz/layerviz/pkg/errors"
	"github.com/layerviz/layerviz/pkg/model"
)

// adjacency is the layer graph reduced to declaration indices.
// Spacing markers carry no data flow and are excluded.
type adjacency struct {
	// layers are the declaration indices of the participating layers.
	layers []int
	// succ maps a declaration index to its successors.
	succ map[int][]int
	// pred maps a declaration index to its predecessors.
	pred map[int][]int
}

// buildAdjacency resolves declared input names to indices. Models with
// no declared inputs anywhere are treated as a sequential chain.
func buildAdjacency(m *model.Model) (*adjacency, error) {
	a := &adjacency{
		succ: make(map[int][]int),
		pred: make(map[int][]int),
	}
	declared := false
	for i, layer := range m.Layers {
		if layer.IsSpacer() {
			continue
		}
		a.layers = append(a.layers, i)
		if len(layer.Inputs) > 0 {
			declared = true
		}
	}

	if !declared {
		for j := 0; j+1 < len(a.layers); j++ {
			u, v := a.layers[j], a.layers[j+1]
			a.succ[u] = append(a.succ[u], v)
			a.pred[v] = append(a.pred[v], u)
		}
		return a, nil
	}

	names := m.LayerIndexByName()
	for _, i := range a.layers {
		for _, name := range m.Layers[i].Inputs {
			p, ok := names[name]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidModel, "layer %q references unknown input %q", m.Layers[i].Name, name)
			}
			if m.Layers[p].IsSpacer() {
				return nil, errors.New(errors.ErrCodeInvalidModel, "layer %q references spacing marker %q as input", m.Layers[i].Name, name)
			}
			a.succ[p] = append(a.succ[p], i)
			a.pred[i] = append(a.pred[i], p)
		}
	}
	return a, nil
}

// assignDepths computes the longest-path layering: roots sit at depth
// 0 and every other node at 1 + the maximum predecessor depth, so all
// edges point strictly forward. The traversal is an iterative
// ready-queue walk; any node left unprocessed proves a cycle.
func assignDepths(a *adjacency) (map[int]int, error) {
	indegree := make(map[int]int, len(a.layers))
	depth := make(map[int]int, len(a.layers))
	for _, i := range a.layers {
		indegree[i] = len(a.pred[i])
	}

	// The queue is seeded and extended in declaration order so ties at
	// the same depth keep their declared ordering downstream.
	var queue []int
	for _, i := range a.layers {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	processed := 0
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		processed++
		for _, v := range a.succ[u] {
			if d := depth[u] + 1; d > depth[v] {
				depth[v] = d
			}
			indegree[v]--
			if indegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	if processed < len(a.layers) {
		return nil, errors.New(errors.ErrCodeGraphCycle, "layer graph contains a cycle")
	}
	return depth, nil
}

// sinks lists the declaration indices with no successors, in
// declaration order.
func (a *adjacency) sinks() []int {
	var out []int
	for _, i := range a.layers {
		if len(a.succ[i]) == 0 {
			out = append(out, i)
		}
	}
	return out
}
