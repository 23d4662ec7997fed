// Package cpsat is the shipped cpengine.Engine implementation, built on
// Google OR-Tools' CP-SAT solver (github.com/google/or-tools/ortools/sat/go/cpmodel).
// It realises the vehicle-routing structure the binder describes — arcs,
// cumulative dimensions, pickup-and-delivery, drop disjunctions, vehicle
// breaks — as a single CP-SAT model, using the multiple-circuit constraint
// CP-SAT itself documents as "the VRP constraint".
package cpsat

import "example.com/vrp-routing-service/internal/routing/cpengine"

// Engine is the cpengine.Engine implementation backed by CP-SAT.
//
// NumSearchWorkers and MaxNumberOfConflicts are optional search-space caps,
// left at zero (unset) unless a caller explicitly configures them; unset
// means CP-SAT's own defaults apply. They act as a defensive cap on how
// much work one solve is allowed to do, wired from internal/config rather
// than hardcoded.
type Engine struct {
	NumSearchWorkers    int32
	MaxNumberOfConflicts int64
}

// New returns a ready-to-use Engine with no search-space caps configured.
func New() *Engine { return &Engine{} }

func (Engine) NewIndexManagerSingleDepot(nodeCount, vehicleCount int, depot cpengine.Node) cpengine.IndexManager {
	starts := make([]cpengine.Node, vehicleCount)
	ends := make([]cpengine.Node, vehicleCount)
	for i := range starts {
		starts[i] = depot
		ends[i] = depot
	}
	return newIndexManager(nodeCount, vehicleCount, starts, ends)
}

func (Engine) NewIndexManagerStartEnd(nodeCount, vehicleCount int, starts, ends []cpengine.Node) cpengine.IndexManager {
	return newIndexManager(nodeCount, vehicleCount, starts, ends)
}

func (e Engine) NewModel(manager cpengine.IndexManager) cpengine.Model {
	im := manager.(*indexManager)
	return newModel(im, e.NumSearchWorkers, e.MaxNumberOfConflicts)
}

// indexManager maps between physical nodes and CP-SAT's index space. Most
// nodes get a one-to-one index; a physical node reused as more than one
// vehicle's start or end gets one canonical index (the node's own) plus one
// extra index per additional reuse, so that every vehicle can have its own
// start/end slot in a graph where every index still needs a well-defined
// single in-degree and out-degree.
type indexManager struct {
	nodeCount    int
	vehicleCount int
	indexToNode  []cpengine.Node
	nodeToIndex  map[cpengine.Node]cpengine.Index
	starts       []cpengine.Index
	ends         []cpengine.Index
	isStart      map[cpengine.Index]int // index -> vehicle
	isEnd        map[cpengine.Index]int // index -> vehicle
}

func newIndexManager(nodeCount, vehicleCount int, starts, ends []cpengine.Node) *indexManager {
	im := &indexManager{
		nodeCount:    nodeCount,
		vehicleCount: vehicleCount,
		indexToNode:  make([]cpengine.Node, nodeCount),
		nodeToIndex:  make(map[cpengine.Node]cpengine.Index, nodeCount),
		starts:       make([]cpengine.Index, vehicleCount),
		ends:         make([]cpengine.Index, vehicleCount),
		isStart:      map[cpengine.Index]int{},
		isEnd:        map[cpengine.Index]int{},
	}
	for n := 0; n < nodeCount; n++ {
		im.indexToNode[n] = n
		im.nodeToIndex[n] = cpengine.Index(n)
	}

	used := make(map[cpengine.Node]bool, vehicleCount*2)
	allocate := func(node cpengine.Node) cpengine.Index {
		if !used[node] {
			used[node] = true
			return cpengine.Index(node)
		}
		idx := cpengine.Index(len(im.indexToNode))
		im.indexToNode = append(im.indexToNode, node)
		return idx
	}

	for v := 0; v < vehicleCount; v++ {
		s := allocate(starts[v])
		e := allocate(ends[v])
		im.starts[v] = s
		im.ends[v] = e
		im.isStart[s] = v
		im.isEnd[e] = v
	}
	return im
}

func (im *indexManager) IndexToNode(index cpengine.Index) cpengine.Node { return im.indexToNode[index] }

func (im *indexManager) NodeToIndex(node cpengine.Node) cpengine.Index {
	if idx, ok := im.nodeToIndex[node]; ok {
		return idx
	}
	return cpengine.Index(node)
}

func (im *indexManager) Start(vehicle int) cpengine.Index { return im.starts[vehicle] }
func (im *indexManager) End(vehicle int) cpengine.Index   { return im.ends[vehicle] }
func (im *indexManager) NumIndices() int                  { return len(im.indexToNode) }
