package space

import (
	"fmt"
	"math"

	"synapsim/common"
)

// CellID is the integer coordinate of a cell in the uniform 3D grid.
type CellID [3]int

// Neuron is an uninstantiated marker type used only to tag NeuronID's
// generic parameter; it intentionally carries no fields of its own here to
// avoid a dependency from space on the brain package's Neuron type.
type Neuron struct{}

// NeuronID identifies the neuron occupying an Entry's Position. It is
// type-identical to the brain package's own common.ID[brain.Neuron] would
// be, but defined against this package's marker type so space has no
// import-cycle dependency on brain; callers convert at the boundary.
type NeuronID = common.ID[Neuron]

// Entry is a positioned handle indexed by the grid. The grid never looks
// inside a neuron — it only ever stores and compares positions.
type Entry struct {
	NeuronID NeuronID
	Position common.Position
}

// Grid is a uniform spatial grid over brain-local 3D positions, used to
// accelerate neighbor and "outside radius" queries during topology
// construction and per-tick rewiring/budding candidate selection.
type Grid struct {
	cells    map[CellID][]Entry
	cellSize common.Scalar
	origin   common.Position
}

// NewGrid creates a grid with the given cell size. origin is the world
// coordinate that maps to cell index (0,0,0); the brain package passes the
// minimum corner of the indexed positions, moved back by one cell size.
func NewGrid(cellSize common.Scalar, origin common.Position) (*Grid, error) {
	if cellSize <= 1e-9 {
		return nil, fmt.Errorf("space: NewGrid: cellSize must be positive, got %v", cellSize)
	}
	return &Grid{
		cells:    make(map[CellID][]Entry),
		cellSize: cellSize,
		origin:   origin,
	}, nil
}

func (g *Grid) cellID(p common.Position) CellID {
	return CellID{
		int(math.Floor((p.X - g.origin.X) / g.cellSize)),
		int(math.Floor((p.Y - g.origin.Y) / g.cellSize)),
		int(math.Floor((p.Z - g.origin.Z) / g.cellSize)),
	}
}

// Insert adds an entry to the grid. Not safe for concurrent use.
func (g *Grid) Insert(e Entry) {
	id := g.cellID(e.Position)
	g.cells[id] = append(g.cells[id], e)
}

// Rebuild clears and repopulates the grid from entries. Not safe for
// concurrent use. The brain package builds a fresh grid and calls Rebuild
// before each candidate query, so a query sees the entries as they were
// when it was made.
func (g *Grid) Rebuild(entries []Entry) {
	g.cells = make(map[CellID][]Entry, len(entries))
	for _, e := range entries {
		g.Insert(e)
	}
}

// QueryWithinRadius returns every indexed entry whose position lies within
// radius of center (candidates only — callers still confirm the exact
// distance, since a cell can straddle the query sphere's boundary).
func (g *Grid) QueryWithinRadius(center common.Position, radius common.Scalar) []Entry {
	if radius < 0 {
		return nil
	}
	return g.queryCellRange(center, radius)
}

// QueryOutsideRadius returns every indexed entry whose position lies
// strictly outside radius of center. Used by select_neuron's "outside the
// reconnection range" predicate: rather than scanning
// every neuron and rejecting the ones that fall inside, the grid is queried
// for the (usually much smaller) inside set and the complement is taken.
func (g *Grid) QueryOutsideRadius(center common.Position, radius common.Scalar, all []Entry) []Entry {
	if radius < 0 {
		return all
	}
	inside := make(map[NeuronID]struct{}, len(all)/4)
	for _, e := range g.queryCellRange(center, radius) {
		if e.Position.Distance(center) <= radius {
			inside[e.NeuronID] = struct{}{}
		}
	}
	outside := make([]Entry, 0, len(all))
	for _, e := range all {
		if _, found := inside[e.NeuronID]; !found {
			outside = append(outside, e)
		}
	}
	return outside
}

func (g *Grid) queryCellRange(center common.Position, radius common.Scalar) []Entry {
	minX := int(math.Floor((center.X - radius - g.origin.X) / g.cellSize))
	maxX := int(math.Floor((center.X + radius - g.origin.X) / g.cellSize))
	minY := int(math.Floor((center.Y - radius - g.origin.Y) / g.cellSize))
	maxY := int(math.Floor((center.Y + radius - g.origin.Y) / g.cellSize))
	minZ := int(math.Floor((center.Z - radius - g.origin.Z) / g.cellSize))
	maxZ := int(math.Floor((center.Z + radius - g.origin.Z) / g.cellSize))

	var out []Entry
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				if entries, found := g.cells[CellID{x, y, z}]; found {
					out = append(out, entries...)
				}
			}
		}
	}
	return out
}
