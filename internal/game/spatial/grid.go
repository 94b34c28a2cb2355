// Package spatial provides the broad-phase structures the simulation uses
// between ticks: a uniform ground-plane grid for hit-test candidates and a
// lock-free inbox for commands arriving from other goroutines.
//
// All structures use preallocated slices with integer indices (not pointers)
// to minimize GC pressure.
package spatial

import (
	"math"
)

// Grid buckets entities by ground-plane (x, z) cell. The world is centered
// on the origin: it spans [-width/2, width/2] × [-depth/2, depth/2].
// Positions outside the world clamp into the border cells.
//
// Memory layout: cells are stored in row-major order (cells[row*cols+col])
type Grid struct {
	cellSize    float64
	invCellSize float64 // 1/cellSize for faster division
	minX, minZ  float64
	cols, rows  int
	cells       [][]uint32 // cells[row*cols+col] = list of entity indices
	scratch     []uint32   // reusable buffer for query results
}

// NewGrid creates a grid for the given world extent.
// cellSize should be close to the largest attack reach.
// maxEntities is used to preallocate cell capacity.
func NewGrid(width, depth, cellSize float64, maxEntities int) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(depth / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]uint32, cols*rows)
	avgPerCell := maxEntities / len(cells)
	if avgPerCell < 4 {
		avgPerCell = 4
	}
	for i := range cells {
		cells[i] = make([]uint32, 0, avgPerCell)
	}

	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		minX:        -width / 2,
		minZ:        -depth / 2,
		cols:        cols,
		rows:        rows,
		cells:       cells,
		scratch:     make([]uint32, 0, 64),
	}
}

// Clear resets all cells without deallocating underlying memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *Grid) colRow(x, z float64) (int, int) {
	col := int(math.Floor((x - g.minX) * g.invCellSize))
	row := int(math.Floor((z - g.minZ) * g.invCellSize))
	if col < 0 {
		col = 0
	}
	if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// Insert adds an entity at ground position (x, z).
// The id should be the index into the caller's entity slice.
func (g *Grid) Insert(id uint32, x, z float64) {
	col, row := g.colRow(x, z)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], id)
}

// QueryRadius returns all ids potentially within radius of (cx, cz).
//
// IMPORTANT: The returned slice is reused on subsequent calls.
// Copy the results if you need to persist them.
//
// Candidates may lie outside the radius; the caller performs the
// precise test (narrow phase).
func (g *Grid) QueryRadius(cx, cz, radius float64) []uint32 {
	g.scratch = g.scratch[:0]
	if math.IsNaN(cx) || math.IsNaN(cz) || radius < 0 {
		return g.scratch
	}

	minCol, minRow := g.colRow(cx-radius, cz-radius)
	maxCol, maxRow := g.colRow(cx+radius, cz+radius)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			g.scratch = append(g.scratch, g.cells[row*g.cols+col]...)
		}
	}
	return g.scratch
}

// QueryCell returns all ids in the cell containing (x, z).
func (g *Grid) QueryCell(x, z float64) []uint32 {
	col, row := g.colRow(x, z)
	return g.cells[row*g.cols+col]
}

// Stats returns grid statistics for debugging/profiling.
func (g *Grid) Stats() GridStats {
	var total, maxInCell, nonEmpty int
	for _, cell := range g.cells {
		n := len(cell)
		total += n
		if n > maxInCell {
			maxInCell = n
		}
		if n > 0 {
			nonEmpty++
		}
	}

	avg := 0.0
	if nonEmpty > 0 {
		avg = float64(total) / float64(nonEmpty)
	}

	return GridStats{
		TotalCells:     len(g.cells),
		NonEmptyCells:  nonEmpty,
		TotalEntities:  total,
		MaxInCell:      maxInCell,
		AvgPerNonEmpty: avg,
	}
}

// GridStats contains grid statistics for debugging.
type GridStats struct {
	TotalCells     int     `json:"totalCells"`
	NonEmptyCells  int     `json:"nonEmptyCells"`
	TotalEntities  int     `json:"totalEntities"`
	MaxInCell      int     `json:"maxInCell"`
	AvgPerNonEmpty float64 `json:"avgPerNonEmpty"`
}

// Dimensions returns the grid dimensions.
func (g *Grid) Dimensions() (cols, rows int, cellSize float64) {
	return g.cols, g.rows, g.cellSize
}
