package engine

import (
	"fmt"
	"iter"
)

// Board is a fixed-size grid of optional items. It tracks occupancy only;
// callers serialize access.
type Board struct {
	rows  int
	cols  int
	cells [][]*Item
}

// NewBoard creates an empty board with all cells unoccupied
func NewBoard(rows, cols int) *Board {
	cells := make([][]*Item, rows)
	for i := range cells {
		cells[i] = make([]*Item, cols)
	}
	return &Board{rows: rows, cols: cols, cells: cells}
}

// BoardFromCells rebuilds a board from a persisted grid. Every row must have
// the same width.
func BoardFromCells(cells [][]*Item) (*Board, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("board has no rows")
	}
	cols := len(cells[0])
	if cols == 0 {
		return nil, fmt.Errorf("board has no columns")
	}
	b := NewBoard(len(cells), cols)
	for r, row := range cells {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", r, len(row), cols)
		}
		for c, item := range row {
			if item != nil {
				copied := *item
				b.cells[r][c] = &copied
			}
		}
	}
	return b, nil
}

// Rows returns the board height
func (b *Board) Rows() int { return b.rows }

// Cols returns the board width
func (b *Board) Cols() int { return b.cols }

// InBounds reports whether pos lies inside the board
func (b *Board) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.rows && pos.Col >= 0 && pos.Col < b.cols
}

// At returns a copy of the item at pos
func (b *Board) At(pos Position) (Item, bool) {
	if !b.InBounds(pos) {
		return Item{}, false
	}
	item := b.cells[pos.Row][pos.Col]
	if item == nil {
		return Item{}, false
	}
	return *item, true
}

// IsEmpty reports whether an in-bounds cell has no occupant
func (b *Board) IsEmpty(pos Position) bool {
	return b.InBounds(pos) && b.cells[pos.Row][pos.Col] == nil
}

// Place puts item on an empty cell. It fails without mutation when the cell
// is occupied or out of bounds.
func (b *Board) Place(pos Position, item Item) bool {
	if !b.IsEmpty(pos) {
		return false
	}
	b.cells[pos.Row][pos.Col] = &item
	return true
}

// Replace overwrites the occupant of an occupied cell
func (b *Board) Replace(pos Position, item Item) bool {
	if !b.InBounds(pos) || b.cells[pos.Row][pos.Col] == nil {
		return false
	}
	b.cells[pos.Row][pos.Col] = &item
	return true
}

// Clear empties a cell unconditionally
func (b *Board) Clear(pos Position) {
	if b.InBounds(pos) {
		b.cells[pos.Row][pos.Col] = nil
	}
}

// EmptyCells yields the unoccupied coordinates in row-major order. The
// sequence is recomputed on every call.
func (b *Board) EmptyCells() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for r := 0; r < b.rows; r++ {
			for c := 0; c < b.cols; c++ {
				if b.cells[r][c] != nil {
					continue
				}
				if !yield(Position{Row: r, Col: c}) {
					return
				}
			}
		}
	}
}

// Occupied counts cells holding an item
func (b *Board) Occupied() int {
	count := 0
	for _, row := range b.cells {
		for _, item := range row {
			if item != nil {
				count++
			}
		}
	}
	return count
}

// Cells returns a deep copy of the grid, nil for empty cells
func (b *Board) Cells() [][]*Item {
	out := make([][]*Item, b.rows)
	for r, row := range b.cells {
		out[r] = make([]*Item, b.cols)
		for c, item := range row {
			if item != nil {
				copied := *item
				out[r][c] = &copied
			}
		}
	}
	return out
}
