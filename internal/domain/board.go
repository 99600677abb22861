package domain

import "fmt"

// Board is a rows x columns grid. Row 0 is the top row and chips fall
// towards row Rows-1.
type Board struct {
	Rows    int
	Columns int
	cells   []PlayerID
	heights []int // chips stacked in each column
}

func NewBoard(rows, columns int) (*Board, error) {
	if rows <= 0 || columns <= 0 || rows > MaxDimension || columns > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d board", ErrInvalidDimensions, rows, columns)
	}
	return &Board{
		Rows:    rows,
		Columns: columns,
		cells:   make([]PlayerID, rows*columns),
		heights: make([]int, columns),
	}, nil
}

// Reconstruct replays a move history onto an empty board. Player1 drops
// the chips at even indexes.
func Reconstruct(history []int, rows, columns int) (*Board, error) {
	board, err := NewBoard(rows, columns)
	if err != nil {
		return nil, err
	}
	for i, col := range history {
		if _, err := board.DropDisk(col, PlayerForMove(i)); err != nil {
			return nil, illegalMove(i, col, err)
		}
	}
	return board, nil
}

func (b *Board) At(row, col int) PlayerID {
	return b.cells[row*b.Columns+col]
}

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.Rows && col >= 0 && col < b.Columns
}

func (b *Board) IsValidMove(column int) bool {
	if column < 0 || column >= b.Columns {
		return false
	}
	return b.heights[column] < b.Rows
}

// DropDisk places the chip in the lowest empty cell of the column and
// returns the row it landed on.
func (b *Board) DropDisk(column int, player PlayerID) (int, error) {
	if column < 0 || column >= b.Columns {
		return -1, ErrInvalidColumn
	}
	if b.heights[column] >= b.Rows {
		return -1, ErrColumnFull
	}
	row := b.Rows - 1 - b.heights[column]
	b.cells[row*b.Columns+column] = player
	b.heights[column]++
	return row, nil
}

// RemoveDisk takes the topmost chip out of a column. It undoes DropDisk
// during search; removing from an empty column is a no-op.
func (b *Board) RemoveDisk(column int) {
	if b.heights[column] == 0 {
		return
	}
	row := b.Rows - b.heights[column]
	b.cells[row*b.Columns+column] = Empty
	b.heights[column]--
}

// NextRow is the row a chip dropped in column would land on, or -1.
func (b *Board) NextRow(column int) int {
	if !b.IsValidMove(column) {
		return -1
	}
	return b.Rows - 1 - b.heights[column]
}

func (b *Board) IsFull() bool {
	for c := 0; c < b.Columns; c++ {
		if b.heights[c] < b.Rows {
			return false
		}
	}
	return true
}

func (b *Board) MoveCount() int {
	n := 0
	for _, h := range b.heights {
		n += h
	}
	return n
}

func (b *Board) EmptyCells() int {
	return b.Rows*b.Columns - b.MoveCount()
}

// this creates a deep copy of the board
func (b *Board) Clone() *Board {
	c := &Board{
		Rows:    b.Rows,
		Columns: b.Columns,
		cells:   make([]PlayerID, len(b.cells)),
		heights: make([]int, len(b.heights)),
	}
	copy(c.cells, b.cells)
	copy(c.heights, b.heights)
	return c
}

func (b *Board) ValidMoves() []int {
	validMoves := []int{}
	for col := 0; col < b.Columns; col++ {
		if b.IsValidMove(col) {
			validMoves = append(validMoves, col)
		}
	}
	return validMoves
}

// CountDiskInDirection counts same-player chips starting next to
// (row, col) and walking by (deltaRow, deltaCol).
func (b *Board) CountDiskInDirection(row, col, deltaRow, deltaCol int, player PlayerID) int {
	count := 0
	r, c := row+deltaRow, col+deltaCol
	for b.InBounds(r, c) && b.At(r, c) == player {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}

func illegalMove(index, col int, cause error) error {
	return fmt.Errorf("%w: move %d (column %d): %v", ErrIllegalMoveInHistory, index, col, cause)
}

// Grid returns the board as rows of player ids, top row first.
func (b *Board) Grid() [][]int {
	grid := make([][]int, b.Rows)
	for r := range grid {
		grid[r] = make([]int, b.Columns)
		for c := range grid[r] {
			grid[r][c] = int(b.At(r, c))
		}
	}
	return grid
}
