package domain

import "encoding/json"

// Cell is a (row, column) coordinate. It encodes as a [row, col] pair.
type Cell struct {
	Row int
	Col int
}

func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.Row, c.Col})
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	c.Row, c.Col = pair[0], pair[1]
	return nil
}

// horizontal, vertical, diagonal \ and diagonal /
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// IsWin reports whether the chip at (row, col) completes a run of at
// least winCondition for player. Only lines through that cell are checked.
func IsWin(board *Board, row, col int, player PlayerID, winCondition int) bool {
	for _, dir := range directions {
		run := 1 + board.CountDiskInDirection(row, col, dir[0], dir[1], player) +
			board.CountDiskInDirection(row, col, -dir[0], -dir[1], player)
		if run >= winCondition {
			return true
		}
	}
	return false
}

// CheckWin is IsWin plus the winning cells. When the run is longer than
// winCondition the returned line is the winCondition cells at the forward
// end of the run, ordered along the direction.
func CheckWin(board *Board, row, col int, player PlayerID, winCondition int) ([]Cell, bool) {
	for _, dir := range directions {
		dRow, dCol := dir[0], dir[1]
		forward := board.CountDiskInDirection(row, col, dRow, dCol, player)
		backward := board.CountDiskInDirection(row, col, -dRow, -dCol, player)
		if 1+forward+backward < winCondition {
			continue
		}

		endRow, endCol := row+forward*dRow, col+forward*dCol
		line := make([]Cell, winCondition)
		for i := range line {
			back := winCondition - 1 - i
			line[i] = Cell{Row: endRow - back*dRow, Col: endCol - back*dCol}
		}
		return line, true
	}
	return nil, false
}

// Outcome classifies the board right after player dropped at (row, col).
func Outcome(board *Board, row, col int, player PlayerID, winCondition int) (GameStatus, []Cell) {
	if line, won := CheckWin(board, row, col, player, winCondition); won {
		return StatusWin, line
	}
	if board.IsFull() {
		return StatusDraw, nil
	}
	return StatusOngoing, nil
}

// Replay rebuilds the board from history and reports the status after the
// last move. It stops at the first winning move.
func Replay(history []int, rows, columns, winCondition int) (*Board, GameStatus, error) {
	board, err := NewBoard(rows, columns)
	if err != nil {
		return nil, StatusOngoing, err
	}
	status := StatusOngoing
	for i, col := range history {
		player := PlayerForMove(i)
		row, err := board.DropDisk(col, player)
		if err != nil {
			return nil, StatusOngoing, illegalMove(i, col, err)
		}
		if status, _ = Outcome(board, row, col, player, winCondition); status != StatusOngoing {
			return board, status, nil
		}
	}
	return board, status, nil
}
