package domain

import "fmt"

// Winner names the player who completed a line, using the player_1 /
// player_2 spelling of the stored game results.
type Winner struct {
	Who       *string `json:"who"`
	Positions []Cell  `json:"positions"`
}

type GameResults struct {
	Player1    []Cell     `json:"player_1"`
	Player2    []Cell     `json:"player_2"`
	BoardState GameStatus `json:"board_state"`
	Winner     Winner     `json:"winner"`
}

// ValidateHistory replays a stored game leniently: moves that fall outside
// the board or into a full column are skipped, and replay stops at the
// first win. Only the board geometry or the win condition can make it fail.
func ValidateHistory(history []int, rows, columns, winCondition int) (GameResults, error) {
	results := GameResults{
		Player1:    []Cell{},
		Player2:    []Cell{},
		BoardState: StatusOngoing,
		Winner:     Winner{Positions: []Cell{}},
	}
	board, err := NewBoard(rows, columns)
	if err != nil {
		return results, err
	}
	if winCondition < MinWinCondition || winCondition > MaxDimension {
		return results, fmt.Errorf("%w: win condition %d", ErrInvalidDimensions, winCondition)
	}

	for i, col := range history {
		player := PlayerForMove(i)
		row, err := board.DropDisk(col, player)
		if err != nil {
			continue
		}

		pos := Cell{Row: row, Col: col}
		if player == Player1 {
			results.Player1 = append(results.Player1, pos)
		} else {
			results.Player2 = append(results.Player2, pos)
		}

		if line, won := CheckWin(board, row, col, player, winCondition); won {
			who := "player_1"
			if player == Player2 {
				who = "player_2"
			}
			results.Winner = Winner{Who: &who, Positions: line}
			results.BoardState = StatusWin
			return results, nil
		}
	}

	if board.IsFull() {
		results.BoardState = StatusDraw
	}
	return results, nil
}
