package bot

import "github.com/iamasit07/4-in-a-row/engine/internal/domain"

const (
	TacticWin     = "win"
	TacticBlock   = "block"
	TacticOpening = "opening"
)

// findTactic returns the center column on an empty board, a column that
// wins on the spot, or the single column that stops the opponent from
// winning next move. With two or more opponent threats nothing can be
// blocked and the search decides how to lose slowest. moves must be in
// preference order.
func findTactic(board *domain.Board, player domain.PlayerID, winCondition int, moves []int) (int, string, bool) {
	// a fixed-depth horizon can pull the first move off center
	if board.MoveCount() == 0 {
		return moves[0], TacticOpening, true
	}
	if col, ok := findImmediateWin(board, player, winCondition, moves); ok {
		return col, TacticWin, true
	}

	threats := immediateWins(board, player.Opponent(), winCondition, moves)
	if len(threats) == 1 {
		return threats[0], TacticBlock, true
	}
	return -1, "", false
}

func findImmediateWin(board *domain.Board, player domain.PlayerID, winCondition int, moves []int) (int, bool) {
	for _, col := range moves {
		if winsAt(board, col, player, winCondition) {
			return col, true
		}
	}
	return -1, false
}

func immediateWins(board *domain.Board, player domain.PlayerID, winCondition int, moves []int) []int {
	var cols []int
	for _, col := range moves {
		if winsAt(board, col, player, winCondition) {
			cols = append(cols, col)
		}
	}
	return cols
}

// winsAt tries the drop in place and takes it back.
func winsAt(board *domain.Board, col int, player domain.PlayerID, winCondition int) bool {
	row, err := board.DropDisk(col, player)
	if err != nil {
		return false
	}
	won := domain.IsWin(board, row, col, player, winCondition)
	board.RemoveDisk(col)
	return won
}

func tacticScore(board *domain.Board, col int, player domain.PlayerID, winCondition int, tactic string) int {
	if tactic == TacticWin {
		return winScore(1, true)
	}
	board.DropDisk(col, player)
	score := Evaluate(board, player, winCondition)
	board.RemoveDisk(col)
	return score
}
