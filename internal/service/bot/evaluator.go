package bot

import "github.com/iamasit07/4-in-a-row/engine/internal/domain"

const (
	// Score priorities. Heuristic scores stay far below WIN_SCORE so a
	// proven result always outranks an evaluation.
	WIN_SCORE              = 1_000_000_000
	DRAW_SCORE             = 0
	EVAL_LIMIT             = WIN_SCORE / 4
	CENTER_WEIGHT          = 3
	THREAT_WEIGHT          = 40 // one chip short of a line
	PLAYABLE_THREAT_WEIGHT = 40 // ...and the missing cell can be filled right now
)

var lineDirections = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// Evaluate scores a non-terminal board for player: positive is good for
// player, negative good for the opponent. Every window of winCondition
// cells is scored once; windows holding both colours are dead and count 0.
func Evaluate(board *domain.Board, player domain.PlayerID, winCondition int) int {
	opponent := player.Opponent()
	score := 0

	for _, dir := range lineDirections {
		dRow, dCol := dir[0], dir[1]
		for row := 0; row < board.Rows; row++ {
			for col := 0; col < board.Columns; col++ {
				if !board.InBounds(row+(winCondition-1)*dRow, col+(winCondition-1)*dCol) {
					continue
				}
				score += scoreWindow(board, row, col, dRow, dCol, player, opponent, winCondition)
			}
		}
	}

	// Center column preference
	for _, col := range centerColumns(board.Columns) {
		for row := 0; row < board.Rows; row++ {
			switch board.At(row, col) {
			case player:
				score += CENTER_WEIGHT
			case opponent:
				score -= CENTER_WEIGHT
			}
		}
	}

	return clampEval(score)
}

func scoreWindow(board *domain.Board, row, col, dRow, dCol int, player, opponent domain.PlayerID, winCondition int) int {
	own, opp := 0, 0
	gapRow, gapCol := -1, -1
	for i := 0; i < winCondition; i++ {
		r, c := row+i*dRow, col+i*dCol
		switch board.At(r, c) {
		case player:
			own++
		case opponent:
			opp++
		default:
			gapRow, gapCol = r, c
		}
		if own > 0 && opp > 0 {
			return 0
		}
	}

	switch {
	case own > 0:
		return lineWeight(own, winCondition, isPlayable(board, gapRow, gapCol))
	case opp > 0:
		return -lineWeight(opp, winCondition, isPlayable(board, gapRow, gapCol))
	}
	return 0
}

// lineWeight grows cubically with the chips already in the window.
func lineWeight(count, winCondition int, playable bool) int {
	weight := count * count * count
	if count == winCondition-1 {
		weight += THREAT_WEIGHT
		if playable {
			weight += PLAYABLE_THREAT_WEIGHT
		}
	}
	return weight
}

// Check if a space is actually playable (respects gravity)
func isPlayable(board *domain.Board, row, col int) bool {
	if row < 0 {
		return false
	}
	return board.NextRow(col) == row
}

// centerColumns is the middle column, or both middle columns on an even
// board.
func centerColumns(columns int) []int {
	if columns%2 == 1 {
		return []int{columns / 2}
	}
	return []int{columns/2 - 1, columns / 2}
}

func clampEval(score int) int {
	if score > EVAL_LIMIT {
		return EVAL_LIMIT
	}
	if score < -EVAL_LIMIT {
		return -EVAL_LIMIT
	}
	return score
}
