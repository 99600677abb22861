package domain

import "fmt"

// EncodeMoves packs a history one byte per move, the layout the browser
// build hands over as a Uint8Array.
func EncodeMoves(moves []int) ([]byte, error) {
	out := make([]byte, len(moves))
	for i, col := range moves {
		if col < 0 || col > 255 {
			return nil, fmt.Errorf("%w: move %d (column %d) does not fit in a byte", ErrIllegalMoveInHistory, i, col)
		}
		out[i] = byte(col)
	}
	return out, nil
}

func DecodeMoves(data []byte) []int {
	moves := make([]int, len(data))
	for i, b := range data {
		moves[i] = int(b)
	}
	return moves
}
