package domain

import "errors"

// ClientMessage is what a websocket client sends. RequestID is echoed
// back so several searches can be in flight on one connection. Geometry
// left out of the message falls back to the classic 6x7 board.
type ClientMessage struct {
	Type         string `json:"type"`
	RequestID    string `json:"requestId,omitempty"`
	Moves        []int  `json:"moves,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
	Rows         *int   `json:"rows,omitempty"`
	Columns      *int   `json:"columns,omitempty"`
	WinCondition *int   `json:"winCondition,omitempty"`
	Seed         uint64 `json:"seed,omitempty"`
}

type ServerMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	Message   string `json:"message,omitempty"`
	Code      string `json:"code,omitempty"`
	Column    *int   `json:"column,omitempty"`
	BotName   string `json:"botName,omitempty"`
	Score     int    `json:"score,omitempty"`
	Depth     int    `json:"depth,omitempty"`
	Nodes     int    `json:"nodes,omitempty"`
	Cached    bool   `json:"cached,omitempty"`
}

// Websocket message types.
const (
	MsgComputeMove = "compute_move"
	MsgCancel      = "cancel"
	MsgPing        = "ping"
	MsgBotMove     = "bot_move"
	MsgError       = "error"
	MsgPong        = "pong"
)

// ErrorCode turns a domain error into a stable snake_case code for
// clients. Anything else is "internal".
func ErrorCode(err error) string {
	var de Error
	if !errors.As(err, &de) {
		return "internal"
	}
	switch de {
	case ErrInvalidDimensions:
		return "invalid_dimensions"
	case ErrIllegalMoveInHistory, ErrColumnFull, ErrInvalidColumn:
		return "illegal_move_in_history"
	case ErrGameAlreadyOver:
		return "game_already_over"
	case ErrNoLegalMove:
		return "no_legal_move"
	case ErrUnknownDifficulty:
		return "unknown_difficulty"
	}
	return "internal"
}
