package domain

import "strings"

var BotNames = map[Difficulty]string{
	Easy:   "Alice",
	Medium: "Bob",
	Hard:   "Charles",
	Insane: "Dmitri",
}

func GetBotName(difficulty Difficulty) string {
	if name, ok := BotNames[difficulty]; ok {
		return name
	}
	return "BOT"
}

type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Opponent returns the other chip colour. Empty has no opponent.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

// PlayerForMove returns who drops the chip at position i of a move history.
func PlayerForMove(i int) PlayerID {
	if i%2 == 0 {
		return Player1
	}
	return Player2
}

const (
	DefaultRows         = 6
	DefaultColumns      = 7
	DefaultWinCondition = 4

	MaxDimension    = 64
	MinWinCondition = 3
)

// Difficulty is ordered: a higher value never searches less than a lower one.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
	Insane
)

var Difficulties = []Difficulty{Easy, Medium, Hard, Insane}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	case Insane:
		return "insane"
	}
	return "unknown"
}

func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Insane
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	case "insane":
		return Insane, nil
	}
	return Easy, ErrUnknownDifficulty
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, ErrUnknownDifficulty
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// to represent the game status
type GameStatus string

const (
	StatusOngoing GameStatus = "ongoing"
	StatusWin     GameStatus = "win"
	StatusDraw    GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidDimensions    Error = "invalid dimensions"
	ErrIllegalMoveInHistory Error = "illegal move in history"
	ErrGameAlreadyOver      Error = "game already over"
	ErrNoLegalMove          Error = "no legal move"
	ErrUnknownDifficulty    Error = "unknown difficulty"
	ErrColumnFull           Error = "column is full"
	ErrInvalidColumn        Error = "column out of range"
)
