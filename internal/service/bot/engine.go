package bot

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
)

// Request is everything the engine needs to choose a move. The board is
// rebuilt from Moves on every call.
type Request struct {
	Moves        []int             `json:"moves"`
	Difficulty   domain.Difficulty `json:"difficulty"`
	Rows         int               `json:"rows"`
	Columns      int               `json:"columns"`
	WinCondition int               `json:"winCondition"`
	// Seed makes the easy bot's random pick reproducible; 0 seeds from the clock.
	Seed uint64 `json:"seed,omitempty"`
}

type Config struct {
	Profiles Profiles
	TTBits   int
	Workers  int
}

// Engine is safe for concurrent use: it only reads its configuration and
// every call works on its own board, table and random source.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.Profiles == nil {
		cfg.Profiles = DefaultProfiles()
	}
	if cfg.TTBits == 0 {
		cfg.TTBits = DEFAULT_TT_BITS
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) Profiles() Profiles {
	out := make(Profiles, len(domain.Difficulties))
	for _, d := range domain.Difficulties {
		out[d], _ = e.cfg.Profiles.Profile(d)
	}
	return out
}

// ValidateRequest checks geometry, difficulty and the range of every move.
// Column overflow is only found by replaying.
func ValidateRequest(req Request) error {
	if req.Rows <= 0 || req.Rows > domain.MaxDimension || req.Columns <= 0 || req.Columns > domain.MaxDimension {
		return fmt.Errorf("%w: %dx%d board", domain.ErrInvalidDimensions, req.Rows, req.Columns)
	}
	if req.WinCondition < domain.MinWinCondition || req.WinCondition > domain.MaxDimension {
		return fmt.Errorf("%w: win condition %d", domain.ErrInvalidDimensions, req.WinCondition)
	}
	if !req.Difficulty.Valid() {
		return domain.ErrUnknownDifficulty
	}
	for i, col := range req.Moves {
		if col < 0 || col >= req.Columns {
			return fmt.Errorf("%w: move %d (column %d) is off the board", domain.ErrIllegalMoveInHistory, i, col)
		}
	}
	return nil
}

// ComputeMove validates the request, replays the history and searches for
// the side to move. Running out of budget is not an error: the best move
// of the deepest completed iteration is returned.
func (e *Engine) ComputeMove(ctx context.Context, req Request) (Result, error) {
	if err := ValidateRequest(req); err != nil {
		return Result{Column: -1}, err
	}
	prof, err := e.cfg.Profiles.Profile(req.Difficulty)
	if err != nil {
		return Result{Column: -1}, err
	}

	board, status, err := domain.Replay(req.Moves, req.Rows, req.Columns, req.WinCondition)
	if err != nil {
		return Result{Column: -1}, err
	}
	if status != domain.StatusOngoing {
		return Result{Column: -1}, fmt.Errorf("%w: history ends in a %s", domain.ErrGameAlreadyOver, status)
	}

	opts := SearchOptions{TTBits: e.cfg.TTBits, Workers: e.cfg.Workers}
	if prof.Tolerance > 0 {
		opts.Rand = newRand(req.Seed)
	}
	return Search(ctx, board, domain.PlayerForMove(len(req.Moves)), req.WinCondition, prof, opts)
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

var defaultEngine = NewEngine(Config{})

// ComputeMove is the engine's narrow contract: a column in [0, columns)
// or one of the domain errors.
func ComputeMove(moves []int, difficulty string, rows, columns, winCondition int) (int, error) {
	d, err := domain.ParseDifficulty(difficulty)
	if err != nil {
		return -1, err
	}
	result, err := defaultEngine.ComputeMove(context.Background(), Request{
		Moves:        moves,
		Difficulty:   d,
		Rows:         rows,
		Columns:      columns,
		WinCondition: winCondition,
	})
	if err != nil {
		return -1, err
	}
	return result.Column, nil
}
