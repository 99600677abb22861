package bot

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
)

// drawHistory fills a 6x7 board without anybody connecting four.
var drawHistory = []int{
	3, 4, 4, 6, 0, 3, 5, 2, 6, 5, 0, 6, 5, 0, 3, 6, 5, 6, 1, 3, 1,
	3, 6, 5, 2, 0, 5, 3, 4, 4, 0, 1, 1, 1, 0, 1, 4, 2, 4, 2, 2, 2,
}

// testEngine drops wall-clock limits so results only depend on node
// budgets, and keeps those budgets small enough for -race runs.
func testEngine(workers int) *Engine {
	profiles := DefaultProfiles()
	for d, p := range profiles {
		p.TimeBudget = 0
		p.NodeBudget = min(p.NodeBudget, 20_000)
		profiles[d] = p
	}
	return NewEngine(Config{Profiles: profiles, TTBits: 14, Workers: workers})
}

func request(moves []int, d domain.Difficulty) Request {
	return Request{
		Moves:        moves,
		Difficulty:   d,
		Rows:         domain.DefaultRows,
		Columns:      domain.DefaultColumns,
		WinCondition: domain.DefaultWinCondition,
		Seed:         42,
	}
}

func TestComputeMoveTakesImmediateWin(t *testing.T) {
	e := testEngine(0)
	// Player1 owns (5,0) (5,1) (5,2); column 3 wins.
	moves := []int{0, 6, 1, 6, 2, 5}
	for _, d := range []domain.Difficulty{domain.Medium, domain.Hard, domain.Insane} {
		res, err := e.ComputeMove(context.Background(), request(moves, d))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", d, err)
		}
		if res.Column != 3 {
			t.Fatalf("%s: column = %d, want winning column 3", d, res.Column)
		}
		if res.Player != domain.Player1 {
			t.Fatalf("%s: player = %d, want Player1", d, res.Player)
		}
	}
}

func TestComputeMoveBlocksImmediateThreat(t *testing.T) {
	e := testEngine(0)
	// Player2 to move; Player1 threatens (5,3).
	moves := []int{0, 0, 1, 1, 2}
	for _, d := range []domain.Difficulty{domain.Hard, domain.Insane} {
		res, err := e.ComputeMove(context.Background(), request(moves, d))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", d, err)
		}
		if res.Column != 3 {
			t.Fatalf("%s: column = %d, want blocking column 3", d, res.Column)
		}
		if res.Tactic != TacticBlock {
			t.Fatalf("%s: tactic = %q, want %q", d, res.Tactic, TacticBlock)
		}
	}
}

func TestComputeMoveIsDeterministic(t *testing.T) {
	e := testEngine(0)
	moves := []int{3, 3, 2, 4}
	for _, d := range []domain.Difficulty{domain.Medium, domain.Hard, domain.Insane} {
		first, err := e.ComputeMove(context.Background(), request(moves, d))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", d, err)
		}
		for i := 0; i < 3; i++ {
			again, err := e.ComputeMove(context.Background(), request(moves, d))
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", d, err)
			}
			if again.Column != first.Column || again.Score != first.Score {
				t.Fatalf("%s: run %d chose %d (%d), first chose %d (%d)", d, i, again.Column, again.Score, first.Column, first.Score)
			}
		}
	}
}

func TestComputeMoveEmptyBoard(t *testing.T) {
	e := testEngine(0)
	res, err := e.ComputeMove(context.Background(), request(nil, domain.Medium))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Column < 0 || res.Column >= domain.DefaultColumns {
		t.Fatalf("column %d out of range", res.Column)
	}
	if res.Depth < 1 {
		t.Fatalf("expected at least one completed iteration, got depth %d", res.Depth)
	}
}

func TestStrongLevelsOpenInTheCenter(t *testing.T) {
	e := testEngine(0)
	for _, d := range []domain.Difficulty{domain.Hard, domain.Insane} {
		res, err := e.ComputeMove(context.Background(), request(nil, d))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", d, err)
		}
		if res.Column != 3 || res.Tactic != TacticOpening {
			t.Fatalf("%s opened in column %d (%q), want 3", d, res.Column, res.Tactic)
		}
	}

	req := request(nil, domain.Insane)
	req.Columns = 6
	res, err := e.ComputeMove(context.Background(), req)
	if err != nil || res.Column != 2 {
		t.Fatalf("even board should open in the left middle column, got %d, %v", res.Column, err)
	}
}

func TestComputeMoveStackedCenterColumn(t *testing.T) {
	e := testEngine(0)
	res, err := e.ComputeMove(context.Background(), request([]int{3, 3, 3}, domain.Hard))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	board, _ := domain.Reconstruct([]int{3, 3, 3}, 6, 7)
	if !board.IsValidMove(res.Column) {
		t.Fatalf("column %d is not playable", res.Column)
	}
	if res.Player != domain.Player2 {
		t.Fatalf("player = %d, want Player2", res.Player)
	}
}

func TestComputeMoveRejectsFinishedGames(t *testing.T) {
	e := testEngine(0)
	cases := map[string][]int{
		"vertical win":      {0, 1, 0, 1, 0, 1, 0},
		"moves after a win": {0, 1, 0, 1, 0, 1, 0, 1},
		"full board":        drawHistory,
	}
	for name, moves := range cases {
		_, err := e.ComputeMove(context.Background(), request(moves, domain.Hard))
		if !errors.Is(err, domain.ErrGameAlreadyOver) {
			t.Fatalf("%s: expected ErrGameAlreadyOver, got %v", name, err)
		}
	}
}

func TestComputeMoveValidation(t *testing.T) {
	e := testEngine(0)
	cases := []struct {
		name string
		req  Request
		want error
	}{
		{"zero rows", Request{Rows: 0, Columns: 7, WinCondition: 4}, domain.ErrInvalidDimensions},
		{"too many columns", Request{Rows: 6, Columns: 65, WinCondition: 4}, domain.ErrInvalidDimensions},
		{"win condition below three", Request{Rows: 6, Columns: 7, WinCondition: 2}, domain.ErrInvalidDimensions},
		{"unknown difficulty", Request{Rows: 6, Columns: 7, WinCondition: 4, Difficulty: domain.Difficulty(9)}, domain.ErrUnknownDifficulty},
		{"column off the board", Request{Moves: []int{7}, Rows: 6, Columns: 7, WinCondition: 4}, domain.ErrIllegalMoveInHistory},
		{"negative column", Request{Moves: []int{-1}, Rows: 6, Columns: 7, WinCondition: 4}, domain.ErrIllegalMoveInHistory},
		{"overfilled column", Request{Moves: []int{0, 0, 0, 0, 0, 0, 0}, Rows: 6, Columns: 7, WinCondition: 4}, domain.ErrIllegalMoveInHistory},
	}
	for _, tc := range cases {
		res, err := e.ComputeMove(context.Background(), tc.req)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if res.Column != -1 {
			t.Fatalf("%s: failed request must not carry a column, got %d", tc.name, res.Column)
		}
	}
}

func TestComputeMoveAlwaysLegal(t *testing.T) {
	e := testEngine(0)
	rng := rand.New(rand.NewPCG(7, 11))
	checked := 0
	for checked < 16 {
		rows, cols := 4+rng.IntN(4), 4+rng.IntN(5)
		winCondition := 3 + rng.IntN(2)
		board, _ := domain.NewBoard(rows, cols)
		var moves []int
		over := false
		for n := rng.IntN(rows * cols); n > 0 && !over; n-- {
			valid := board.ValidMoves()
			col := valid[rng.IntN(len(valid))]
			player := domain.PlayerForMove(len(moves))
			row, _ := board.DropDisk(col, player)
			moves = append(moves, col)
			status, _ := domain.Outcome(board, row, col, player, winCondition)
			over = status != domain.StatusOngoing
		}
		if over {
			continue
		}
		checked++
		for _, d := range domain.Difficulties {
			res, err := e.ComputeMove(context.Background(), Request{
				Moves: moves, Difficulty: d, Rows: rows, Columns: cols, WinCondition: winCondition, Seed: 3,
			})
			if err != nil {
				t.Fatalf("%s on %dx%d %v: unexpected error: %v", d, rows, cols, moves, err)
			}
			if !board.IsValidMove(res.Column) {
				t.Fatalf("%s on %dx%d %v: column %d is not playable", d, rows, cols, moves, res.Column)
			}
		}
	}
}

func TestUnwinnableBoardPlaysOutToDraw(t *testing.T) {
	e := testEngine(0)
	var moves []int
	for i := 0; i < 16; i++ {
		res, err := e.ComputeMove(context.Background(), Request{
			Moves: moves, Difficulty: domain.Medium, Rows: 4, Columns: 4, WinCondition: 5,
		})
		if err != nil {
			t.Fatalf("move %d: unexpected error: %v", i, err)
		}
		moves = append(moves, res.Column)
	}
	_, err := e.ComputeMove(context.Background(), Request{
		Moves: moves, Difficulty: domain.Medium, Rows: 4, Columns: 4, WinCondition: 5,
	})
	if !errors.Is(err, domain.ErrGameAlreadyOver) {
		t.Fatalf("expected ErrGameAlreadyOver once the board is full, got %v", err)
	}
}

func TestEasySeedIsReproducible(t *testing.T) {
	e := testEngine(0)
	moves := []int{3, 2}
	first, err := e.ComputeMove(context.Background(), request(moves, domain.Easy))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _ := e.ComputeMove(context.Background(), request(moves, domain.Easy))
		if again.Column != first.Column {
			t.Fatalf("same seed chose %d then %d", first.Column, again.Column)
		}
	}
	best := first.Scores[0].Score
	for _, s := range first.Scores {
		best = max(best, s.Score)
	}
	if first.Score < best-DefaultProfiles()[domain.Easy].Tolerance {
		t.Fatalf("easy pick %d scored %d, outside tolerance of best %d", first.Column, first.Score, best)
	}
}

func TestParallelRootMatchesContract(t *testing.T) {
	e := testEngine(4)
	res, err := e.ComputeMove(context.Background(), request([]int{0, 6, 1, 6, 2, 5}, domain.Medium))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Column != 3 {
		t.Fatalf("parallel search missed the win: column %d", res.Column)
	}

	moves := []int{3, 3, 2, 4}
	first, _ := e.ComputeMove(context.Background(), request(moves, domain.Hard))
	for i := 0; i < 3; i++ {
		again, _ := e.ComputeMove(context.Background(), request(moves, domain.Hard))
		if again.Column != first.Column {
			t.Fatalf("parallel search is not deterministic: %d vs %d", first.Column, again.Column)
		}
	}
}

func TestPackageComputeMove(t *testing.T) {
	col, err := ComputeMove([]int{0, 6, 1, 6, 2, 5}, "insane", 6, 7, 4)
	if err != nil || col != 3 {
		t.Fatalf("ComputeMove = %d, %v; want 3", col, err)
	}
	if _, err := ComputeMove(nil, "impossible", 6, 7, 4); !errors.Is(err, domain.ErrUnknownDifficulty) {
		t.Fatalf("expected ErrUnknownDifficulty, got %v", err)
	}
	if _, err := ComputeMove([]int{0, 1, 0, 1, 0, 1, 0}, "hard", 6, 7, 4); !errors.Is(err, domain.ErrGameAlreadyOver) {
		t.Fatalf("expected ErrGameAlreadyOver, got %v", err)
	}
}
