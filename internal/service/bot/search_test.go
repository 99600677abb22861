package bot

import (
	"context"
	"errors"
	"reflect"
	"runtime"
	"testing"
	"time"

	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
)

func TestCenterOrder(t *testing.T) {
	if got := centerOrder(7); !reflect.DeepEqual(got, []int{3, 2, 4, 1, 5, 0, 6}) {
		t.Fatalf("centerOrder(7) = %v", got)
	}
	if got := centerOrder(6); !reflect.DeepEqual(got, []int{2, 3, 1, 4, 0, 5}) {
		t.Fatalf("centerOrder(6) = %v", got)
	}
	if got := centerOrder(1); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("centerOrder(1) = %v", got)
	}
}

func TestSelectBestTieBreak(t *testing.T) {
	scores := []ColumnScore{{0, 5}, {6, 5}, {2, 5}, {4, 5}, {1, 9}}
	if got := selectBest(scores, 7); got.Column != 1 {
		t.Fatalf("highest score must win, got column %d", got.Column)
	}
	scores[4].Score = 5
	if got := selectBest(scores, 7); got.Column != 2 {
		t.Fatalf("equal scores: expected nearest-center lowest column 2, got %d", got.Column)
	}
}

func TestWinScorePrefersFasterWins(t *testing.T) {
	if winScore(1, true) <= winScore(3, true) {
		t.Fatalf("a win on ply 1 must outscore a win on ply 3")
	}
	if winScore(2, false) >= winScore(4, false) {
		t.Fatalf("a loss on ply 2 must score below a loss on ply 4")
	}
	if !isProven(winScore(40, true)) || !isProven(winScore(40, false)) || isProven(EVAL_LIMIT) {
		t.Fatalf("proven scores must be separated from heuristic ones")
	}
}

func TestSearchRestoresBoard(t *testing.T) {
	b, _ := domain.Reconstruct([]int{3, 3, 2, 4, 4}, 6, 7)
	before := b.Grid()
	prof := Profile{MaxDepth: 5, NodeBudget: 50_000}
	if _, err := Search(context.Background(), b, domain.Player2, 4, prof, SearchOptions{TTBits: 12}); err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if !reflect.DeepEqual(before, b.Grid()) {
		t.Fatalf("board changed during search")
	}
}

func TestSearchFullBoard(t *testing.T) {
	b, _ := domain.Reconstruct(drawHistory, 6, 7)
	_, err := Search(context.Background(), b, domain.Player1, 4, Profile{MaxDepth: 3, NodeBudget: 100}, SearchOptions{})
	if !errors.Is(err, domain.ErrNoLegalMove) {
		t.Fatalf("expected ErrNoLegalMove, got %v", err)
	}
}

func TestSearchStopsAtNodeBudget(t *testing.T) {
	b, _ := domain.NewBoard(6, 7)
	prof := Profile{MaxDepth: 12, NodeBudget: 5}
	res, err := Search(context.Background(), b, domain.Player1, 4, prof, SearchOptions{TTBits: 10})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if !res.Truncated || res.Depth != 1 {
		t.Fatalf("expected truncation after depth 1, got depth %d truncated %v", res.Depth, res.Truncated)
	}
	if res.Column != 3 {
		t.Fatalf("one-ply search should prefer the center, got %d", res.Column)
	}
}

func TestSearchHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b, _ := domain.NewBoard(6, 7)
	prof := Profile{MaxDepth: 12, NodeBudget: 10_000_000}
	res, err := Search(ctx, b, domain.Player1, 4, prof, SearchOptions{TTBits: 10})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if !res.Truncated {
		t.Fatalf("cancelled search should stop early, reached depth %d", res.Depth)
	}
	if !b.IsValidMove(res.Column) {
		t.Fatalf("column %d is not playable", res.Column)
	}
}

func TestFindTacticDoubleThreatFallsThrough(t *testing.T) {
	b := boardFrom(t, 6, 7, map[int][]domain.PlayerID{
		1: {domain.Player1}, 2: {domain.Player1}, 3: {domain.Player1},
		6: {domain.Player2, domain.Player2},
	})
	moves := legalMoves(b)
	if _, _, ok := findTactic(b, domain.Player2, 4, moves); ok {
		t.Fatalf("two open ends cannot both be blocked")
	}
	if col, tactic, ok := findTactic(b, domain.Player1, 4, moves); !ok || tactic != TacticWin || col != 4 {
		t.Fatalf("expected win at 4 (center side first), got %d %q %v", col, tactic, ok)
	}
}

func TestSearchDefersForcedLoss(t *testing.T) {
	// Player1 has an open three on the bottom row; every Player2 reply loses.
	b := boardFrom(t, 6, 7, map[int][]domain.PlayerID{
		1: {domain.Player1}, 2: {domain.Player1}, 3: {domain.Player1},
		6: {domain.Player2, domain.Player2},
	})
	prof := Profile{MaxDepth: 4, NodeBudget: 1_000_000}
	res, err := Search(context.Background(), b, domain.Player2, 4, prof, SearchOptions{TTBits: 12})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res.Score != winScore(2, false) {
		t.Fatalf("score = %d, want a loss on ply 2 (%d)", res.Score, winScore(2, false))
	}
	// every reply loses equally fast, so the tie-break keeps the middle
	if res.Column != 3 {
		t.Fatalf("column = %d, want 3", res.Column)
	}
}

func TestBranchTTBits(t *testing.T) {
	cases := []struct{ bits, branches, want int }{
		{16, 1, 16},
		{16, 2, 15},
		{16, 7, 13},
		{16, 8, 13},
		{16, 64, 10},
		{6, 64, minTTBits},
	}
	for _, tc := range cases {
		if got := branchTTBits(tc.bits, tc.branches); got != tc.want {
			t.Fatalf("branchTTBits(%d, %d) = %d, want %d", tc.bits, tc.branches, got, tc.want)
		}
	}
}

func TestParallelRootSharesOneTableBudget(t *testing.T) {
	for _, columns := range []int{7, 64} {
		board, _ := domain.NewBoard(6, columns)
		moves := legalMoves(board)
		root := newParallelRoot(context.Background(), board, domain.Player1, 4, moves, DEFAULT_TT_BITS, 1000, time.Time{}, 4)
		total := 0
		for _, br := range root.branches {
			total += len(br.s.tt.entries)
		}
		if total > 1<<DEFAULT_TT_BITS {
			t.Fatalf("%d columns: branch tables hold %d entries, more than %d", columns, total, 1<<DEFAULT_TT_BITS)
		}
	}
}

func TestParallelSearchAllocationOnWideBoard(t *testing.T) {
	e := testEngine(4)
	req := Request{
		Moves:        []int{32},
		Difficulty:   domain.Medium,
		Rows:         6,
		Columns:      64,
		WinCondition: 4,
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	res, err := e.ComputeMove(context.Background(), req)
	runtime.ReadMemStats(&after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Column < 0 || res.Column >= 64 {
		t.Fatalf("column %d is off the board", res.Column)
	}
	// one full table per branch would be 64 * 2^14 entries, about 50 MB
	if alloc := after.TotalAlloc - before.TotalAlloc; alloc > 16<<20 {
		t.Fatalf("search allocated %d bytes", alloc)
	}
}
