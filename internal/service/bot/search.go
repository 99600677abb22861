package bot

import (
	"context"
	"math/bits"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
)

const (
	INF = 2 * WIN_SCORE

	// a score this close to WIN_SCORE is a forced result, not a heuristic
	PROVEN_THRESHOLD = WIN_SCORE - domain.MaxDimension*domain.MaxDimension

	DEFAULT_TT_BITS = 16
)

type ColumnScore struct {
	Column int `json:"column"`
	Score  int `json:"score"`
}

// Result is the outcome of one search. Only Column is part of the engine
// contract; the rest is diagnostics.
type Result struct {
	Column    int             `json:"column"`
	Score     int             `json:"score"`
	Depth     int             `json:"depth"`
	Nodes     int             `json:"nodes"`
	CacheHits int             `json:"cache_hits"`
	Truncated bool            `json:"truncated"`
	Tactic    string          `json:"tactic,omitempty"`
	Player    domain.PlayerID `json:"player"`
	Scores    []ColumnScore   `json:"scores,omitempty"`
	Elapsed   time.Duration   `json:"elapsed"`
}

type SearchOptions struct {
	TTBits  int
	Workers int
	// Rand drives the tolerance pick of profiles with Tolerance > 0.
	// Nil falls back to the best-scored move.
	Rand *rand.Rand
}

// Search chooses a column for player. The board is used as scratch space
// and is back in its original state when Search returns.
func Search(ctx context.Context, board *domain.Board, player domain.PlayerID, winCondition int, prof Profile, opts SearchOptions) (Result, error) {
	start := time.Now()
	result := Result{Column: -1, Player: player}

	moves := legalMoves(board)
	if len(moves) == 0 {
		return result, domain.ErrNoLegalMove
	}

	if prof.Tactical {
		if col, tactic, ok := findTactic(board, player, winCondition, moves); ok {
			result.Column = col
			result.Tactic = tactic
			result.Score = tacticScore(board, col, player, winCondition, tactic)
			result.Elapsed = time.Since(start)
			return result, nil
		}
	}

	if len(moves) == 1 {
		result.Column = moves[0]
		result.Elapsed = time.Since(start)
		return result, nil
	}

	var deadline time.Time
	if prof.TimeBudget > 0 {
		deadline = start.Add(prof.TimeBudget)
	}
	ttBits := opts.TTBits
	if ttBits == 0 {
		ttBits = DEFAULT_TT_BITS
	}

	var root rootSearch
	if opts.Workers > 1 {
		root = newParallelRoot(ctx, board, player, winCondition, moves, ttBits, prof.NodeBudget, deadline, opts.Workers)
	} else {
		root = newSerialRoot(ctx, board, player, winCondition, moves, ttBits, prof.NodeBudget, deadline, prof.Tolerance)
	}

	maxDepth := min(prof.MaxDepth, board.EmptyCells())
	var scores []ColumnScore
	for depth := 1; depth <= maxDepth; depth++ {
		// the first ply always completes so there is a move to fall back on
		iteration, ok := root.search(depth, depth > 1)
		if !ok {
			result.Truncated = true
			break
		}
		scores = iteration
		result.Depth = depth
		if best := selectBest(scores, board.Columns); isProven(best.Score) {
			break
		}
	}

	chosen := selectBest(scores, board.Columns)
	if prof.Tolerance > 0 && opts.Rand != nil {
		chosen = pickWithinTolerance(scores, chosen.Score, prof.Tolerance, opts.Rand)
	}

	result.Column = chosen.Column
	result.Score = chosen.Score
	result.Scores = scores
	result.Nodes, result.CacheHits = root.stats()
	result.Elapsed = time.Since(start)
	return result, nil
}

func legalMoves(board *domain.Board) []int {
	moves := make([]int, 0, board.Columns)
	for _, col := range centerOrder(board.Columns) {
		if board.IsValidMove(col) {
			moves = append(moves, col)
		}
	}
	return moves
}

func isProven(score int) bool {
	return score >= PROVEN_THRESHOLD || score <= -PROVEN_THRESHOLD
}

// winScore favours the quicker win and the slower loss.
func winScore(ply int, rootWins bool) int {
	if rootWins {
		return WIN_SCORE - ply
	}
	return -(WIN_SCORE - ply)
}

// selectBest applies the tie-break: higher score, then nearer the middle,
// then lower column.
func selectBest(scores []ColumnScore, columns int) ColumnScore {
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score || (s.Score == best.Score && preferredColumn(s.Column, best.Column, columns)) {
			best = s
		}
	}
	return best
}

func pickWithinTolerance(scores []ColumnScore, bestScore, tolerance int, rng *rand.Rand) ColumnScore {
	candidates := make([]ColumnScore, 0, len(scores))
	for _, s := range scores {
		if s.Score >= bestScore-tolerance {
			candidates = append(candidates, s)
		}
	}
	return candidates[rng.IntN(len(candidates))]
}

// searcher runs alpha-beta on its own board copy and table.
type searcher struct {
	ctx          context.Context
	board        *domain.Board
	root         domain.PlayerID
	opponent     domain.PlayerID
	winCondition int
	order        []int
	tt           *transpositionTable
	zobrist      *zobristTable
	hash         uint64

	nodes      int
	nodeBudget int
	deadline   time.Time
	bounded    bool
	aborted    bool
}

func newSearcher(ctx context.Context, board *domain.Board, root domain.PlayerID, winCondition, ttBits, nodeBudget int, deadline time.Time) *searcher {
	z := getZobrist(board.Rows, board.Columns)
	return &searcher{
		ctx:          ctx,
		board:        board,
		root:         root,
		opponent:     root.Opponent(),
		winCondition: winCondition,
		order:        centerOrder(board.Columns),
		tt:           newTranspositionTable(ttBits),
		zobrist:      z,
		hash:         z.hashBoard(board),
		nodeBudget:   nodeBudget,
		deadline:     deadline,
	}
}

// spend counts a node and reports whether the search has to stop.
func (s *searcher) spend() bool {
	s.nodes++
	if !s.bounded {
		return false
	}
	if s.aborted {
		return true
	}
	if s.nodes > s.nodeBudget {
		s.aborted = true
		return true
	}
	if s.nodes&1023 == 0 {
		if !s.deadline.IsZero() && time.Now().After(s.deadline) {
			s.aborted = true
		} else if s.ctx.Err() != nil {
			s.aborted = true
		}
	}
	return s.aborted
}

func (s *searcher) play(col int, player domain.PlayerID) int {
	row, _ := s.board.DropDisk(col, player)
	s.hash ^= s.zobrist.chip(row, col, player)
	return row
}

func (s *searcher) undo(row, col int, player domain.PlayerID) {
	s.board.RemoveDisk(col)
	s.hash ^= s.zobrist.chip(row, col, player)
}

// minimax scores the position from the root player's point of view.
// ply counts the moves made since the root position.
func (s *searcher) minimax(depth, ply, alpha, beta int, isMaximizing bool) int {
	if s.spend() {
		return 0
	}
	if s.board.IsFull() {
		return DRAW_SCORE
	}
	if depth == 0 {
		return Evaluate(s.board, s.root, s.winCondition)
	}

	alphaOrig, betaOrig := alpha, beta
	ttBest := -1
	if entry, ok := s.tt.probe(s.hash); ok {
		ttBest = entry.best
		if entry.depth >= depth {
			switch entry.flag {
			case ttExact:
				return entry.score
			case ttLower:
				alpha = max(alpha, entry.score)
			case ttUpper:
				beta = min(beta, entry.score)
			}
			if alpha >= beta {
				return entry.score
			}
		}
	}

	player, best := s.opponent, INF
	if isMaximizing {
		player, best = s.root, -INF
	}
	bestCol := -1

	// the table's best move first, then center-out
	for i := -1; i < len(s.order); i++ {
		col := ttBest
		if i >= 0 {
			col = s.order[i]
			if col == ttBest {
				continue
			}
		}
		if col < 0 || !s.board.IsValidMove(col) {
			continue
		}

		row := s.play(col, player)
		won := domain.IsWin(s.board, row, col, player, s.winCondition)
		var score int
		if won {
			score = winScore(ply+1, isMaximizing)
		} else {
			score = s.minimax(depth-1, ply+1, alpha, beta, !isMaximizing)
		}
		s.undo(row, col, player)
		if s.aborted {
			return 0
		}

		if isMaximizing {
			if score > best {
				best, bestCol = score, col
			}
			alpha = max(alpha, best)
		} else {
			if score < best {
				best, bestCol = score, col
			}
			beta = min(beta, best)
		}

		if won || alpha >= beta {
			break
		}
	}

	flag := ttExact
	if best <= alphaOrig {
		flag = ttUpper
	} else if best >= betaOrig {
		flag = ttLower
	}
	s.tt.store(s.hash, depth, best, flag, bestCol)
	return best
}

type rootSearch interface {
	// search scores every root move to the given depth. ok is false when
	// the budget ran out before all moves were scored.
	search(depth int, bounded bool) (scores []ColumnScore, ok bool)
	stats() (nodes, cacheHits int)
}

type serialRoot struct {
	s         *searcher
	moves     []int
	tolerance int
}

func newSerialRoot(ctx context.Context, board *domain.Board, player domain.PlayerID, winCondition int, moves []int, ttBits, nodeBudget int, deadline time.Time, tolerance int) *serialRoot {
	return &serialRoot{
		s:         newSearcher(ctx, board, player, winCondition, ttBits, nodeBudget, deadline),
		moves:     moves,
		tolerance: tolerance,
	}
}

// search narrows each later move's window to what could still change the
// choice. Moves are visited center-out, so a move that merely ties an
// earlier one never displaces it.
func (r *serialRoot) search(depth int, bounded bool) ([]ColumnScore, bool) {
	s := r.s
	s.bounded = bounded
	scores := make([]ColumnScore, 0, len(r.moves))
	best := -INF

	for _, col := range r.moves {
		row := s.play(col, s.root)
		var score int
		if domain.IsWin(s.board, row, col, s.root, s.winCondition) {
			score = winScore(1, true)
		} else {
			alpha := -INF
			if best > -INF {
				alpha = best
				if r.tolerance > 0 {
					alpha = best - r.tolerance - 1
				}
			}
			score = s.minimax(depth-1, 1, alpha, INF, false)
		}
		s.undo(row, col, s.root)
		if s.aborted {
			return scores, false
		}
		scores = append(scores, ColumnScore{Column: col, Score: score})
		best = max(best, score)
	}
	return scores, true
}

func (r *serialRoot) stats() (int, int) {
	return r.s.nodes, r.s.tt.hits
}

// parallelRoot gives every root move its own searcher, board copy and
// share of the node budget and table. Each move is searched with a full
// window and all results are collected before a move is chosen.
type parallelRoot struct {
	branches []*branch
	workers  int
}

type branch struct {
	column int
	won    bool
	s      *searcher
}

func newParallelRoot(ctx context.Context, board *domain.Board, player domain.PlayerID, winCondition int, moves []int, ttBits, nodeBudget int, deadline time.Time, workers int) *parallelRoot {
	share := max(nodeBudget/len(moves), 1)
	tableBits := branchTTBits(ttBits, len(moves))
	branches := make([]*branch, len(moves))
	for i, col := range moves {
		b := board.Clone()
		row, _ := b.DropDisk(col, player)
		branches[i] = &branch{
			column: col,
			won:    domain.IsWin(b, row, col, player, winCondition),
			s:      newSearcher(ctx, b, player, winCondition, tableBits, share, deadline),
		}
	}
	return &parallelRoot{branches: branches, workers: workers}
}

// branchTTBits sizes each branch table so that all of them together hold
// no more entries than a single table of ttBits.
func branchTTBits(ttBits, branches int) int {
	if branches <= 1 {
		return ttBits
	}
	return max(ttBits-bits.Len(uint(branches-1)), minTTBits)
}

func (r *parallelRoot) search(depth int, bounded bool) ([]ColumnScore, bool) {
	scores := make([]ColumnScore, len(r.branches))
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup

	for i, br := range r.branches {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, br *branch) {
			defer wg.Done()
			defer func() { <-sem }()
			score := winScore(1, true)
			if !br.won {
				br.s.bounded = bounded
				score = br.s.minimax(depth-1, 1, -INF, INF, false)
			}
			scores[i] = ColumnScore{Column: br.column, Score: score}
		}(i, br)
	}
	wg.Wait()

	for _, br := range r.branches {
		if br.s.aborted {
			return nil, false
		}
	}
	return scores, true
}

func (r *parallelRoot) stats() (int, int) {
	nodes, hits := 0, 0
	for _, br := range r.branches {
		nodes += br.s.nodes
		hits += br.s.tt.hits
	}
	return nodes, hits
}
