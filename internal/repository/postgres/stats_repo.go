package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
	"github.com/lib/pq"
)

type StatsRepo struct {
	DB *sql.DB
}

func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{DB: db}
}

// SaveSearch stores one computed move. A replayed request id is ignored.
func (r *StatsRepo) SaveSearch(ctx context.Context, rec domain.SearchRecord) error {
	query := `
	INSERT INTO bot_searches (request_id, difficulty, board_rows, board_columns, win_condition, move_count, chosen_column, score, depth, nodes, truncated, tactic, cached, root_scores, elapsed_ms, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (request_id) DO NOTHING;
	`
	rootScores := rec.RootScores
	if rootScores == nil {
		rootScores = []int64{}
	}
	_, err := r.DB.ExecContext(ctx, query,
		rec.RequestID, rec.Difficulty, rec.Rows, rec.Columns, rec.WinCondition, rec.MoveCount,
		rec.Column, rec.Score, rec.Depth, rec.Nodes, rec.Truncated, rec.Tactic, rec.Cached,
		pq.Array(rootScores), rec.Elapsed.Milliseconds(), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert search record: %v", err)
	}
	return nil
}

// RecentSearches returns the newest records, optionally for one difficulty.
func (r *StatsRepo) RecentSearches(ctx context.Context, difficulty string, limit int) ([]domain.SearchRecord, error) {
	query := `
	SELECT request_id, difficulty, board_rows, board_columns, win_condition, move_count, chosen_column, score, depth, nodes, truncated, tactic, cached, root_scores, elapsed_ms, created_at
	FROM bot_searches
	WHERE ($1 = '' OR difficulty = $1)
	ORDER BY created_at DESC
	LIMIT $2;
	`
	rows, err := r.DB.QueryContext(ctx, query, difficulty, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %v", err)
	}
	defer rows.Close()

	records := []domain.SearchRecord{}
	for rows.Next() {
		var rec domain.SearchRecord
		var elapsedMs int64
		err := rows.Scan(&rec.RequestID, &rec.Difficulty, &rec.Rows, &rec.Columns, &rec.WinCondition, &rec.MoveCount,
			&rec.Column, &rec.Score, &rec.Depth, &rec.Nodes, &rec.Truncated, &rec.Tactic, &rec.Cached,
			pq.Array(&rec.RootScores), &elapsedMs, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search: %v", err)
		}
		rec.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating searches: %v", err)
	}
	return records, nil
}

// Summary aggregates the stored searches per difficulty.
func (r *StatsRepo) Summary(ctx context.Context) ([]domain.SearchSummary, error) {
	query := `
	SELECT difficulty,
		COUNT(*),
		COUNT(*) FILTER (WHERE cached),
		COUNT(*) FILTER (WHERE truncated),
		COALESCE(AVG(depth), 0),
		COALESCE(AVG(nodes), 0),
		COALESCE(AVG(elapsed_ms), 0)
	FROM bot_searches
	GROUP BY difficulty
	ORDER BY difficulty;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize searches: %v", err)
	}
	defer rows.Close()

	summaries := []domain.SearchSummary{}
	for rows.Next() {
		var s domain.SearchSummary
		if err := rows.Scan(&s.Difficulty, &s.Searches, &s.CacheHits, &s.Truncated, &s.AvgDepth, &s.AvgNodes, &s.AvgElapsedMs); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %v", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// CleanupOldSearches deletes records older than the given number of days
func (r *StatsRepo) CleanupOldSearches(ctx context.Context, olderThanDays int) (int64, error) {
	query := `
	DELETE FROM bot_searches
	WHERE created_at < NOW() - INTERVAL '1 day' * $1;
	`
	result, err := r.DB.ExecContext(ctx, query, olderThanDays)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old searches: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %v", err)
	}

	return rowsAffected, nil
}
