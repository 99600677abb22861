package domain

import "time"

// SearchRecord is one computed bot move as kept in the statistics store.
// It holds the shape of the position, never the move history.
type SearchRecord struct {
	RequestID    string        `json:"request_id"`
	Difficulty   string        `json:"difficulty"`
	Rows         int           `json:"rows"`
	Columns      int           `json:"columns"`
	WinCondition int           `json:"win_condition"`
	MoveCount    int           `json:"move_count"`
	Column       int           `json:"column"`
	Score        int           `json:"score"`
	Depth        int           `json:"depth"`
	Nodes        int           `json:"nodes"`
	Truncated    bool          `json:"truncated"`
	Tactic       string        `json:"tactic,omitempty"`
	Cached       bool          `json:"cached"`
	RootScores   []int64       `json:"root_scores,omitempty"`
	Elapsed      time.Duration `json:"elapsed"`
	CreatedAt    time.Time     `json:"created_at"`
}

type SearchSummary struct {
	Difficulty   string  `json:"difficulty"`
	Searches     int64   `json:"searches"`
	CacheHits    int64   `json:"cache_hits"`
	Truncated    int64   `json:"truncated"`
	AvgDepth     float64 `json:"avg_depth"`
	AvgNodes     float64 `json:"avg_nodes"`
	AvgElapsedMs float64 `json:"avg_elapsed_ms"`
}
