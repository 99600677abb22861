package game

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
	"github.com/iamasit07/4-in-a-row/engine/internal/service/bot"
	"github.com/iamasit07/4-in-a-row/engine/pkg/uid"
)

const resultKeyPrefix = "bot_move:"

// recordTimeout bounds the background write of one search record.
const recordTimeout = 5 * time.Second

type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type StatsRepository interface {
	SaveSearch(ctx context.Context, rec domain.SearchRecord) error
}

type EventPublisher interface {
	PublishMove(ctx context.Context, rec domain.SearchRecord) error
}

// MoveResult is what callers get back for one computed move.
type MoveResult struct {
	RequestID  string            `json:"request_id"`
	Column     int               `json:"column"`
	BotName    string            `json:"bot_name"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Player     domain.PlayerID   `json:"player"`
	Score      int               `json:"score"`
	Depth      int               `json:"depth"`
	Nodes      int               `json:"nodes"`
	Truncated  bool              `json:"truncated"`
	Tactic     string            `json:"tactic,omitempty"`
	Cached     bool              `json:"cached"`
	ElapsedMs  int64             `json:"elapsed_ms"`
	Scores     []bot.ColumnScore `json:"scores,omitempty"`
}

// Service wraps the engine with the optional result cache, statistics
// store and event stream. Any of the three may be nil.
type Service struct {
	engine   *bot.Engine
	cache    CacheRepository
	stats    StatsRepository
	events   EventPublisher
	cacheTTL time.Duration
	pending  sync.WaitGroup
}

func NewService(engine *bot.Engine, cache CacheRepository, stats StatsRepository, events EventPublisher, cacheTTL time.Duration) *Service {
	return &Service{
		engine:   engine,
		cache:    cache,
		stats:    stats,
		events:   events,
		cacheTTL: cacheTTL,
	}
}

func (s *Service) Engine() *bot.Engine {
	return s.engine
}

// ComputeMove answers one move request. Only deterministic difficulties are
// cached; a cache failure never fails the request.
func (s *Service) ComputeMove(ctx context.Context, req bot.Request) (*MoveResult, error) {
	requestID := uid.NewRequestID()
	if err := bot.ValidateRequest(req); err != nil {
		log.Printf("[BOT] %s rejected: %v", requestID, err)
		return nil, err
	}

	key, cacheable := s.cacheKey(req)
	if cacheable {
		if cached, ok := s.lookup(ctx, key); ok {
			cached.RequestID = requestID
			cached.Cached = true
			cached.ElapsedMs = 0
			s.record(req, cached)
			return cached, nil
		}
	}

	res, err := s.engine.ComputeMove(ctx, req)
	if err != nil {
		log.Printf("[BOT] %s failed: %v", requestID, err)
		return nil, err
	}

	out := &MoveResult{
		RequestID:  requestID,
		Column:     res.Column,
		BotName:    domain.GetBotName(req.Difficulty),
		Difficulty: req.Difficulty,
		Player:     res.Player,
		Score:      res.Score,
		Depth:      res.Depth,
		Nodes:      res.Nodes,
		Truncated:  res.Truncated,
		Tactic:     res.Tactic,
		ElapsedMs:  res.Elapsed.Milliseconds(),
		Scores:     res.Scores,
	}
	log.Printf("[BOT] %s %s played column %d (depth %d, %d nodes, %dms)",
		requestID, out.BotName, out.Column, out.Depth, out.Nodes, out.ElapsedMs)

	// a truncated search depends on timing, so only complete ones are reused
	if cacheable && !res.Truncated {
		s.store(ctx, key, out)
	}
	s.record(req, out)
	return out, nil
}

// Validate replays a stored game and reports its result.
func (s *Service) Validate(history []int, rows, columns, winCondition int) (domain.GameResults, error) {
	return domain.ValidateHistory(history, rows, columns, winCondition)
}

// Wait blocks until background stats and event writes are done.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) cacheKey(req bot.Request) (string, bool) {
	if s.cache == nil || req.Difficulty == domain.Easy {
		return "", false
	}
	packed, err := domain.EncodeMoves(req.Moves)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s%s:%dx%d:%d:%s", resultKeyPrefix, req.Difficulty, req.Rows, req.Columns, req.WinCondition, hex.EncodeToString(packed)), true
}

func (s *Service) lookup(ctx context.Context, key string) (*MoveResult, bool) {
	val, err := s.cache.Get(ctx, key)
	if err != nil || val == "" {
		return nil, false
	}
	var res MoveResult
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		log.Printf("[REDIS] Dropping unreadable entry %s: %v", key, err)
		s.cache.Del(ctx, key)
		return nil, false
	}
	return &res, true
}

func (s *Service) store(ctx context.Context, key string, res *MoveResult) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
		log.Printf("[REDIS] Failed to cache %s: %v", key, err)
	}
}

// record saves stats and publishes the event in background so the move
// reply is not held up by either.
func (s *Service) record(req bot.Request, res *MoveResult) {
	if s.stats == nil && s.events == nil {
		return
	}
	rec := domain.SearchRecord{
		RequestID:    res.RequestID,
		Difficulty:   req.Difficulty.String(),
		Rows:         req.Rows,
		Columns:      req.Columns,
		WinCondition: req.WinCondition,
		MoveCount:    len(req.Moves),
		Column:       res.Column,
		Score:        res.Score,
		Depth:        res.Depth,
		Nodes:        res.Nodes,
		Truncated:    res.Truncated,
		Tactic:       res.Tactic,
		Cached:       res.Cached,
		RootScores:   rootScores(res.Scores),
		Elapsed:      time.Duration(res.ElapsedMs) * time.Millisecond,
		CreatedAt:    time.Now(),
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if s.stats != nil {
			if err := s.stats.SaveSearch(ctx, rec); err != nil {
				log.Printf("[DB] Error saving search %s: %v", rec.RequestID, err)
			}
		}
		if s.events != nil {
			if err := s.events.PublishMove(ctx, rec); err != nil {
				log.Printf("[KAFKA] Error publishing search %s: %v", rec.RequestID, err)
			}
		}
	}()
}

// rootScores lays the root scores out by column; unscored columns are 0.
func rootScores(scores []bot.ColumnScore) []int64 {
	if len(scores) == 0 {
		return nil
	}
	width := 0
	for _, cs := range scores {
		width = max(width, cs.Column+1)
	}
	out := make([]int64, width)
	for _, cs := range scores {
		out[cs.Column] = int64(cs.Score)
	}
	return out
}
