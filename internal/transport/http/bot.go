package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
	"github.com/iamasit07/4-in-a-row/engine/internal/service/bot"
	"github.com/iamasit07/4-in-a-row/engine/internal/service/game"
)

type BotHandler struct {
	Service *game.Service
}

func NewBotHandler(svc *game.Service) *BotHandler {
	return &BotHandler{Service: svc}
}

// Omitted geometry falls back to the classic 6x7 connect four.
type moveRequest struct {
	Moves        []int  `json:"moves"`
	Difficulty   string `json:"difficulty"`
	Rows         *int   `json:"rows"`
	Columns      *int   `json:"columns"`
	WinCondition *int   `json:"winCondition"`
	Seed         uint64 `json:"seed"`
}

type validateRequest struct {
	Moves        []int `json:"moves"`
	Rows         *int  `json:"rows"`
	Columns      *int  `json:"columns"`
	WinCondition *int  `json:"winCondition"`
}

type difficultyResponse struct {
	Difficulty domain.Difficulty `json:"difficulty"`
	BotName    string            `json:"botName"`
	Profile    bot.Profile       `json:"profile"`
}

// ComputeMove handles POST /api/bot/move
func (h *BotHandler) ComputeMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": "bad_request"})
		return
	}

	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(c, err)
		return
	}

	// the search stops early if the client goes away
	result, err := h.Service.ComputeMove(c.Request.Context(), bot.Request{
		Moves:        req.Moves,
		Difficulty:   difficulty,
		Rows:         orDefault(req.Rows, domain.DefaultRows),
		Columns:      orDefault(req.Columns, domain.DefaultColumns),
		WinCondition: orDefault(req.WinCondition, domain.DefaultWinCondition),
		Seed:         req.Seed,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Validate handles POST /api/games/validate
func (h *BotHandler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": "bad_request"})
		return
	}

	results, err := h.Service.Validate(req.Moves,
		orDefault(req.Rows, domain.DefaultRows),
		orDefault(req.Columns, domain.DefaultColumns),
		orDefault(req.WinCondition, domain.DefaultWinCondition))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// Difficulties handles GET /api/bot/difficulties
func (h *BotHandler) Difficulties(c *gin.Context) {
	profiles := h.Service.Engine().Profiles()
	response := make([]difficultyResponse, 0, len(domain.Difficulties))
	for _, d := range domain.Difficulties {
		response = append(response, difficultyResponse{
			Difficulty: d,
			BotName:    domain.GetBotName(d),
			Profile:    profiles[d],
		})
	}
	c.JSON(http.StatusOK, response)
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// writeError maps domain errors onto HTTP statuses. Bad input is 422, a
// position with nothing left to play is 409.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidDimensions),
		errors.Is(err, domain.ErrIllegalMoveInHistory),
		errors.Is(err, domain.ErrUnknownDifficulty):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrGameAlreadyOver),
		errors.Is(err, domain.ErrNoLegalMove):
		status = http.StatusConflict
	default:
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "Internal server error", "code": domain.ErrorCode(err)})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": domain.ErrorCode(err)})
}
