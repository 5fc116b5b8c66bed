package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/habit-tracker/internal/dto"
	"github.com/prperemyshlev/habit-tracker/internal/service"
)

// StatsHandler handles completion statistics requests
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// DailyCompletion returns the per-day completion series for a user.
// The user is taken from the query string, not the session.
// @Summary Daily completion
// @Tags stats
// @Produce json
// @Param user_id query string true "User ID"
// @Param days query int false "Window length, 1-365" default(21)
// @Param end_day query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {array} domain.DailyCompletion
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/stats/daily_completion [get]
func (h *StatsHandler) DailyCompletion(c *gin.Context) {
	var q dto.DailyCompletionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequestBody(c, err)
		return
	}

	series, err := h.statsService.DailyCompletion(c.Request.Context(), &q)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

// Ping reports that the stats routes are mounted
// @Summary Stats ping
// @Tags stats
// @Produce json
// @Success 200 {object} dto.PingResponse
// @Router /api/stats/ping [get]
func (h *StatsHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.PingResponse{
		OK:     true,
		Router: "streaks",
		Path:   "/api/stats/ping",
	})
}
