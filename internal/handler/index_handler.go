package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/habit-tracker/internal/dto"
)

var apiIndex = dto.IndexResponse{
	Name:            "Habit Tracker API",
	AuthEndpoints:   []string{"/auth/google", "/me", "/logout"},
	HabitEndpoints:  []string{"/api/checklist/today", "/api/habit_log", "/api/habits"},
	StreakEndpoints: []string{"/api/stats/daily_completion", "/api/stats/daily_completion_v2", "/api/stats/ping"},
}

// Index describes the available endpoints
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, apiIndex)
}
