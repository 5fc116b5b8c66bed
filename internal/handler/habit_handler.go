package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/habit-tracker/internal/dto"
	"github.com/prperemyshlev/habit-tracker/internal/service"
)

// HabitHandler handles habit and checklist requests. Every route requires
// a resolved session.
type HabitHandler struct {
	habitService service.HabitService
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(habitService service.HabitService) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

// Checklist returns the caller's habit slots for a day
// @Summary Daily checklist
// @Tags habits
// @Produce json
// @Param day query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {array} domain.ChecklistItem
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/checklist/today [get]
func (h *HabitHandler) Checklist(c *gin.Context) {
	id, _ := currentIdentity(c)

	items, err := h.habitService.Checklist(c.Request.Context(), id.ID, c.Query("day"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// CreateHabit creates a habit with its first slot
// @Summary Create habit
// @Tags habits
// @Accept json
// @Produce json
// @Param request body dto.CreateHabitRequest true "Habit"
// @Success 201 {object} dto.HabitResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/habits [post]
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	var req dto.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, err)
		return
	}

	id, _ := currentIdentity(c)

	habit, slot, err := h.habitService.CreateHabit(c.Request.Context(), id.ID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewHabitResponse(habit, slot))
}

// LogHabit upserts the completion record for a habit slot and day
// @Summary Log habit completion
// @Tags habits
// @Accept json
// @Produce json
// @Param request body dto.HabitLogRequest true "Habit log"
// @Success 200 {object} dto.HabitLogResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/habit_log [post]
func (h *HabitHandler) LogHabit(c *gin.Context) {
	var req dto.HabitLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, err)
		return
	}

	id, _ := currentIdentity(c)

	saved, err := h.habitService.LogHabit(c.Request.Context(), id.ID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewHabitLogResponse(saved))
}
