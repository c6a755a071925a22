package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ngooning-backend/internal/http/response"
	"github.com/yungbote/ngooning-backend/internal/services"
)

type HabitHandler struct {
	habitService services.HabitService
}

func NewHabitHandler(habitService services.HabitService) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

// GET /api/habits
func (h *HabitHandler) List(c *gin.Context) {
	habits, err := h.habitService.ListHabits(requestDBC(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

// POST /api/habits
func (h *HabitHandler) Create(c *gin.Context) {
	var req services.CreateHabitInput
	if !bindJSON(c, &req) {
		return
	}
	habit, err := h.habitService.CreateHabit(requestDBC(c), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"habit": habit})
}

// POST /api/habits/:id/logs
func (h *HabitHandler) Log(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req services.LogHabitInput
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.habitService.LogProgress(requestDBC(c), id, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": l})
}
