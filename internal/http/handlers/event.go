package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ngooning-backend/internal/http/response"
	"github.com/yungbote/ngooning-backend/internal/services"
)

type EventHandler struct {
	socialService services.SocialService
}

func NewEventHandler(socialService services.SocialService) *EventHandler {
	return &EventHandler{socialService: socialService}
}

// GET /api/events/upcoming?limit=
func (h *EventHandler) Upcoming(c *gin.Context) {
	events, err := h.socialService.ListUpcomingEvents(requestDBC(c), queryInt(c, "limit", 10))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	var req services.CreateEventInput
	if !bindJSON(c, &req) {
		return
	}
	ev, err := h.socialService.CreateEvent(requestDBC(c), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": ev})
}
