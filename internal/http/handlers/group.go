package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ngooning-backend/internal/http/response"
	"github.com/yungbote/ngooning-backend/internal/services"
)

type GroupHandler struct {
	socialService services.SocialService
}

func NewGroupHandler(socialService services.SocialService) *GroupHandler {
	return &GroupHandler{socialService: socialService}
}

// GET /api/groups?limit=&offset=
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.socialService.ListGroups(requestDBC(c), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GET /api/groups/:id
func (h *GroupHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	detail, err := h.socialService.GetGroup(requestDBC(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// POST /api/groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req services.CreateGroupInput
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.socialService.CreateGroup(requestDBC(c), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"group": g})
}

// POST /api/groups/:id/join
func (h *GroupHandler) Join(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	m, err := h.socialService.JoinGroup(requestDBC(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"membership": m})
}

// GET /api/groups/:id/messages?limit=
func (h *GroupHandler) ListMessages(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	msgs, err := h.socialService.ListMessages(requestDBC(c), id, queryInt(c, "limit", 50))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// POST /api/groups/:id/messages
func (h *GroupHandler) PostMessage(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.socialService.PostMessage(requestDBC(c), id, req.Content)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}
