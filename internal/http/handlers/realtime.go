package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/ngooning-backend/internal/http/response"
	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
	"github.com/yungbote/ngooning-backend/internal/realtime"
	"github.com/yungbote/ngooning-backend/internal/services"
)

type RealtimeHandler struct {
	log           *logger.Logger
	hub           *realtime.SSEHub
	socialService services.SocialService
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, socialService services.SocialService) *RealtimeHandler {
	return &RealtimeHandler{
		log:           log.With("handler", "RealtimeHandler"),
		hub:           hub,
		socialService: socialService,
	}
}

// GET /api/realtime/stream?groups=<id,id>
// Subscribes to the caller's user channel and to each listed group they belong to.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	user := ctxutil.CurrentUser(c.Request.Context())
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorBody{Error: "Unauthorized"})
		return
	}
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		response.RespondBadRequest(c, "invalid_user", "session user id is not a uuid")
		return
	}

	client := h.hub.NewSSEClient(userID)
	h.hub.AddChannel(client, realtime.UserChannel(userID))
	for _, groupID := range realtime.ParseGroupIDs(c.Query("groups")) {
		ok, err := h.socialService.IsMember(requestDBC(c), groupID)
		if err != nil {
			h.hub.CloseClient(client)
			response.RespondErr(c, err)
			return
		}
		if !ok {
			h.log.Debug("Skipping group the caller does not belong to", "group_id", groupID)
			continue
		}
		h.hub.AddChannel(client, realtime.GroupChannel(groupID))
	}

	h.log.Info("SSE stream open", "user_id", userID, "channels", len(client.Channels))
	h.hub.ServeHTTP(c.Writer, c.Request, client)
	h.hub.CloseClient(client)
}
