package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ngooning-backend/internal/http/response"
	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
	"github.com/yungbote/ngooning-backend/internal/platform/envutil"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
	"github.com/yungbote/ngooning-backend/internal/services"
)

const (
	maxChatBodyBytes  = 1 << 20
	maxAudioBytes     = 25 << 20
	timestampLayout   = "2006-01-02T15:04:05.000Z07:00"
	invalidTypeParam  = "Invalid type parameter"
	invalidMessages   = "Invalid messages format"
	invalidChatBody   = "Invalid request body"
	invalidSituation  = "situation is required"
	missingAudioField = "audio file is required"
)

type ChatHandler struct {
	log           *logger.Logger
	companion     services.CompanionService
	transcription services.TranscriptionService
	now           func() time.Time
}

func NewChatHandler(log *logger.Logger, companion services.CompanionService, transcription services.TranscriptionService) *ChatHandler {
	return &ChatHandler{
		log:           log.With("handler", "ChatHandler"),
		companion:     companion,
		transcription: transcription,
		now:           time.Now,
	}
}

type chatRequest struct {
	Messages json.RawMessage            `json:"messages"`
	Context  *services.SnapshotOverride `json:"context"`
}

// POST /api/chat
func (h *ChatHandler) PostChat(c *gin.Context) {
	var req chatRequest
	if err := decodeJSON(c, maxChatBodyBytes, &req); err != nil {
		response.RespondBadRequest(c, "invalid_body", invalidChatBody)
		return
	}
	history, ok := parseHistory(req.Messages)
	if !ok {
		response.RespondBadRequest(c, "invalid_messages", invalidMessages)
		return
	}

	user := ctxutil.CurrentUser(c.Request.Context())
	s := services.Snapshot{
		UserID:    user.ID,
		UserName:  user.DisplayName(),
		TimeOfDay: services.CurrentTimeOfDay(h.now()),
	}.Apply(req.Context)

	reply := h.companion.Chat(c.Request.Context(), history, s)
	c.JSON(http.StatusOK, gin.H{
		"message":   reply,
		"timestamp": h.now().UTC().Format(timestampLayout),
	})
}

// parseHistory accepts only a JSON array of turns with known roles.
func parseHistory(raw json.RawMessage) ([]services.ChatMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var history []services.ChatMessage
	if err := json.Unmarshal(trimmed, &history); err != nil {
		return nil, false
	}
	for _, m := range history {
		if !services.ValidRole(m.Role) {
			return nil, false
		}
	}
	return history, true
}

// GET /api/chat?type=motivation|activities
func (h *ChatHandler) GetChat(c *gin.Context) {
	user := ctxutil.CurrentUser(c.Request.Context())
	switch c.Query("type") {
	case "motivation":
		s := services.Snapshot{
			UserID:   user.ID,
			UserName: strings.TrimSpace(user.UserMetadata.FullName),
		}
		c.JSON(http.StatusOK, gin.H{"message": h.companion.DailyMotivation(c.Request.Context(), s)})
	case "activities":
		s := services.Snapshot{
			UserID:    user.ID,
			TimeOfDay: services.CurrentTimeOfDay(h.now()),
		}
		prefs := envutil.SplitCSV(c.Query("preferences"))
		activities := h.companion.SuggestActivities(c.Request.Context(), s, strings.TrimSpace(c.Query("mood")), prefs)
		c.JSON(http.StatusOK, gin.H{"activities": activities})
	default:
		response.RespondBadRequest(c, "invalid_type", invalidTypeParam)
	}
}

type triggersRequest struct {
	Situation string                     `json:"situation"`
	Context   *services.SnapshotOverride `json:"context"`
}

// POST /api/chat/triggers
func (h *ChatHandler) AnalyzeTriggers(c *gin.Context) {
	var req triggersRequest
	if err := decodeJSON(c, maxChatBodyBytes, &req); err != nil {
		response.RespondBadRequest(c, "invalid_body", invalidChatBody)
		return
	}
	situation := strings.TrimSpace(req.Situation)
	if situation == "" {
		response.RespondBadRequest(c, "invalid_situation", invalidSituation)
		return
	}
	user := ctxutil.CurrentUser(c.Request.Context())
	s := services.Snapshot{UserID: user.ID, UserName: user.DisplayName()}.Apply(req.Context)
	c.JSON(http.StatusOK, h.companion.AnalyzeRelapseTriggers(c.Request.Context(), s, situation))
}

// POST /api/chat/transcribe (multipart field "file")
func (h *ChatHandler) Transcribe(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAudioBytes+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondBadRequest(c, "invalid_audio", missingAudioField)
		return
	}
	if fh.Size > maxAudioBytes {
		response.RespondBadRequest(c, "audio_too_large", "audio file exceeds 25 MiB")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondBadRequest(c, "invalid_audio", missingAudioField)
		return
	}
	defer f.Close()
	audio, err := io.ReadAll(io.LimitReader(f, maxAudioBytes))
	if err != nil {
		response.RespondBadRequest(c, "invalid_audio", "could not read audio file")
		return
	}
	if len(audio) == 0 {
		response.RespondBadRequest(c, "invalid_audio", missingAudioField)
		return
	}

	text := h.transcription.Transcribe(c.Request.Context(), audio, fh.Filename, fh.Header.Get("Content-Type"))
	c.JSON(http.StatusOK, gin.H{"text": text})
}
