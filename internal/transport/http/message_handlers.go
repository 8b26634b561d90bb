package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/liaison-server/internal/auth"
	"github.com/vovakirdan/liaison-server/internal/proto"
	"github.com/vovakirdan/liaison-server/internal/service/notebook"
	"github.com/vovakirdan/liaison-server/internal/store"
)

// MessageHandlers provides HTTP handlers for the notebook endpoints.
type MessageHandlers struct {
	service *notebook.Service
	metrics *Metrics
	log     *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(svc *notebook.Service, metrics *Metrics, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		service: svc,
		metrics: metrics,
		log:     logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListMessages returns the messages visible to the caller.
// GET /api/messages
func (h *MessageHandlers) ListMessages(c *gin.Context) {
	claim, ok := h.claim(c)
	if !ok {
		return
	}

	messages, err := h.service.List(c.Request.Context(), claim)
	if err != nil {
		h.fail(c, "list", err)
		return
	}

	h.metrics.observe("list", "ok")
	h.log.Debug().Str("role", string(claim.Role)).Str("name", claim.Name).Int("message_count", len(messages)).Msg("messages listed")
	c.JSON(http.StatusOK, messagesToProto(messages))
}

// GetMessage returns one message, or null when it is unknown or not visible.
// GET /api/messages/:id
func (h *MessageHandlers) GetMessage(c *gin.Context) {
	claim, ok := h.claim(c)
	if !ok {
		return
	}
	id, ok := h.messageID(c)
	if !ok {
		return
	}

	msg, err := h.service.Get(c.Request.Context(), claim, id)
	if notebook.IsHidden(err) {
		h.metrics.observe("get", "hidden")
		h.log.Debug().Err(err).Int64("message_id", id).Str("name", claim.Name).Msg("message hidden")
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		h.fail(c, "get", err)
		return
	}

	h.metrics.observe("get", "ok")
	c.JSON(http.StatusOK, messageToProto(msg))
}

// CreateMessage posts a new message.
// POST /api/messages
func (h *MessageHandlers) CreateMessage(c *gin.Context) {
	claim, ok := h.claim(c)
	if !ok {
		return
	}

	var req proto.MessageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create message request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	msg, err := h.service.Create(c.Request.Context(), claim, draftFromProto(req))
	if err != nil {
		h.fail(c, "create", err)
		return
	}

	h.metrics.observe("create", "ok")
	h.log.Info().Int64("message_id", msg.ID).Str("author", claim.Name).Int("recipient_count", len(msg.Recipients)).Msg("message created")
	c.JSON(http.StatusCreated, messageToProto(msg))
}

// ReplaceMessage overwrites the message at id, creating it if needed.
// PUT /api/messages/:id
func (h *MessageHandlers) ReplaceMessage(c *gin.Context) {
	claim, ok := h.claim(c)
	if !ok {
		return
	}
	id, ok := h.messageID(c)
	if !ok {
		return
	}

	var req proto.MessageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid replace message request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.service.Replace(c.Request.Context(), claim, id, draftFromProto(req)); err != nil {
		h.fail(c, "replace", err)
		return
	}

	h.metrics.observe("replace", "ok")
	h.log.Info().Int64("message_id", id).Str("role", string(claim.Role)).Str("name", claim.Name).Msg("message replaced")
	c.Status(http.StatusOK)
}

// AcknowledgeMessage marks the caller's recipient entries as confirmed.
// POST /api/messages/:id/acknowledge
func (h *MessageHandlers) AcknowledgeMessage(c *gin.Context) {
	claim, ok := h.claim(c)
	if !ok {
		return
	}
	id, ok := h.messageID(c)
	if !ok {
		return
	}

	msg, err := h.service.Acknowledge(c.Request.Context(), claim, id)
	if notebook.IsHidden(err) {
		h.metrics.observe("acknowledge", "hidden")
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		h.fail(c, "acknowledge", err)
		return
	}

	h.metrics.observe("acknowledge", "ok")
	h.log.Info().Int64("message_id", id).Str("name", claim.Name).Msg("message acknowledged")
	c.JSON(http.StatusOK, messageToProto(msg))
}

func (h *MessageHandlers) claim(c *gin.Context) (auth.Claim, bool) {
	claim, ok := claimFrom(c)
	if !ok {
		h.log.Error().Msg("claim not found in context")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid identity headers"})
	}
	return claim, ok
}

func (h *MessageHandlers) messageID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.log.Debug().Err(err).Str("id", c.Param("id")).Msg("invalid message id")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid message id"})
		return 0, false
	}
	return id, true
}

// fail maps service errors onto responses. Claim problems and ids the
// sequence cannot hold are 400; anything else is an internal error.
func (h *MessageHandlers) fail(c *gin.Context, op string, err error) {
	if errors.Is(err, store.ErrIDOutOfRange) {
		h.metrics.observe(op, "rejected")
		h.log.Debug().Err(err).Str("op", op).Msg("message id out of range")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid message id"})
		return
	}
	if notebook.IsRejected(err) {
		h.metrics.observe(op, "rejected")
		h.log.Debug().Err(err).Str("op", op).Msg("request rejected")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.metrics.observe(op, "error")
	h.log.Error().Err(err).Str("op", op).Msg("notebook operation failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
