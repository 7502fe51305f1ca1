package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 500
)

type ContactHandler struct {
	svc ContactService
}

func NewContactHandler(svc ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// Submit stores a contact-form message. A storage failure is reported as 500
// so the form shows its error state.
func (h *ContactHandler) Submit(c *gin.Context) {
	var in models.ContactMessageCreate
	if !bindJSON(c, &in, in.Validate) {
		return
	}
	msg, err := h.svc.CreateMessage(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, "Failed to send message")
		return
	}
	c.JSON(http.StatusOK, models.ContactResponse{
		Success:     true,
		Message:     "Message sent successfully",
		ReferenceID: msg.ReferenceID,
	})
}

// List returns stored messages newest first.
func (h *ContactHandler) List(c *gin.Context) {
	limit, okLimit := intQuery(c, "limit", defaultMessageLimit)
	skip, okSkip := intQuery(c, "skip", 0)
	if !okLimit || !okSkip || limit < 1 || skip < 0 {
		fail(c, http.StatusBadRequest, "limit must be a positive integer and skip a non-negative integer")
		return
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}
	msgs, err := h.svc.ListMessages(c.Request.Context(), limit, skip)
	if err != nil {
		respondError(c, err, "")
		return
	}
	ok(c, msgs)
}

const msgMessageNotFound = "Message not found or already read"

func (h *ContactHandler) MarkRead(c *gin.Context) {
	modified, err := h.svc.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	// a message that is already read leaves nothing to modify
	if !modified {
		fail(c, http.StatusNotFound, msgMessageNotFound)
		return
	}
	okMessage(c, "Message marked as read", nil)
}

// intQuery parses an integer query parameter, returning def when absent.
func intQuery(c *gin.Context, key string, def int) (int, bool) {
	raw, present := c.GetQuery(key)
	if !present || raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
