package handler

import (
	"net/http"
	"strconv"

	"staffchat/internal/middleware"
	"staffchat/internal/model"
	"staffchat/internal/service"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	convs *service.ConversationStore
}

func NewConversationHandler(convs *service.ConversationStore) *ConversationHandler {
	return &ConversationHandler{convs: convs}
}

// POST /conversations
func (h *ConversationHandler) Create(c *gin.Context) {
	uid := middleware.ResolveUser(c)
	cid, err := h.convs.Create(uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, model.CreateConversationResponse{ID: cid})
}

// GET /conversations
func (h *ConversationHandler) List(c *gin.Context) {
	uid := middleware.ResolveUser(c)
	limit := intQuery(c, "limit", 50)
	if limit < 1 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "limit must be >= 1"})
		return
	}
	out, err := h.convs.List(uid, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /conversations/:id
func (h *ConversationHandler) Get(c *gin.Context) {
	uid := middleware.ResolveUser(c)
	sum, err := h.convs.Get(uid, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// DELETE /conversations/:id
func (h *ConversationHandler) Delete(c *gin.Context) {
	uid := middleware.ResolveUser(c)
	if err := h.convs.Delete(uid, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /conversations/:id/messages
func (h *ConversationHandler) AppendMessage(c *gin.Context) {
	var req model.MessageIn
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "role and non-empty content required"})
		return
	}
	uid := middleware.ResolveUser(c)
	msg, err := h.convs.Append(uid, c.Param("id"), req.Role, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// GET /conversations/:id/messages
func (h *ConversationHandler) Messages(c *gin.Context) {
	uid := middleware.ResolveUser(c)
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	if limit < 1 || offset < 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "limit must be >= 1 and offset >= 0"})
		return
	}
	msgs, err := h.convs.Messages(uid, c.Param("id"), limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
