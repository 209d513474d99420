package handler

import (
	"net/http"

	"staffchat/internal/logger"
	"staffchat/internal/middleware"
	"staffchat/internal/model"
	"staffchat/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	convs   *service.ConversationStore
	webhook *service.ChatWebhook
}

func NewChatHandler(convs *service.ConversationStore, webhook *service.ChatWebhook) *ChatHandler {
	return &ChatHandler{convs: convs, webhook: webhook}
}

// POST /chat — append the question, ask the external assistant, append
// whatever comes back. Webhook trouble degrades to a placeholder answer;
// the request itself still succeeds.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversation_id and question required"})
		return
	}

	uid := middleware.ResolveUser(c)
	if _, err := h.convs.Append(uid, req.ConversationID, "user", req.Question); err != nil {
		fail(c, err)
		return
	}

	answer := h.webhook.Ask(c.Request.Context(), uid, req.ConversationID, req.Question)

	if _, err := h.convs.Append(uid, req.ConversationID, "assistant", answer); err != nil {
		logger.Error("chat: append assistant reply", "conversation", req.ConversationID, "err", err)
	}
	c.JSON(http.StatusOK, model.ChatResponse{Answer: answer})
}
