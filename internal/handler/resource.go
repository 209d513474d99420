package handler

import (
	"net/http"

	"staffchat/internal/middleware"
	"staffchat/internal/model"
	"staffchat/internal/service"

	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	svc *service.ResourceService
}

func NewResourceHandler(svc *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{svc: svc}
}

// requireConversation reads the mandatory conversation_id query parameter.
func requireConversation(c *gin.Context) (string, bool) {
	cid := c.Query("conversation_id")
	if cid == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "conversation_id is required"})
		return "", false
	}
	return cid, true
}

// POST /data/resources
func (h *ResourceHandler) Create(c *gin.Context) {
	cid, ok := requireConversation(c)
	if !ok {
		return
	}
	var in model.ResourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := h.svc.Create(c.Request.Context(), &in, cid, middleware.ResolveUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r.Out())
}

// GET /data/resources/:id
func (h *ResourceHandler) Get(c *gin.Context) {
	cid, ok := requireConversation(c)
	if !ok {
		return
	}
	r, err := h.svc.Get(c.Request.Context(), c.Param("id"), cid, middleware.ResolveUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r.Out())
}

// PATCH /data/resources/:id
func (h *ResourceHandler) Update(c *gin.Context) {
	cid, ok := requireConversation(c)
	if !ok {
		return
	}
	var in model.ResourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := h.svc.Update(c.Request.Context(), c.Param("id"), &in, cid, middleware.ResolveUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r.Out())
}

// DELETE /data/resources/:id
func (h *ResourceHandler) Delete(c *gin.Context) {
	cid, ok := requireConversation(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), cid, middleware.ResolveUser(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
