package handler

import (
	"net/http"

	"staffchat/internal/middleware"
	"staffchat/internal/model"
	"staffchat/internal/service"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// POST /data/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	cid, ok := requireConversation(c)
	if !ok {
		return
	}
	var in model.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p, err := h.svc.Create(c.Request.Context(), &in, cid, middleware.ResolveUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p.Out())
}

// GET /data/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	cid, ok := requireConversation(c)
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"), cid, middleware.ResolveUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p.Out())
}

// PATCH /data/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	cid, ok := requireConversation(c)
	if !ok {
		return
	}
	var in model.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), &in, cid, middleware.ResolveUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p.Out())
}

// DELETE /data/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
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
