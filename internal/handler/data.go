package handler

import (
	"net/http"

	"staffchat/internal/middleware"
	"staffchat/internal/model"
	"staffchat/internal/service"

	"github.com/gin-gonic/gin"
)

// DataHandler serves the compact dataset and DB status endpoints.
type DataHandler struct {
	resources    *service.ResourceService
	projects     *service.ProjectService
	defaultLimit int
	maxLimit     int
}

func NewDataHandler(resources *service.ResourceService, projects *service.ProjectService, defaultLimit, maxLimit int) *DataHandler {
	return &DataHandler{resources: resources, projects: projects, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// GET /data/dataset
func (h *DataHandler) Dataset(c *gin.Context) {
	conversationID := c.Query("conversation_id")
	if conversationID == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "conversation_id is required"})
		return
	}
	limit := intQuery(c, "limit", h.defaultLimit)
	if limit < 1 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "limit must be >= 1"})
		return
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	uid := middleware.ResolveUser(c)
	ctx := c.Request.Context()

	resources, err := h.resources.ListByConversation(ctx, conversationID, uid, limit)
	if err != nil {
		fail(c, err)
		return
	}
	projects, err := h.projects.ListByConversation(ctx, conversationID, uid, limit)
	if err != nil {
		fail(c, err)
		return
	}

	out := model.Dataset{
		Resources: make([]model.ResourceCompact, 0, len(resources)),
		Projects:  make([]model.ProjectOut, 0, len(projects)),
	}
	for i := range resources {
		out.Resources = append(out.Resources, resources[i].Compact())
	}
	for i := range projects {
		out.Projects = append(out.Projects, projects[i].Out())
	}
	c.JSON(http.StatusOK, out)
}

// GET /data/debug/status
func (h *DataHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()
	resCount, err := h.resources.Count(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	projCount, err := h.projects.Count(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources_count": resCount, "projects_count": projCount})
}
