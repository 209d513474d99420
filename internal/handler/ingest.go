package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"staffchat/internal/ingest"
	"staffchat/internal/logger"
	"staffchat/internal/middleware"

	"github.com/gin-gonic/gin"
)

type IngestHandler struct {
	ingestor *ingest.Ingestor
}

func NewIngestHandler(ingestor *ingest.Ingestor) *IngestHandler {
	return &IngestHandler{ingestor: ingestor}
}

// POST /data/resources/upload
func (h *IngestHandler) UploadResources(c *gin.Context) {
	h.upload(c, h.ingestor.IngestResources)
}

// POST /data/projects/upload
func (h *IngestHandler) UploadProjects(c *gin.Context) {
	h.upload(c, h.ingestor.IngestProjects)
}

type ingestFunc func(ctx context.Context, filename string, r io.Reader, conversationID, userID string) (*ingest.Report, error)

func (h *IngestHandler) upload(c *gin.Context, run ingestFunc) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	conversationID := c.PostForm("conversation_id")
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversation_id is required"})
		return
	}
	uid := middleware.ResolveUser(c)
	logger.Info("ingest upload", "file", file.Filename, "size", file.Size, "conversation", conversationID, "user", uid)

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read upload failed"})
		return
	}
	defer src.Close()

	report, err := run(c.Request.Context(), file.Filename, src, conversationID, uid)
	if err != nil {
		var missing *ingest.MissingColumnsError
		if errors.As(err, &missing) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":            "Missing required columns",
				"required_missing": missing.RequiredMissing,
				"columns_seen":     missing.ColumnsSeen,
				"resolved":         missing.Resolved,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
