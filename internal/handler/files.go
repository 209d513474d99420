package handler

import (
	"net/http"

	"staffchat/internal/middleware"
	"staffchat/internal/service"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	files *service.FileStore
	convs *service.ConversationStore
}

func NewFileHandler(files *service.FileStore, convs *service.ConversationStore) *FileHandler {
	return &FileHandler{files: files, convs: convs}
}

// POST /conversations/:id/files
func (h *FileHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	uid := middleware.ResolveUser(c)
	cid := c.Param("id")
	if _, err := h.convs.Get(uid, cid); err != nil {
		fail(c, err)
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read upload failed"})
		return
	}
	defer src.Close()

	name, err := h.files.Save(uid, cid, file.Filename, src)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "name": name})
}

// GET /conversations/:id/files
func (h *FileHandler) List(c *gin.Context) {
	uid := middleware.ResolveUser(c)
	names, err := h.files.List(uid, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": names})
}

// GET /conversations/:id/files/:name
func (h *FileHandler) Download(c *gin.Context) {
	uid := middleware.ResolveUser(c)
	path, err := h.files.Path(uid, c.Param("id"), c.Param("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.FileAttachment(path, c.Param("name"))
}
