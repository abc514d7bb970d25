package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/http/handlers/common"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/service"
)

// MediaHandler trata upload e download de arquivos de mídia.
type MediaHandler struct {
	media    *service.MediaService
	rootPath string
}

func NewMediaHandler(media *service.MediaService, rootPath string) *MediaHandler {
	return &MediaHandler{media: media, rootPath: rootPath}
}

// UploadPhoto trata POST /api/media/photos (multipart, campo file).
func (h *MediaHandler) UploadPhoto(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campo file é obrigatório"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "não foi possível ler o arquivo"})
		return
	}
	defer file.Close()

	media, err := h.media.UploadPhoto(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, media)
}

// Download trata GET /api/media/:id.
func (h *MediaHandler) Download(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	media, err := h.media.GetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.File(filepath.Join(h.rootPath, media.FilePath))
}
