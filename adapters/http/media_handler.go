package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mediaUC "github.com/khoahotran/vidshelf/internal/application/usecase/media"
	"github.com/khoahotran/vidshelf/pkg/apperror"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

type MediaHandler struct {
	uploadAssetUC *mediaUC.UploadAssetUseCase
	logger        logger.Logger
}

func NewMediaHandler(uploadUC *mediaUC.UploadAssetUseCase, log logger.Logger) *MediaHandler {
	return &MediaHandler{uploadAssetUC: uploadUC, logger: log}
}

// UploadAsset takes a multipart form with "file" and "kind".
func (h *MediaHandler) UploadAsset(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewValidation(map[string][]string{"file": {"is required"}}))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	output, err := h.uploadAssetUC.Execute(c.Request.Context(), mediaUC.UploadAssetInput{
		Slug: c.Param("slug"),
		Kind: mediaUC.AssetKind(c.PostForm("kind")),
		File: file,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": output.URL})
}
