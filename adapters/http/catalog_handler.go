package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogUC "github.com/khoahotran/vidshelf/internal/application/usecase/catalog"
	"github.com/khoahotran/vidshelf/pkg/apperror"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

type CatalogHandler struct {
	catalogUC *catalogUC.CatalogUseCase
	logger    logger.Logger
}

func NewCatalogHandler(uc *catalogUC.CatalogUseCase, log logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUC: uc, logger: log}
}

func (h *CatalogHandler) GetStorefront(c *gin.Context) {
	output, err := h.catalogUC.Storefront(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, StorefrontDTO{
		Channel: ToChannelDTO(output.Channel),
		Videos:  ToVideoDTOs(output.Videos),
	})
}

func (h *CatalogHandler) GetStorefrontVideo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewNotFound("video", c.Param("id")))
		return
	}

	output, err := h.catalogUC.StorefrontVideo(c.Request.Context(), c.Param("slug"), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToStorefrontVideoDTO(output))
}
