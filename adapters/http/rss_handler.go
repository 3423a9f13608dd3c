package http

import (
	"github.com/gin-gonic/gin"

	catalogUC "github.com/khoahotran/vidshelf/internal/application/usecase/catalog"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

type RSSHandler struct {
	catalogUC *catalogUC.CatalogUseCase
	logger    logger.Logger
}

func NewRSSHandler(uc *catalogUC.CatalogUseCase, log logger.Logger) *RSSHandler {
	return &RSSHandler{
		catalogUC: uc,
		logger:    log,
	}
}

func (h *RSSHandler) GenerateRSS(c *gin.Context) {
	feed, err := h.catalogUC.Feed(c.Request.Context(), c.Param("slug"), requestOrigin(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")

	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write RSS feed to response", err)
	}
}

func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
