package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Channel *ChannelHandler
	Video   *VideoHandler
	Media   *MediaHandler
	Catalog *CatalogHandler
	RSS     *RSSHandler
}

type Middlewares struct {
	Auth  gin.HandlerFunc
	Error gin.HandlerFunc
	// RateLimit is optional.
	RateLimit gin.HandlerFunc
}

func NewRouter(h Handlers, mw Middlewares) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), mw.Error)

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	channels := api.Group("/channels")
	channels.Use(mw.Auth)
	if mw.RateLimit != nil {
		channels.Use(mw.RateLimit)
	}
	{
		channels.POST("", h.Channel.CreateChannel)
		channels.GET("", h.Channel.ListMyChannels)
		channels.GET("/:slug/role", h.Channel.GetMyRole)
		channels.GET("/:slug/videos", h.Video.ListVideos)
		channels.POST("/:slug/videos", h.Video.CreateVideo)
		channels.PUT("/:slug/videos/:id", h.Video.UpdateVideo)
		channels.PUT("/:slug/videos/:id/publish", h.Video.SetPublished)
		channels.POST("/:slug/assets", h.Media.UploadAsset)
	}

	public := api.Group("/public")
	if mw.RateLimit != nil {
		public.Use(mw.RateLimit)
	}
	{
		public.GET("/:slug", h.Catalog.GetStorefront)
		public.GET("/:slug/videos/:id", h.Catalog.GetStorefrontVideo)
		public.GET("/:slug/rss", h.RSS.GenerateRSS)
	}

	return router
}
