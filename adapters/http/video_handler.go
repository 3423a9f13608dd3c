package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	videoUC "github.com/khoahotran/vidshelf/internal/application/usecase/video"
	"github.com/khoahotran/vidshelf/internal/domain/video"
	"github.com/khoahotran/vidshelf/pkg/apperror"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

type VideoHandler struct {
	listUC    *videoUC.ListChannelVideosUseCase
	createUC  *videoUC.CreateVideoUseCase
	updateUC  *videoUC.UpdateVideoUseCase
	publishUC *videoUC.SetPublishedUseCase
	logger    logger.Logger
}

func NewVideoHandler(
	listUC *videoUC.ListChannelVideosUseCase,
	createUC *videoUC.CreateVideoUseCase,
	updateUC *videoUC.UpdateVideoUseCase,
	publishUC *videoUC.SetPublishedUseCase,
	log logger.Logger,
) *VideoHandler {
	return &VideoHandler{
		listUC:    listUC,
		createUC:  createUC,
		updateUC:  updateUC,
		publishUC: publishUC,
		logger:    log,
	}
}

func (h *VideoHandler) ListVideos(c *gin.Context) {
	output := h.listUC.Execute(c.Request.Context(), videoUC.ListChannelVideosInput{Slug: c.Param("slug")})
	c.JSON(http.StatusOK, ToVideoDTOs(output.Videos))
}

func (h *VideoHandler) CreateVideo(c *gin.Context) {
	var req video.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("request body is not valid JSON", err))
		return
	}

	output, err := h.createUC.Execute(c.Request.Context(), videoUC.CreateVideoInput{Slug: c.Param("slug"), Video: req})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToVideoDTO(output.Video))
}

func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewNotFound("video", c.Param("id")))
		return
	}

	var req video.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("request body is not valid JSON", err))
		return
	}

	output, err := h.updateUC.Execute(c.Request.Context(), videoUC.UpdateVideoInput{
		Slug:    c.Param("slug"),
		VideoID: id,
		Video:   req,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToVideoDTO(output.Video))
}

func (h *VideoHandler) SetPublished(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewNotFound("video", c.Param("id")))
		return
	}

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewValidation(map[string][]string{"is_published": {"is required"}}))
		return
	}

	output, err := h.publishUC.Execute(c.Request.Context(), videoUC.SetPublishedInput{
		Slug:        c.Param("slug"),
		VideoID:     id,
		IsPublished: *req.IsPublished,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"video":   ToVideoDTO(output.Video),
		"changed": output.Changed,
	})
}
