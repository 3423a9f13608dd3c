package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	channelUC "github.com/khoahotran/vidshelf/internal/application/usecase/channel"
	"github.com/khoahotran/vidshelf/internal/domain/channel"
	"github.com/khoahotran/vidshelf/pkg/apperror"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

type ChannelHandler struct {
	createChannelUC *channelUC.CreateChannelUseCase
	myChannelsUC    *channelUC.MyChannelsUseCase
	logger          logger.Logger
}

func NewChannelHandler(createUC *channelUC.CreateChannelUseCase, myUC *channelUC.MyChannelsUseCase, log logger.Logger) *ChannelHandler {
	return &ChannelHandler{createChannelUC: createUC, myChannelsUC: myUC, logger: log}
}

func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	var req channel.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("request body is not valid JSON", err))
		return
	}

	output, err := h.createChannelUC.Execute(c.Request.Context(), channelUC.CreateChannelInput{Channel: req})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"channel_id": output.ChannelID,
		"slug":       output.Slug,
	})
}

func (h *ChannelHandler) ListMyChannels(c *gin.Context) {
	rows := h.myChannelsUC.ListMine(c.Request.Context())

	dtos := make([]MemberChannelDTO, len(rows))
	for i, r := range rows {
		dtos[i] = MemberChannelDTO{ChannelDTO: ToChannelDTO(r.Channel), Role: string(r.Role)}
	}
	c.JSON(http.StatusOK, dtos)
}

func (h *ChannelHandler) GetMyRole(c *gin.Context) {
	var resp RoleResponse
	if role := h.myChannelsUC.MyRole(c.Request.Context(), c.Param("slug")); role != nil {
		r := string(*role)
		resp.Role = &r
	}
	c.JSON(http.StatusOK, resp)
}
