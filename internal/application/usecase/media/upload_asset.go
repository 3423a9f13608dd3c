package media

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/vidshelf/internal/application/service"
	"github.com/khoahotran/vidshelf/internal/application/usecase/access"
	"github.com/khoahotran/vidshelf/pkg/apperror"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

type AssetKind string

const (
	AssetThumbnail AssetKind = "thumbnail"
	AssetPreview   AssetKind = "preview"
	AssetFull      AssetKind = "full"
)

func (k AssetKind) Valid() bool {
	switch k {
	case AssetThumbnail, AssetPreview, AssetFull:
		return true
	default:
		return false
	}
}

type UploadAssetUseCase struct {
	resolver *access.Resolver
	uploader service.Uploader
	logger   logger.Logger
}

func NewUploadAssetUseCase(resolver *access.Resolver, uploader service.Uploader, log logger.Logger) *UploadAssetUseCase {
	return &UploadAssetUseCase{resolver: resolver, uploader: uploader, logger: log}
}

type UploadAssetInput struct {
	Slug string
	Kind AssetKind
	File io.Reader
}

type UploadAssetOutput struct {
	URL string
}

// Execute stores a file for a channel manager and returns its URL, which can
// then be used as thumbnail_url, preview_url or full_url of a video.
func (uc *UploadAssetUseCase) Execute(ctx context.Context, input UploadAssetInput) (*UploadAssetOutput, error) {
	if !input.Kind.Valid() {
		return nil, apperror.NewValidation(map[string][]string{"kind": {"must be one of thumbnail, preview, full"}})
	}
	if input.File == nil {
		return nil, apperror.NewValidation(map[string][]string{"file": {"is required"}})
	}

	acc, err := uc.resolver.Resolve(ctx, input.Slug, access.Managers)
	if err != nil {
		return nil, err
	}

	folder := fmt.Sprintf("channels/%s/%s", acc.Channel.ID, input.Kind)
	publicID := uuid.New().String()

	url, err := uc.uploader.Upload(ctx, input.File, folder, publicID)
	if err != nil {
		return nil, apperror.NewInternal("failed to upload asset", err)
	}

	uc.logger.Info("Asset uploaded",
		zap.String("channel_id", acc.Channel.ID.String()),
		zap.String("kind", string(input.Kind)),
		zap.String("public_id", publicID))
	return &UploadAssetOutput{URL: url}, nil
}
