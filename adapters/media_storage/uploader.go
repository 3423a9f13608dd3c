package media_storage

import (
	"fmt"

	"github.com/khoahotran/vidshelf/internal/application/service"
	"github.com/khoahotran/vidshelf/internal/config"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

// NewUploader picks the backend named by storage.driver.
func NewUploader(cfg config.Config, log logger.Logger) (service.Uploader, error) {
	switch cfg.Storage.Driver {
	case "", "cloudinary":
		return NewCloudinaryAdapter(cfg, log)
	case "s3":
		return NewS3Adapter(cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
