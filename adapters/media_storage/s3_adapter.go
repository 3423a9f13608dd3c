package media_storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/khoahotran/vidshelf/internal/application/service"
	"github.com/khoahotran/vidshelf/internal/config"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

type s3Adapter struct {
	client  s3iface.S3API
	bucket  string
	baseURL string
}

func NewS3Adapter(cfg config.Config, log logger.Logger) (service.Uploader, error) {
	if cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket has not config")
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.S3.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			"",
		),
	}
	// MinIO and other S3-compatible stores
	if cfg.S3.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.S3.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	log.Info("Connect S3 successfully.")
	return newS3Adapter(s3.New(sess), cfg), nil
}

func newS3Adapter(client s3iface.S3API, cfg config.Config) *s3Adapter {
	base := cfg.S3.PublicBaseURL
	if base == "" {
		region := cfg.S3.Region
		if region == "" {
			region = "us-east-1"
		}
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3.Bucket, region)
		if cfg.S3.Endpoint != "" {
			base = strings.TrimRight(cfg.S3.Endpoint, "/") + "/" + cfg.S3.Bucket
		}
	}
	return &s3Adapter{
		client:  client,
		bucket:  cfg.S3.Bucket,
		baseURL: strings.TrimRight(base, "/"),
	}
}

func (a *s3Adapter) Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error) {
	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	body := buf.Bytes()
	key := path.Join(folder, publicID)

	_, err := a.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(http.DetectContentType(body)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return a.baseURL + "/" + key, nil
}

// Delete takes the object key, i.e. folder/publicID.
func (a *s3Adapter) Delete(ctx context.Context, key string) error {
	_, err := a.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}
