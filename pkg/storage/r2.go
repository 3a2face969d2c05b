package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// R2Config holds connection settings for an S3-compatible object store
// (Cloudflare R2 in production, any S3 endpoint in dev).
type R2Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string // public URL prefix for uploaded objects
}

// R2 persists remote assets to object storage and hands back public URLs.
type R2 struct {
	uploader *manager.Uploader
	http     *http.Client
	cfg      R2Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewR2 creates an object-storage client against the configured endpoint.
func NewR2(ctx context.Context, cfg R2Config, logger *zap.Logger) (*R2, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
	})
	logger.Info("object storage client ready", zap.String("bucket", cfg.Bucket))
	return &R2{
		uploader: uploader,
		http:     &http.Client{Timeout: 20 * time.Second},
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// ObjectKey builds the bucket key for an asset: uploads/{year}/{month}/{name}{ext}.
// The extension is taken from the source URL path, defaulting to .jpg.
func (r *R2) ObjectKey(srcURL, name string) string {
	ext := path.Ext(strings.SplitN(srcURL, "?", 2)[0])
	if ext == "" || len(ext) > 5 {
		ext = ".jpg"
	}
	t := r.now()
	return fmt.Sprintf("uploads/%d/%d/%s%s", t.Year(), int(t.Month()), name, ext)
}

// UploadFromURL downloads a binary resource and stores it under the
// asset key for name, returning the public URL. The whole operation runs
// under the caller's context; there are no retries.
func (r *R2) UploadFromURL(ctx context.Context, srcURL, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return "", fmt.Errorf("build asset request: %w", err)
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch asset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch asset: unexpected status %d", resp.StatusCode)
	}

	key := r.ObjectKey(srcURL, name)
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = r.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.cfg.Bucket),
		Key:         aws.String(key),
		Body:        io.Reader(resp.Body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload asset: %w", err)
	}

	url := strings.TrimRight(r.cfg.PublicBaseURL, "/") + "/" + key
	r.logger.Debug("asset uploaded", zap.String("key", key))
	return url, nil
}
