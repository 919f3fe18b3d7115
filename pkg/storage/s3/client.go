// Package s3 uploads media to any S3-compatible object store.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/educateagirl/storefront-api/pkg/config"
	"github.com/educateagirl/storefront-api/pkg/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const pingTimeout = 5 * time.Second

type Client struct {
	minio         *minio.Client
	bucket        string
	publicBaseURL string
}

// NewClient connects to the endpoint and checks the bucket exists. The
// endpoint may carry an http:// or https:// scheme, which overrides UseSSL.
func NewClient(ctx context.Context, cfg config.S3Config, publicBaseURL string, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("s3 endpoint is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3 bucket is required")
	}

	host, secure := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	mc, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	if publicBaseURL == "" {
		scheme := "https"
		if !secure {
			scheme = "http"
		}
		publicBaseURL = fmt.Sprintf("%s://%s/%s", scheme, host, cfg.Bucket)
	}

	client := &Client{
		minio:         mc,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("s3 health check failed: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.Bucket), "s3 client initialized")
	}
	return client, nil
}

func splitEndpoint(endpoint string, useSSL bool) (string, bool) {
	endpoint = strings.TrimSpace(endpoint)
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https") {
		return u.Host, u.Scheme == "https"
	}
	return strings.TrimRight(endpoint, "/"), useSSL
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	exists, err := c.minio.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", c.bucket)
	}
	return nil
}

// Upload stores r under object and returns its public URL.
func (c *Client) Upload(ctx context.Context, object, contentType string, r io.Reader, size int64) (string, error) {
	if object == "" {
		return "", errors.New("object name is required")
	}
	if _, err := c.minio.PutObject(ctx, c.bucket, object, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return c.PublicURL(object), nil
}

func (c *Client) PublicURL(object string) string {
	return c.publicBaseURL + "/" + object
}
