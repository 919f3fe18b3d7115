package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/educateagirl/storefront-api/pkg/config"
	"github.com/educateagirl/storefront-api/pkg/logger"
)

// DefaultEndpoint serves both the JSON API and public object URLs.
const DefaultEndpoint = "https://storage.googleapis.com"

const pingTimeout = 5 * time.Second

var errNoClient = errors.New("gcs client not initialized")

// Client uploads media objects through the Cloud Storage JSON API.
type Client struct {
	http       *http.Client
	endpoint   string
	bucket     string
	publicBase string
	tokens     *tokenSource
}

// NewClient resolves credentials and verifies the bucket is listable before
// returning. publicBase replaces the storage.googleapis.com/<bucket> prefix
// of returned URLs when set.
func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, publicBase string, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BucketName) == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	tokens, err := resolveTokenSource(httpClient, gcp)
	if err != nil {
		return nil, err
	}

	c := &Client{
		http:       httpClient,
		endpoint:   DefaultEndpoint,
		bucket:     cfg.BucketName,
		publicBase: strings.TrimRight(publicBase, "/"),
		tokens:     tokens,
	}
	if err := c.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", c.bucket), "storage.gcs.ready")
	}
	return c, nil
}

func (c *Client) Bucket() string {
	if c == nil {
		return ""
	}
	return c.bucket
}

// Ping lists at most one object, which needs storage.objects.list.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.tokens == nil {
		return errNoClient
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/storage/v1/b/%s/o?maxResults=1", c.endpoint, url.PathEscape(c.bucket))
	resp, err := c.do(ctx, http.MethodGet, u, nil, func(req *http.Request) {
		req.Header.Set("Accept", "application/json")
	})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs bucket check failed", resp)
	}
	return nil
}

// Upload streams r into object with a single uploadType=media request and
// returns the object's public URL.
func (c *Client) Upload(ctx context.Context, object, contentType string, r io.Reader, size int64) (string, error) {
	if c == nil || c.tokens == nil {
		return "", errNoClient
	}
	if object == "" {
		return "", errors.New("object name is required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	q := url.Values{"uploadType": {"media"}, "name": {object}}
	u := fmt.Sprintf("%s/upload/storage/v1/b/%s/o?%s", c.endpoint, url.PathEscape(c.bucket), q.Encode())
	resp, err := c.do(ctx, http.MethodPost, u, r, func(req *http.Request) {
		req.Header.Set("Content-Type", contentType)
		if size >= 0 {
			req.ContentLength = size
		}
	})
	if err != nil {
		return "", fmt.Errorf("gcs upload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", statusError("gcs upload failed", resp)
	}
	return c.PublicURL(object), nil
}

// PublicURL is the browser-facing URL for object.
func (c *Client) PublicURL(object string) string {
	if c.publicBase != "" {
		return c.publicBase + "/" + object
	}
	return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucket, object)
}

func (c *Client) do(ctx context.Context, method, u string, body io.Reader, prepare func(*http.Request)) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs token: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if prepare != nil {
		prepare(req)
	}
	return c.http.Do(req)
}

func statusError(prefix string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if msg := strings.TrimSpace(string(b)); msg != "" {
		return fmt.Errorf("%s: %s: %s", prefix, resp.Status, msg)
	}
	return fmt.Errorf("%s: %s", prefix, resp.Status)
}
