// Package storage forwards uploaded media to the configured object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/educateagirl/storefront-api/pkg/config"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"github.com/educateagirl/storefront-api/pkg/logger"
	"github.com/educateagirl/storefront-api/pkg/storage/gcs"
	"github.com/educateagirl/storefront-api/pkg/storage/s3"
	"github.com/google/uuid"
)

// Sink stores one object and returns a stable public URL for it.
type Sink interface {
	Upload(ctx context.Context, object, contentType string, r io.Reader, size int64) (string, error)
}

var (
	_ Sink = (*gcs.Client)(nil)
	_ Sink = (*s3.Client)(nil)
	_ Sink = disabledSink{}
)

// New builds the sink selected by cfg.Media.Provider.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Media.Provider)) {
	case config.MediaProviderGCS:
		client, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, cfg.Media.PublicBaseURL, logg)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.MediaProviderS3:
		client, err := s3.NewClient(ctx, cfg.S3, cfg.Media.PublicBaseURL, logg)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.MediaProviderNone:
		return disabledSink{}, nil
	default:
		return nil, fmt.Errorf("unknown media provider %q", cfg.Media.Provider)
	}
}

// Disabled returns a sink that rejects every upload.
func Disabled() Sink {
	return disabledSink{}
}

type disabledSink struct{}

func (disabledSink) Upload(context.Context, string, string, io.Reader, int64) (string, error) {
	return "", pkgerrors.New(pkgerrors.CodeDependency, "media uploads are not configured")
}

// ObjectKey names an upload as <folder>/<unix-nano>-<uuid><ext>.
func ObjectKey(folder, ext string, now time.Time) string {
	name := strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString() + ext
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}
