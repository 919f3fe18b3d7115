package controllers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/educateagirl/storefront-api/api/responses"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"github.com/educateagirl/storefront-api/pkg/logger"
	"github.com/educateagirl/storefront-api/pkg/metrics"
	"github.com/educateagirl/storefront-api/pkg/storage"
)

const (
	uploadField        = "image"
	multipartMemory    = 8 << 20
	multipartOverhead  = 1 << 20
	defaultUploadLimit = 10 << 20
)

var allowedUploadTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// UploadParams wires the media sink into the upload handler.
type UploadParams struct {
	Sink     storage.Sink
	Provider string
	Folder   string
	MaxBytes int64
	Metrics  *metrics.HTTPMetrics
	Now      func() time.Time
}

// Upload forwards a single multipart image to the media sink and returns the
// sink's URL untouched.
func Upload(params UploadParams, logg *logger.Logger) http.HandlerFunc {
	maxBytes := params.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultUploadLimit
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if params.Sink == nil {
			writeUnavailable(ctx, logg, w, "upload")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodePayloadTooLarge, err, "file too large"))
				return
			}
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "No file uploaded"))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, header, err := r.FormFile(uploadField)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "No file uploaded"))
			return
		}
		defer file.Close()

		if header.Size > maxBytes {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodePayloadTooLarge, "file too large"))
			return
		}

		mtype, err := mimetype.DetectReader(file)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable upload"))
			return
		}
		if _, ok := allowedUploadTypes[mtype.String()]; !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unsupported file type").
				WithDetails(map[string]any{"content_type": mtype.String()}))
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rewind upload"))
			return
		}

		object := storage.ObjectKey(params.Folder, mtype.Extension(), now())
		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{
				"object":       object,
				"content_type": mtype.String(),
				"size":         header.Size,
				"provider":     params.Provider,
			})
		}

		url, err := params.Sink.Upload(ctx, object, mtype.String(), file, header.Size)
		if err != nil {
			params.Metrics.IncUpload(params.Provider, "error")
			if pkgerrors.As(err) == nil {
				err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload failed")
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}
		params.Metrics.IncUpload(params.Provider, "ok")
		if logg != nil {
			logg.Info(ctx, "upload.stored")
		}

		responses.WriteSuccess(w, map[string]string{"url": url})
	}
}
