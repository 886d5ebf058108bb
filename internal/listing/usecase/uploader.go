package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const imagesPrefix = "images/"

// AssetUploader uploads a single image under an owner-scoped unique key.
type AssetUploader struct {
	storage   domain.BlobStorage
	logger    *logger.Logger
	metrics   *metrics.MetricsManager
	newSuffix func() string
}

func NewAssetUploader(storage domain.BlobStorage, log *logger.Logger, m *metrics.MetricsManager) *AssetUploader {
	return &AssetUploader{
		storage:   storage,
		logger:    log.Named("AssetUploader"),
		metrics:   m,
		newSuffix: func() string { return uuid.New().String() },
	}
}

// DestinationKey builds images/{owner}-{file}-{suffix}. The random suffix keeps keys
// distinct across concurrent submissions by the same or different owners.
func DestinationKey(ownerID, fileName, suffix string) string {
	return fmt.Sprintf("%s%s-%s-%s", imagesPrefix, sanitizeKeyPart(ownerID), sanitizeKeyPart(path.Base(fileName)), suffix)
}

func sanitizeKeyPart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == "/" {
		return "image"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r < 0x20:
			return '_'
		case r == ' ':
			return '-'
		}
		return r
	}, s)
}

// Upload stores image and returns its URL in the result. A failed upload carries
// ErrUploadFailed wrapping the transport cause.
func (u *AssetUploader) Upload(ctx context.Context, index int, image domain.Image, ownerID string, onProgress domain.ProgressFunc) domain.UploadResult {
	key := DestinationKey(ownerID, image.Name, u.newSuffix())

	ctx, span := tracer.Start(ctx, "AssetUploader.Upload", oteltrace.WithAttributes(
		attribute.Int("image_index", index),
		attribute.String("object_key", key),
		attribute.Int64("size_bytes", image.Size()),
	))
	defer span.End()

	u.logger.Debug("Uploading image", zap.Int("index", index), zap.String("key", key), zap.Int64("size_bytes", image.Size()))

	url, err := u.storage.Put(ctx, key, image, func(p domain.Progress) {
		p.Index = index
		p.Key = key
		u.logger.Debug("Upload progress",
			zap.Int("index", index),
			zap.String("state", string(p.State)),
			zap.Float64("percent", p.Percent()))
		if onProgress != nil {
			onProgress(p)
		}
	})
	u.metrics.ObserveUpload(err, image.Size())
	if err != nil {
		span.RecordError(err)
		u.logger.Warn("Image upload failed", zap.Int("index", index), zap.String("key", key), zap.Error(err))
		return domain.UploadResult{Index: index, Key: key, Err: fmt.Errorf("%w: image %d (%s): %w", domain.ErrUploadFailed, index, image.Name, err)}
	}

	u.logger.Debug("Image uploaded", zap.Int("index", index), zap.String("url", url))
	return domain.UploadResult{Index: index, Key: key, URL: url}
}
