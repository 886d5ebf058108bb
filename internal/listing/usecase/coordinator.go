package usecase

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"go.uber.org/zap"
)

type assetUploader interface {
	Upload(ctx context.Context, index int, image domain.Image, ownerID string, onProgress domain.ProgressFunc) domain.UploadResult
}

// OrphanFunc receives the keys of objects that were stored by a run which failed as
// a whole. It is called once, after every upload of that run has settled.
type OrphanFunc func(keys []string)

// UploadCoordinator fans image uploads out concurrently and joins them all-or-nothing.
type UploadCoordinator struct {
	uploader  assetUploader
	logger    *logger.Logger
	onOrphans OrphanFunc
}

func NewUploadCoordinator(uploader assetUploader, log *logger.Logger, onOrphans OrphanFunc) *UploadCoordinator {
	return &UploadCoordinator{
		uploader:  uploader,
		logger:    log.Named("UploadCoordinator"),
		onOrphans: onOrphans,
	}
}

// UploadAll uploads every image concurrently and returns their URLs in input order.
//
// The first failure is returned immediately as the aggregate result. Uploads still in
// flight are not cancelled: they run to completion on a context detached from ctx's
// cancellation, and their results are discarded apart from orphan reporting.
func (c *UploadCoordinator) UploadAll(ctx context.Context, ownerID string, images []domain.Image, onProgress domain.ProgressFunc) ([]string, error) {
	if len(images) == 0 {
		return []string{}, nil
	}

	uploadCtx := context.WithoutCancel(ctx)
	results := make(chan domain.UploadResult, len(images))
	for i, img := range images {
		go func(i int, img domain.Image) {
			results <- c.uploader.Upload(uploadCtx, i, img, ownerID, onProgress)
		}(i, img)
	}

	urls := make([]string, len(images))
	var stored []string
	for settled := 1; settled <= len(images); settled++ {
		res := <-results
		if res.Err != nil {
			c.logger.Warn("Upload run failed, abandoning remaining results",
				zap.Int("failed_index", res.Index),
				zap.Int("settled", settled),
				zap.Int("total", len(images)),
				zap.Error(res.Err))
			go c.collectOrphans(results, len(images)-settled, stored)
			return nil, res.Err
		}
		urls[res.Index] = res.URL
		stored = append(stored, res.Key)
	}
	return urls, nil
}

// collectOrphans waits for the remaining uploads of an abandoned run.
func (c *UploadCoordinator) collectOrphans(results <-chan domain.UploadResult, pending int, stored []string) {
	for ; pending > 0; pending-- {
		if res := <-results; res.Err == nil {
			stored = append(stored, res.Key)
		}
	}
	if len(stored) == 0 || c.onOrphans == nil {
		return
	}
	c.onOrphans(stored)
}
