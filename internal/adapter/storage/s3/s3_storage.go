package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// S3Storage stores listing images in a MinIO/S3 bucket.
type S3Storage struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	logger        *logger.Logger
}

// NewS3Storage connects to endpoint and makes sure bucket exists. When publicBaseURL
// is empty, object URLs are built from the client endpoint.
func NewS3Storage(endpoint, accessKey, secretKey, bucket string, useSSL bool, publicBaseURL string, log *logger.Logger) (*S3Storage, error) {
	log = log.Named("S3Storage")
	log.Info("Initializing S3 storage", zap.String("endpoint", endpoint), zap.String("bucket", bucket), zap.Bool("use_ssl", useSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	ctx := context.Background()
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(ctx, bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucket, err, existsErr)
		}
		log.Info("Bucket already exists", zap.String("bucket", bucket))
	} else {
		log.Info("Bucket created", zap.String("bucket", bucket))
	}

	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("%s/%s", client.EndpointURL().String(), bucket)
	}
	return &S3Storage{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        log,
	}, nil
}

// Put uploads image under key and returns its public URL. onProgress may be nil.
func (s *S3Storage) Put(ctx context.Context, key string, image domain.Image, onProgress domain.ProgressFunc) (string, error) {
	size := image.Size()
	opts := minio.PutObjectOptions{
		ContentType:  image.ContentType,
		UserMetadata: map[string]string{"original-filename": image.Name},
	}
	if onProgress != nil {
		opts.Progress = newProgressReader(size, onProgress)
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(image.Data), size, opts)
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("bucket", s.bucket), zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}

	s.logger.Debug("Object uploaded", zap.String("key", info.Key), zap.String("etag", info.ETag), zap.Int64("size", info.Size))
	return s.ObjectURL(key), nil
}

func (s *S3Storage) ObjectURL(key string) string {
	return s.publicBaseURL + "/" + key
}

// progressReader is handed to minio as PutObjectOptions.Progress. minio reads from it
// as many bytes as it has just sent, so each Read turns into a cumulative event.
type progressReader struct {
	mu          sync.Mutex
	total       int64
	transferred int64
	emit        domain.ProgressFunc
}

func newProgressReader(total int64, emit domain.ProgressFunc) *progressReader {
	return &progressReader{total: total, emit: emit}
}

func (r *progressReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	r.transferred += int64(len(p))
	if r.transferred > r.total {
		r.transferred = r.total
	}
	ev := domain.Progress{BytesTransferred: r.transferred, TotalBytes: r.total, State: domain.TransferRunning}
	r.mu.Unlock()

	r.emit(ev)
	return len(p), nil
}
