package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agyouthrise/rise-backend/internal/config"
	"github.com/agyouthrise/rise-backend/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway uploads an image and returns its public https URL.
// Errors match common.ErrUploadFailed (provider rejected the file) or
// common.ErrTransport (no response). Implementations never retry.
type Gateway interface {
	Upload(ctx context.Context, filename string, body io.Reader) (string, error)
}

const defaultUploadTimeout = 60 * time.Second

var (
	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Image uploads by provider and result",
		},
		[]string{"provider", "result"},
	)

	uploadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_upload_duration_seconds",
			Help:    "Image upload latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)
)

func observe(provider string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = errorKind(err)
	}
	uploadsTotal.WithLabelValues(provider, result).Inc()
	uploadDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}

// NewGateway builds the gateway selected by media.provider
func NewGateway(cfg config.MediaConfig) (Gateway, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultUploadTimeout
	}

	switch cfg.Provider {
	case "", "cloudinary":
		return NewCloudinaryGateway(CloudinaryOptions{
			APIURL:       cfg.Cloudinary.APIURL,
			CloudName:    cfg.Cloudinary.CloudName,
			UploadPreset: cfg.Cloudinary.UploadPreset,
			HTTPClient:   &http.Client{Timeout: timeout},
		})
	case "s3":
		client, err := storage.NewS3Client(storage.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			CDNURL:          cfg.S3.CDNURL,
			BasePath:        cfg.S3.BasePath,
			ForcePathStyle:  cfg.S3.ForcePathStyle,
		})
		if err != nil {
			return nil, err
		}
		return NewS3Gateway(client, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported media provider %q", cfg.Provider)
	}
}
