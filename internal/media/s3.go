package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agyouthrise/rise-backend/internal/common"
	"github.com/agyouthrise/rise-backend/pkg/storage"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

const providerS3 = "s3"

// ObjectUploader the part of storage.S3Client the gateway needs
type ObjectUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error)
}

// S3Gateway stores images in S3-compatible object storage (S3, R2, MinIO)
type S3Gateway struct {
	client  ObjectUploader
	timeout time.Duration
	now     func() time.Time
}

// NewS3Gateway 생성자
func NewS3Gateway(client ObjectUploader, timeout time.Duration) *S3Gateway {
	return &S3Gateway{client: client, timeout: timeout, now: time.Now}
}

// Upload stores the image under images/YYYY/MM/DD and returns its public URL
func (g *S3Gateway) Upload(ctx context.Context, filename string, body io.Reader) (url string, err error) {
	start := time.Now()
	defer func() { observe(providerS3, start, err) }()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	// Detect content type from first 512 bytes
	br := bufio.NewReaderSize(body, 512)
	head, _ := br.Peek(512)
	contentType := http.DetectContentType(head)

	key := storage.GenerateKey("images", filename, g.now())
	result, err := g.client.Upload(ctx, key, br, contentType, 0)
	if err != nil {
		return "", classifyS3Error(err)
	}
	return result.URL, nil
}

// classifyS3Error an answered request is a rejection, anything else never reached the provider
func classifyS3Error(err error) error {
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		msg := ""
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.ErrorMessage()
			if msg == "" {
				msg = apiErr.ErrorCode()
			}
		}
		return fmt.Errorf("s3: %w", common.NewUploadError(respErr.HTTPStatusCode(), msg))
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.ErrorMessage()
		if msg == "" {
			msg = apiErr.ErrorCode()
		}
		return fmt.Errorf("s3: %w", common.NewUploadError(http.StatusBadRequest, msg))
	}

	return fmt.Errorf("%w: %w", common.ErrTransport, err)
}
