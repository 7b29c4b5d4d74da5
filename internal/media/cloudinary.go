package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/agyouthrise/rise-backend/internal/common"
	pkglogger "github.com/agyouthrise/rise-backend/pkg/logger"
)

const (
	providerCloudinary      = "cloudinary"
	defaultCloudinaryAPIURL = "https://api.cloudinary.com/v1_1"

	// cap on how much of a provider response we read
	maxResponseBytes = 1 << 20
)

// CloudinaryOptions unsigned upload target
type CloudinaryOptions struct {
	APIURL       string
	CloudName    string
	UploadPreset string
	HTTPClient   *http.Client
}

// CloudinaryGateway unsigned uploads through an upload preset
type CloudinaryGateway struct {
	endpoint   string
	preset     string
	httpClient *http.Client
}

// NewCloudinaryGateway 생성자
func NewCloudinaryGateway(opts CloudinaryOptions) (*CloudinaryGateway, error) {
	if opts.CloudName == "" {
		return nil, fmt.Errorf("cloudinary: cloud name is required")
	}
	if opts.UploadPreset == "" {
		return nil, fmt.Errorf("cloudinary: upload preset is required")
	}
	apiURL := strings.TrimRight(opts.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultCloudinaryAPIURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultUploadTimeout}
	}
	return &CloudinaryGateway{
		endpoint:   fmt.Sprintf("%s/%s/image/upload", apiURL, opts.CloudName),
		preset:     opts.UploadPreset,
		httpClient: client,
	}, nil
}

// cloudinaryResponse only the fields we read; everything else is discarded
type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Upload posts the file as multipart form data and returns secure_url
func (g *CloudinaryGateway) Upload(ctx context.Context, filename string, body io.Reader) (url string, err error) {
	start := time.Now()
	defer func() { observe(providerCloudinary, start, err) }()

	payload, contentType, err := g.encode(filename, body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, payload)
	if err != nil {
		return "", fmt.Errorf("cloudinary: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: cloudinary: %w", common.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: cloudinary: read response: %w", common.ErrTransport, err)
	}

	var parsed cloudinaryResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ""
		if decodeErr == nil && parsed.Error != nil {
			msg = parsed.Error.Message
		}
		pkglogger.GetLogger().Warn().
			Int("status", resp.StatusCode).
			Str("provider_message", msg).
			Msg("cloudinary rejected upload")
		return "", common.NewUploadError(resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return "", common.NewUploadError(resp.StatusCode, "unreadable provider response")
	}
	if parsed.SecureURL == "" {
		return "", common.NewUploadError(resp.StatusCode, "provider response has no secure_url")
	}
	return parsed.SecureURL, nil
}

func (g *CloudinaryGateway) encode(filename string, body io.Reader) (io.Reader, string, error) {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		name = "upload"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, body); err != nil {
		return nil, "", fmt.Errorf("cloudinary: read file: %w", err)
	}
	if err := w.WriteField("upload_preset", g.preset); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// errorKind metric label for a failed upload
func errorKind(err error) string {
	switch {
	case errors.Is(err, common.ErrUploadFailed):
		return "rejected"
	case errors.Is(err, common.ErrTransport):
		return "transport"
	default:
		return "error"
	}
}
