package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/call-review/pkg/config"
)

const (
	analyzePath  = "/api/calls/analyze"
	resultPath   = "/api/calls/result/"
	apiKeyHeader = "X-API-Key"
)

// Service is the contract of the remote audio-analysis service
type Service interface {
	Analyze(ctx context.Context, file File) (string, error)
	GetResult(ctx context.Context, callID string) (*ResultResponse, error)
}

// File is an audio upload forwarded to the analysis service
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Client is a minimal HTTP client for the analysis service
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

var _ Service = (*Client)(nil)

// NewClient creates an analysis client using the provided config
func NewClient(cfg *config.AnalysisConfig, logger *zap.Logger) *Client {
	// Analyze blocks while the service transcribes, so there is no cap unless one is configured
	var timeout time.Duration
	var base, key string
	if cfg != nil {
		base = cfg.BaseURL
		key = cfg.APIKey
		if cfg.RequestTimeout > 0 {
			timeout = cfg.RequestTimeout
		}
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  key,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Analyze uploads an audio file and returns the service-assigned call id
func (c *Client) Analyze(ctx context.Context, file File) (string, error) {
	body, contentType, err := encodeMultipart(file)
	if err != nil {
		return "", &TransportError{Op: "analyze", Err: fmt.Errorf("encode multipart: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analyzePath, body)
	if err != nil {
		return "", &TransportError{Op: "analyze", Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	raw, err := c.do(req, "analyze")
	if err != nil {
		return "", err
	}

	var ar AnalyzeResponse
	if err := json.Unmarshal(raw, &ar); err != nil {
		return "", &TransportError{Op: "analyze", Err: fmt.Errorf("decode response: %w", err)}
	}
	if ar.CallID == "" {
		return "", &TransportError{Op: "analyze", Err: fmt.Errorf("response missing call_id")}
	}
	return ar.CallID, nil
}

// GetResult fetches the current state of an analysis job
func (c *Client) GetResult(ctx context.Context, callID string) (*ResultResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+resultPath+url.PathEscape(callID), nil)
	if err != nil {
		return nil, &TransportError{Op: "result", Err: err}
	}

	raw, err := c.do(req, "result")
	if err != nil {
		return nil, err
	}

	var rr ResultResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return nil, &TransportError{Op: "result", Err: fmt.Errorf("decode response: %w", err)}
	}
	return &rr, nil
}

// do sends req and returns the body of a 2xx response
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	reqID := uuid.New().String()
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("analysis.http.send_error",
				zap.String("req_id", reqID),
				zap.String("op", op),
				zap.Error(err),
			)
		}
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if c.logger != nil {
		c.logger.Debug("analysis.http.response",
			zap.String("req_id", reqID),
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.Int("bytes", len(raw)),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	if resp.StatusCode/100 != 2 {
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Detail: decodeDetail(raw)}
	}
	return raw, nil
}

// decodeDetail pulls {detail} out of an error body, falling back to the raw text
func decodeDetail(raw []byte) string {
	var er ErrorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Detail != "" {
		return er.Detail
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

// encodeMultipart builds the single-field multipart body expected by the analyze endpoint
func encodeMultipart(file File) (io.Reader, string, error) {
	if file.Body == nil {
		return nil, "", fmt.Errorf("file body is nil")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
