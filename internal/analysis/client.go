package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"split-analyzer/internal/config"
	"split-analyzer/internal/tracer"
)

// maxResponseBody caps how much of a response is read. Responses carry two
// base64 PNGs.
const maxResponseBody = 64 * 1024 * 1024

// RequestIDHeader carries the per-call request id.
const RequestIDHeader = "X-Request-ID"

// CoordinateSpace selects how points are sent.
type CoordinateSpace string

const (
	// Normalized sends points as 0..1 fractions of the image size.
	Normalized CoordinateSpace = "normalized"
	// Pixel sends points as integer pixels of the natural image.
	Pixel CoordinateSpace = "pixel"
)

// ErrUnsuccessful is returned when the service answers 2xx with success=false.
var ErrUnsuccessful = errors.New("analysis unsuccessful")

// StatusError is a non-2xx response from the service. Body is kept verbatim.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analysis service error %d: %s", e.Code, e.Body)
}

// Result is a completed analysis.
type Result struct {
	Answer     string
	Region1    []byte // PNG of the first side of the line
	Region2    []byte // PNG of the second side
	ModelReady bool
	RequestID  string
	Elapsed    time.Duration
}

// Health is the service readiness report.
type Health struct {
	Status     string `json:"status"`
	ModelReady bool   `json:"vllm_ready"`
}

// Client sends split requests to the analysis service.
type Client interface {
	Analyze(ctx context.Context, req *SplitRequest) (*Result, error)
	Health(ctx context.Context) (Health, error)
}

type analyzeResponse struct {
	Success   bool   `json:"success"`
	Response  string `json:"response"`
	Image1    string `json:"image1"`
	Image2    string `json:"image2"`
	VLLMReady bool   `json:"vllm_ready"`
}

// HTTPClient talks to the analysis service over HTTP. It never retries.
type HTTPClient struct {
	baseURL string
	space   CoordinateSpace
	client  *http.Client
	logger  *slog.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.client = c }
}

// WithCoordinateSpace selects the point encoding.
func WithCoordinateSpace(s CoordinateSpace) Option {
	return func(h *HTTPClient) { h.space = s }
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, logger *slog.Logger, opts ...Option) *HTTPClient {
	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		space:   Normalized,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewClient builds the configured client, wrapped in a circuit breaker when enabled.
func NewClient(cfg config.AnalyzerConfig, logger *slog.Logger) Client {
	h := NewHTTPClient(cfg.BaseURL, logger,
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		WithCoordinateSpace(CoordinateSpace(cfg.CoordinateSpace)),
	)
	if !cfg.CircuitBreaker.Enabled {
		return h
	}
	return NewBreakerClient(h, cfg.CircuitBreaker, logger)
}

// Analyze uploads the image, points and question and waits for the answer.
func (h *HTTPClient) Analyze(ctx context.Context, req *SplitRequest) (*Result, error) {
	requestID := ulid.Make().String()
	ctx, span := tracer.StartSpan(ctx, "analysis.analyze")
	defer span.End()
	span.SetAttributes(
		tracer.StringAttr("request_id", requestID),
		tracer.StringAttr("coordinate_space", string(h.space)),
		tracer.IntAttr("image_bytes", len(req.Image().Data)),
	)

	body, contentType, err := h.encode(req)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	start := time.Now()
	h.logger.Info("analysis request", "request_id", requestID, "image", req.Image().Name, "space", h.space)

	data, err := h.do(ctx, http.MethodPost, "/analyze", body, contentType, requestID)
	if err != nil {
		tracer.RecordError(span, err)
		h.logger.Warn("analysis failed", "request_id", requestID, "error", err)
		return nil, err
	}

	var resp analyzeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		err = fmt.Errorf("decode response: %w", err)
		tracer.RecordError(span, err)
		return nil, err
	}
	if !resp.Success {
		err := fmt.Errorf("%w: %s", ErrUnsuccessful, resp.Response)
		tracer.RecordError(span, err)
		return nil, err
	}

	region1, err := decodeImage(resp.Image1)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, fmt.Errorf("decode image1: %w", err)
	}
	region2, err := decodeImage(resp.Image2)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, fmt.Errorf("decode image2: %w", err)
	}

	result := &Result{
		Answer:     resp.Response,
		Region1:    region1,
		Region2:    region2,
		ModelReady: resp.VLLMReady,
		RequestID:  requestID,
		Elapsed:    time.Since(start),
	}
	tracer.SetOK(span)
	h.logger.Info("analysis completed",
		"request_id", requestID,
		"elapsed", result.Elapsed,
		"model_ready", result.ModelReady,
	)
	return result, nil
}

// Health queries the service readiness endpoint.
func (h *HTTPClient) Health(ctx context.Context) (Health, error) {
	ctx, span := tracer.StartSpan(ctx, "analysis.health")
	defer span.End()

	data, err := h.do(ctx, http.MethodGet, "/health", nil, "", ulid.Make().String())
	if err != nil {
		tracer.RecordError(span, err)
		return Health{}, err
	}

	var hr Health
	if err := json.Unmarshal(data, &hr); err != nil {
		err = fmt.Errorf("decode health: %w", err)
		tracer.RecordError(span, err)
		return Health{}, err
	}
	tracer.SetOK(span)
	return hr, nil
}

func (h *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType, requestID string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)

	httpResp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &StatusError{Code: httpResp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encode writes the multipart form: the image file part followed by
// point1_x, point1_y, point2_x, point2_y, question and coordinate_space.
func (h *HTTPClient) encode(req *SplitRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	image := req.Image()
	name := image.Name
	if name == "" {
		name = "image"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(name)))
	header.Set("Content-Type", image.ContentType())
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, "", fmt.Errorf("write image part: %w", err)
	}

	fields, err := h.pointFields(req)
	if err != nil {
		return nil, "", err
	}
	fields = append(fields,
		[2]string{"question", req.Question()},
		[2]string{"coordinate_space", string(h.space)},
	)
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func (h *HTTPClient) pointFields(req *SplitRequest) ([][2]string, error) {
	switch h.space {
	case Pixel:
		p1, p2 := req.PixelPoints(req.Image().Size())
		return [][2]string{
			{"point1_x", strconv.Itoa(p1.X)},
			{"point1_y", strconv.Itoa(p1.Y)},
			{"point2_x", strconv.Itoa(p2.X)},
			{"point2_y", strconv.Itoa(p2.Y)},
		}, nil
	case Normalized, "":
		p1, p2 := req.Points()
		return [][2]string{
			{"point1_x", formatCoord(p1.X)},
			{"point1_y", formatCoord(p1.Y)},
			{"point2_x", formatCoord(p2.X)},
			{"point2_y", formatCoord(p2.Y)},
		}, nil
	default:
		return nil, fmt.Errorf("unknown coordinate space %q", h.space)
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// decodeImage decodes a base64 image, accepting an optional data URL prefix.
func decodeImage(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	return base64.StdEncoding.DecodeString(s)
}

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)
