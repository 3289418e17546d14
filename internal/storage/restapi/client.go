package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	apiPrefix       = "/api/v1"
	contentTypeJSON = "application/json"
	defaultTimeout  = 10 * time.Second
)

var upstreamRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ping_parking_api_requests_total",
		Help: "Requests sent to the parking API by method and status class",
	},
	[]string{"method", "status"},
)

// Client talks to the parking REST API. It holds no per-operator state: the
// bearer token is read from the TokenStore carried by the request context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, true)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out, true)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// Download is a raw binary response.
type Download struct {
	Body        []byte
	ContentType string
	Filename    string
}

// Download fetches a binary payload with the bearer header, outside the JSON
// decoding path.
func (c *Client) Download(ctx context.Context, path string) (*Download, error) {
	const op = "storage.restapi.Download"

	resp, err := c.send(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp.StatusCode, body)
	}

	dl := &Download{Body: body, ContentType: resp.Header.Get("Content-Type")}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		dl.Filename = params["filename"]
	}

	return dl, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, auth bool) error {
	const op = "storage.restapi.do"

	resp, err := c.send(ctx, method, path, body, auth)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%s: decode %s %s: %w", op, method, path, err)
		}
	}

	return nil
}

// send dispatches the request. A 401 on an authenticated call clears the
// stored token and surfaces as ErrUnauthorized.
func (c *Client) send(ctx context.Context, method, path string, body any, auth bool) (*http.Response, error) {
	const op = "storage.restapi.send"

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal body: %w", op, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	var tokens TokenStore
	if auth {
		tokens = TokensFromContext(ctx)
		if tokens != nil {
			token, err := tokens.LoadToken()
			if err != nil {
				return nil, fmt.Errorf("%s: load token: %w", op, err)
			}
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		upstreamRequests.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("%s: %s %s: %w", op, method, path, err)
	}
	upstreamRequests.WithLabelValues(method, statusClass(resp.StatusCode)).Inc()

	c.log.Debug("api call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if auth && resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if tokens != nil {
			if err := tokens.ClearToken(); err != nil {
				c.log.Warn("failed to clear token after 401", slog.String("op", op), slog.String("error", err.Error()))
			}
		}
		return nil, ErrUnauthorized
	}

	return resp, nil
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

func v1(format string, args ...any) string {
	return apiPrefix + fmt.Sprintf(format, args...)
}
