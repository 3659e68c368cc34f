package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	apperrors "github.com/medicare-hq/staff-console/pkg/errors"
)

// DefaultBaseURL matches the platform's local development default.
const DefaultBaseURL = "http://localhost:8000"

// TokenSource supplies the bearer credential for outbound requests. An
// empty token means the Authorization header is omitted entirely.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource for a fixed credential.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// NoToken is the TokenSource for unauthenticated calls.
var NoToken = StaticToken("")

// Client is the shared transport for the platform REST API. It issues
// exactly one request per operation: no retries and no timeout override
// beyond what the injected http.Client carries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      TokenSource
	logger     *zerolog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, creds TokenSource, logger *zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if creds == nil {
		creds = NoToken
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		creds:      creds,
		logger:     logger,
	}
}

// WithToken returns a copy of the client bound to a different
// credential. Used by the console to scope calls to a staff session.
func (c *Client) WithToken(creds TokenSource) *Client {
	clone := *c
	clone.creds = creds
	return &clone
}

type tokenContextKey struct{}

// WithRequestToken scopes a single call to a staff member's platform
// token. A token found in the context wins over the client's own
// credential.
func WithRequestToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

func tokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey{}).(string)
	return token, ok && token != ""
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	var reqBody io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.doRaw(ctx, method, path, query, reqBody, contentType, out)
}

func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	token, ok := tokenFromContext(ctx)
	if !ok {
		token = c.creds.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apperrors.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("upstream request failed")
		return &apperrors.HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
