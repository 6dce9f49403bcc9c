package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const maxResponseBodySize = 1 << 20 // 1MB

// connection pooling limits for a long-running process that polls
// a single host forever
const (
	defaultMaxIdleConns        = 10
	defaultMaxIdleConnsPerHost = 2
	defaultIdleConnTimeout     = 60 * time.Second
)

// Client fetches homework statuses from the remote status API.
//
// Client issues a single authenticated GET per call and classifies every
// failure mode into a tagged [*Error]. It never retries; retrying is the
// poll loop's responsibility, on the next scheduled cycle only.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	timeout    time.Duration
}

// NewClient creates a status API [Client].
//
// The endpoint is the homework status URL; token is sent on every request
// as "Authorization: OAuth <token>". The timeout is applied per request
// via context cancellation, not as a global client timeout.
func NewClient(endpoint, token string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
		endpoint: endpoint,
		token:    token,
		timeout:  timeout,
	}
}

// Fetch requests all records at or after the cursor timestamp.
//
// On success it returns the raw JSON body for validation. Failures are
// classified:
//   - network/transport problems return a [KindTransport] error
//   - a non-200 response returns a [KindWrongStatusCode] error carrying
//     the status code, reason phrase, and raw body for diagnostics
//   - a body that is not valid JSON returns a [KindMalformedPayload] error
func (c *Client) Fetch(ctx context.Context, cursor int64) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, wrapError(KindTransport, err, "create request")
	}

	q := req.URL.Query()
	q.Set("from_date", strconv.FormatInt(cursor, 10))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "OAuth "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapError(KindTransport, err, "request %s", c.endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	// read body with size limit
	limitedReader := io.LimitReader(resp.Body, maxResponseBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, wrapError(KindTransport, err, "read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newError(KindWrongStatusCode, "endpoint %s returned %d %s: %s",
			c.endpoint, resp.StatusCode, reasonPhrase(resp), truncate(body, 256))
	}

	if !json.Valid(body) {
		return nil, newError(KindMalformedPayload, "response body is not valid JSON: %s", truncate(body, 256))
	}

	return body, nil
}

// Close closes all idle connections in the client's connection pool.
// Safe to call multiple times; the client remains usable afterwards.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

// reasonPhrase extracts the reason phrase from a response status line.
func reasonPhrase(resp *http.Response) string {
	text := http.StatusText(resp.StatusCode)
	if text == "" {
		text = resp.Status
	}
	return text
}

// truncate shortens diagnostic body excerpts to keep error messages bounded.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return fmt.Sprintf("%s... (%d bytes)", b[:n], len(b))
}
