// Package crowdin implements the Crowdin REST API v2 client used by the
// reconciliation and upload engine.
//
// Every call takes a context, authenticates with a bearer token, and
// retries transient failures (transport errors, 5xx) with exponential
// backoff. 429 responses honor the Retry-After header when present and
// otherwise pause for a conservative default. Requests are paced by a
// ratelimit.Limiter so a healthy run stays below the per-token quota
// instead of discovering it the hard way.
package crowdin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/crowdkit/crowdkit/ratelimit"
)

// DefaultBaseURL is the public Crowdin API endpoint. crowdin.com
// Enterprise instances use their own domain.
const DefaultBaseURL = "https://api.crowdin.com/api/v2"

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	default429Pause   = 65 * time.Second // 60s window + 5s buffer
)

// Client is a Crowdin REST API v2 client bound to one project.
type Client struct {
	baseURL    string
	token      string
	projectID  int64
	maxRetries int

	httpClient *http.Client
	limiter    ratelimit.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter replaces the request pacer.
func WithLimiter(l ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithMaxRetries sets the retry budget per request. Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// New creates a client for the given project.
func New(baseURL, token string, projectID int64, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		projectID:  projectID,
		maxRetries: defaultMaxRetries,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    ratelimit.New(ratelimit.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProjectID returns the project this client is bound to.
func (c *Client) ProjectID() int64 { return c.projectID }

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// ProjectLanguages fetches the project's target language IDs in the order
// the backend reports them.
func (c *Client) ProjectLanguages(ctx context.Context) ([]string, error) {
	const op = "get project languages"

	var env objectEnvelope[wireProject]
	path := fmt.Sprintf("/projects/%d", c.projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &env); err != nil {
		return nil, backendErr(op, err)
	}

	langs := make([]string, 0, len(env.Data.TargetLanguages))
	for _, l := range env.Data.TargetLanguages {
		langs = append(langs, l.ID)
	}
	return langs, nil
}

// SearchStrings runs a CroQL query against the project's source strings
// and returns up to limit matches with their attached label names.
func (c *Client) SearchStrings(ctx context.Context, croql string, limit int) ([]SourceString, error) {
	const op = "search strings"

	q := url.Values{}
	q.Set("croql", croql)
	q.Set("limit", strconv.Itoa(limit))

	var env listEnvelope[wireString]
	path := fmt.Sprintf("/projects/%d/strings", c.projectID)
	if err := c.do(ctx, http.MethodGet, path, q, nil, &env); err != nil {
		return nil, backendErr(op, err)
	}

	strs := make([]SourceString, 0, len(env.Data))
	for _, item := range env.Data {
		strs = append(strs, item.Data.toSourceString())
	}
	return strs, nil
}

// StringTranslations lists translations for one (string, language) pair,
// most recent first, up to limit entries.
func (c *Client) StringTranslations(ctx context.Context, stringID int64, language string, limit int) ([]Translation, error) {
	op := fmt.Sprintf("list translations for string %d in %s", stringID, language)

	q := url.Values{}
	q.Set("stringId", strconv.FormatInt(stringID, 10))
	q.Set("languageId", language)
	q.Set("limit", strconv.Itoa(limit))

	var env listEnvelope[wireTranslation]
	path := fmt.Sprintf("/projects/%d/translations", c.projectID)
	if err := c.do(ctx, http.MethodGet, path, q, nil, &env); err != nil {
		return nil, backendErr(op, err)
	}

	ts := make([]Translation, 0, len(env.Data))
	for _, item := range env.Data {
		ts = append(ts, Translation(item.Data))
	}
	return ts, nil
}

// AddTranslation writes a single translation for a (string, language)
// pair and returns the backend's acknowledgement.
func (c *Client) AddTranslation(ctx context.Context, stringID int64, language, text string) (*Ack, error) {
	op := fmt.Sprintf("add translation for string %d in %s", stringID, language)

	body := struct {
		StringID int64  `json:"stringId"`
		Language string `json:"languageId"`
		Text     string `json:"text"`
	}{stringID, language, text}

	var env objectEnvelope[Ack]
	path := fmt.Sprintf("/projects/%d/translations", c.projectID)
	if err := c.do(ctx, http.MethodPost, path, nil, body, &env); err != nil {
		return nil, backendErr(op, err)
	}
	return &env.Data, nil
}

// ListLabels returns all labels defined in the project.
func (c *Client) ListLabels(ctx context.Context) ([]Label, error) {
	const op = "list labels"

	var env listEnvelope[wireLabel]
	path := fmt.Sprintf("/projects/%d/labels", c.projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &env); err != nil {
		return nil, backendErr(op, err)
	}

	labels := make([]Label, 0, len(env.Data))
	for _, item := range env.Data {
		labels = append(labels, Label(item.Data))
	}
	return labels, nil
}

// CreateLabel creates a label with the given title. A duplicate title is
// reported as a 409 (see IsConflict) so callers can re-resolve instead of
// failing.
func (c *Client) CreateLabel(ctx context.Context, title string) (*Label, error) {
	op := fmt.Sprintf("create label %q", title)

	body := struct {
		Title string `json:"title"`
	}{title}

	var env objectEnvelope[wireLabel]
	path := fmt.Sprintf("/projects/%d/labels", c.projectID)
	if err := c.do(ctx, http.MethodPost, path, nil, body, &env); err != nil {
		return nil, backendErr(op, err)
	}
	l := Label(env.Data)
	return &l, nil
}

// AssignLabel attaches a label to the given strings as one bulk call.
func (c *Client) AssignLabel(ctx context.Context, labelID int64, stringIDs []int64) error {
	op := fmt.Sprintf("assign label %d", labelID)

	body := struct {
		StringIDs []int64 `json:"stringIds"`
	}{stringIDs}

	path := fmt.Sprintf("/projects/%d/labels/%d/strings", c.projectID, labelID)
	if err := c.do(ctx, http.MethodPost, path, nil, body, nil); err != nil {
		return backendErr(op, err)
	}
	return nil
}

// UnassignLabel detaches a label from the given strings as one bulk call.
func (c *Client) UnassignLabel(ctx context.Context, labelID int64, stringIDs []int64) error {
	op := fmt.Sprintf("unassign label %d", labelID)

	ids := make([]string, len(stringIDs))
	for i, id := range stringIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	q := url.Values{}
	q.Set("stringIds", strings.Join(ids, ","))

	path := fmt.Sprintf("/projects/%d/labels/%d/strings", c.projectID, labelID)
	if err := c.do(ctx, http.MethodDelete, path, q, nil, nil); err != nil {
		return backendErr(op, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// statusError is a non-2xx response after the retry budget is spent.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.status, truncate(e.body, 300))
}

// IsConflict reports whether err stems from an HTTP 409, i.e. the
// resource already exists. Callers use this to turn a duplicate-title
// create race into a re-resolve instead of a failure.
func IsConflict(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.status == http.StatusConflict
}

// do performs one API call with pacing, retries, and envelope decoding.
// out may be nil for calls whose response body is irrelevant.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries {
				if werr := sleep(ctx, c.limiter.RetryAfter(attempt)); werr != nil {
					return werr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", lastErr)
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, truncate(string(respBody), 200))

		case resp.StatusCode == http.StatusTooManyRequests:
			pause := retryAfter(resp.Header, default429Pause)
			lastErr = &statusError{resp.StatusCode, string(respBody)}
			if attempt < c.maxRetries {
				if werr := sleep(ctx, pause); werr != nil {
					return werr
				}
				continue
			}
			return fmt.Errorf("rate limited after %d retries: %w", c.maxRetries, lastErr)

		case resp.StatusCode >= 500:
			lastErr = &statusError{resp.StatusCode, string(respBody)}
			if attempt < c.maxRetries {
				if werr := sleep(ctx, c.limiter.RetryAfter(attempt)); werr != nil {
					return werr
				}
				continue
			}
			return lastErr

		case resp.StatusCode < 200 || resp.StatusCode > 299:
			// Client errors are not retried.
			return &statusError{resp.StatusCode, string(respBody)}
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("exhausted all %d retries: %w", c.maxRetries, lastErr)
}

// retryAfter parses the Retry-After header (delta-seconds form).
func retryAfter(h http.Header, fallback time.Duration) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
