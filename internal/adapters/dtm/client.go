package dtm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/nitwit45/automation-tm/internal/domain"
	"github.com/nitwit45/automation-tm/internal/ports"
)

// Remote paths, fixed by compatibility with the deployed service.
const (
	loginPath        = "/login"
	homePath         = "/home"
	taskTypeListPath = "/taskTypeList"
	productListPath  = "/productList"
	categoryListPath = "/categoryList"
	activityListPath = "/activityList"
	taskSavePath     = "/user-save"
	taskListPath     = "/myTaskList"
	taskUpdatePath   = "/task/updatetask"
)

// Marker literals the session heuristics scan for. Centralized here because
// the remote service may reword its pages; see SessionValid.
const (
	markerToken    = "csrf-token"
	markerLogout   = "logout"
	markerLogin    = "login"
	markerForm     = "form"
	markerPassword = "password"
)

// Login form field names used by the remote service.
const (
	fieldLoginUser = "sys_login_user"
	fieldLoginPwd  = "sys_login_pwd"
	fieldToken     = "_token"
)

const defaultTimeout = 30 * time.Second

const maxPageBytes = 4 << 20

// Client models exactly one logical logged-in user: one cookie jar and one
// current anti-forgery token. It is not safe for concurrent use; interleaved
// calls could attach a stale token to an in-flight request.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// probeClient shares the jar but stops following a redirect that points
	// at the login page, so SessionValid can inspect the raw 3xx.
	probeClient *http.Client

	token   string
	catalog domain.Catalog
	now     func() time.Time
}

var _ ports.TaskClient = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

func WithNow(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("base url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("base url must use http or https")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Jar: jar, Timeout: defaultTimeout},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		c.httpClient.Jar = jar
	}

	c.probeClient = &http.Client{
		Jar:           c.httpClient.Jar,
		Transport:     c.httpClient.Transport,
		Timeout:       c.httpClient.Timeout,
		CheckRedirect: stopOnLoginRedirect,
	}

	return c, nil
}

// Token exposes the current anti-forgery token, primarily for tests.
func (c *Client) Token() string { return c.token }

// Catalog returns the reference data cached by earlier fetches.
func (c *Client) Catalog() domain.Catalog { return c.catalog }

func stopOnLoginRedirect(req *http.Request, _ []*http.Request) error {
	if strings.Contains(strings.ToLower(req.URL.String()), markerLogin) {
		return http.ErrUseLastResponse
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	return c.httpClient.Do(req)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.httpClient.Do(req)
}

func readBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBytes))
	_ = resp.Body.Close()
}
