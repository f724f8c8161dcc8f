package dtm

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Login authenticates against the remote login form: GET the page for a
// fresh token, then POST the credentials with it. Success means the resulting
// page carries a logout marker or resolved to the home path. Any transport
// failure reads as false; nothing is retried.
func (c *Client) Login(ctx context.Context, username, password string) bool {
	resp, err := c.get(ctx, loginPath, nil)
	if err != nil {
		return false
	}
	page, err := readBody(resp)
	if err != nil || resp.StatusCode != http.StatusOK {
		return false
	}

	token, ok := extractToken(string(page))
	if !ok {
		// Without a token the POST would be rejected anyway; don't attempt it.
		return false
	}
	c.token = token

	form := url.Values{}
	form.Set(fieldLoginUser, username)
	form.Set(fieldLoginPwd, password)
	form.Set(fieldToken, c.token)

	resp, err = c.postForm(ctx, loginPath, form)
	if err != nil {
		return false
	}
	page, err = readBody(resp)
	if err != nil || resp.StatusCode != http.StatusOK {
		return false
	}

	landed := strings.Contains(strings.ToLower(string(page)), markerLogout) ||
		strings.Contains(resp.Request.URL.Path, homePath)
	if !landed {
		return false
	}

	// The landing page usually carries a rotated token; keep the old one if not.
	if token, ok := extractToken(string(page)); ok {
		c.token = token
	}
	return true
}

// RefreshToken re-reads the home page and swaps in a fresh token when one is
// found. Best-effort by design: every failure leaves the previous token in
// place and there is nothing useful to report.
func (c *Client) RefreshToken(ctx context.Context) {
	resp, err := c.get(ctx, homePath, nil)
	if err != nil {
		return
	}
	page, err := readBody(resp)
	if err != nil || resp.StatusCode != http.StatusOK {
		return
	}

	if token, ok := extractToken(string(page)); ok {
		c.token = token
	}
}

// SessionValid probes the home page to decide whether the session is still
// authenticated. The remote service has no real "am I logged in" endpoint, so
// this is a heuristic over markers and redirects, evaluated in order with the
// first match winning. An inconclusive probe is treated as not authenticated.
func (c *Client) SessionValid(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+homePath, nil)
	if err != nil {
		return false
	}

	resp, err := c.probeClient.Do(req)
	if err != nil {
		return false
	}
	body, err := readBody(resp)
	if err != nil {
		return false
	}

	page := strings.ToLower(string(body))
	finalURL := resp.Request.URL

	if resp.StatusCode == http.StatusOK {
		if strings.Contains(page, markerLogout) {
			return true
		}
		if strings.Contains(finalURL.Path, homePath) {
			return true
		}
		if strings.Contains(page, markerLogin) &&
			(strings.Contains(page, markerForm) || strings.Contains(page, markerPassword)) {
			return false
		}
	}

	switch resp.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther:
		if strings.Contains(strings.ToLower(resp.Header.Get("Location")), markerLogin) {
			return false
		}
	}

	if strings.Contains(strings.ToLower(finalURL.String()), markerLogin) {
		return false
	}

	return false
}
