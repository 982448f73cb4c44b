package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/html/charset"
)

// FetchLoginPage downloads the portal login page and returns it decoded
// as UTF-8. Non-2xx responses are reported as transport failures.
func (c *Client) FetchLoginPage(ctx context.Context, portalURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, portalURL, nil)
	if err != nil {
		return "", &TransportError{Op: "fetch", URL: portalURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.page.Do(req)
	if err != nil {
		return "", &TransportError{Op: "fetch", URL: portalURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{Op: "fetch", URL: portalURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := readDecoded(resp)
	if err != nil {
		return "", &TransportError{Op: "fetch", URL: portalURL, Err: err}
	}
	return body, nil
}

// readDecoded reads a capped body, converting legacy charsets to UTF-8
func readDecoded(resp *http.Response) (string, error) {
	limited := io.LimitReader(resp.Body, maxPageBody)
	r, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		// Unknown charset label: fall back to the raw bytes
		r = limited
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
