package portal

import (
	"context"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"portalkombat/internal/domain"
)

// Submit posts fields to portalHost + the extracted action. The internal
// submit entry is not sent. success is true and body set only on 2xx;
// any other status yields (false, "", nil) and network failures a
// *TransportError.
func (c *Client) Submit(ctx context.Context, portalHost string, fields domain.Fields) (bool, string, error) {
	target, err := SubmitTarget(portalHost, fields)
	if err != nil {
		return false, "", &TransportError{Op: "submit", URL: portalHost, Err: err}
	}

	body := fields.Without(domain.FieldSubmit).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(body))
	if err != nil {
		return false, "", &TransportError{Op: "submit", URL: target, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", portalHost+"/")

	resp, err := c.page.Do(req)
	if err != nil {
		return false, "", &TransportError{Op: "submit", URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.WithFields(log.Fields{"url": target, "status": resp.StatusCode}).Warn("Login submission rejected")
		return false, "", nil
	}

	text, err := readDecoded(resp)
	if err != nil {
		return false, "", &TransportError{Op: "submit", URL: target, Err: err}
	}
	return true, text, nil
}
