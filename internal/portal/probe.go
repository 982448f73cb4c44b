package portal

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

var (
	// window.location="...", location.href = '...', top.location=...
	// but not data-location="..." or other hyphenated attributes
	jsAssignPattern = regexp.MustCompile(`(?:^|[^\w.\-])(?:(?:window|document|top|self)\.)?location(?:\.href)?\s*=\s*["']([^"']+)["']`)
	// location.replace("...")
	jsReplacePattern = regexp.MustCompile(`location\.replace\(\s*["']([^"']+)["']\s*\)`)
	// absolute URLs anywhere in the body
	absoluteURLPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)
)

// ProbeResult is the verdict of a single probe
type ProbeResult struct {
	Captive    bool
	PortalURL  string // empty when not captive
	StatusCode int
}

// Probe sends one GET to the probe URL and reports whether a portal
// intercepted it. Transport failures return a *TransportError.
func (c *Client) Probe(ctx context.Context) (ProbeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.probeURL, nil)
	if err != nil {
		return ProbeResult{}, &TransportError{Op: "probe", URL: c.probeURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.probe.Do(req)
	if err != nil {
		return ProbeResult{}, &TransportError{Op: "probe", URL: c.probeURL, Err: err}
	}
	defer resp.Body.Close()

	result := ProbeResult{StatusCode: resp.StatusCode}

	switch {
	case isRedirect(resp.StatusCode):
		loc := resp.Header.Get("Location")
		if loc == "" {
			log.WithField("status", resp.StatusCode).Debug("Probe redirect without Location, treating as not captive")
			return result, nil
		}
		result.Captive = true
		result.PortalURL = c.absolute(loc)

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBody))
		if err != nil {
			return ProbeResult{}, &TransportError{Op: "probe", URL: c.probeURL, Err: err}
		}
		if portalURL := findRedirect(string(body)); portalURL != "" {
			result.Captive = true
			result.PortalURL = c.absolute(portalURL)
		}
	}

	return result, nil
}

func isRedirect(code int) bool {
	return code >= 300 && code < 400 && code != http.StatusNotModified
}

// findRedirect extracts a client-side redirect target from a page body:
// a JavaScript location change, then a meta refresh, then the first
// absolute URL outside the document's XML/DTD boilerplate
func findRedirect(body string) string {
	for _, re := range []*regexp.Regexp{jsAssignPattern, jsReplacePattern} {
		if m := re.FindStringSubmatch(body); m != nil {
			return m[1]
		}
	}
	if target := metaRefresh(body); target != "" {
		return target
	}
	for _, candidate := range absoluteURLPattern.FindAllString(body, -1) {
		if !isMarkupBoilerplate(candidate) {
			return candidate
		}
	}
	return ""
}

// metaRefresh returns the url of <meta http-equiv="refresh" content="N; url=...">
func metaRefresh(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	var target string
	doc.Find("meta[http-equiv]").EachWithBreak(func(_ int, meta *goquery.Selection) bool {
		equiv, _ := meta.Attr("http-equiv")
		if !strings.EqualFold(strings.TrimSpace(equiv), "refresh") {
			return true
		}
		content, _ := meta.Attr("content")
		target = refreshURL(content)
		return target == ""
	})
	return target
}

// refreshURL parses the url part of a refresh content value
func refreshURL(content string) string {
	_, rest, ok := strings.Cut(content, ";")
	if !ok {
		return ""
	}
	rest = strings.TrimSpace(rest)
	if len(rest) < 4 || !strings.EqualFold(rest[:3], "url") {
		return ""
	}
	rest = strings.TrimSpace(rest[3:])
	if !strings.HasPrefix(rest, "=") {
		return ""
	}
	return strings.Trim(strings.TrimSpace(rest[1:]), `"'`)
}

// isMarkupBoilerplate reports URLs that identify schemas and DTDs rather
// than pages
func isMarkupBoilerplate(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	return strings.EqualFold(u.Hostname(), "www.w3.org")
}

// absolute resolves a possibly relative redirect against the probe URL
func (c *Client) absolute(target string) string {
	base, err := url.Parse(c.probeURL)
	if err != nil {
		return target
	}
	ref, err := url.Parse(target)
	if err != nil {
		return target
	}
	return base.ResolveReference(ref).String()
}
