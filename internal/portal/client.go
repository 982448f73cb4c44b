package portal

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"portalkombat/internal/domain"
)

const (
	// DefaultTimeout bounds every request when no timeout is configured
	DefaultTimeout = 5 * time.Second

	// maxProbeBody caps how much of a probe response is scanned for redirects
	maxProbeBody = 64 << 10
	// maxPageBody caps login page and submission response reads
	maxPageBody = 1 << 20

	userAgent = "portalkombat/1.0"
)

// Client performs the HTTP side of detection and login
type Client struct {
	probeURL string
	timeout  time.Duration
	probe    *http.Client // never follows redirects
	page     *http.Client // follows redirects inside the portal
}

// NewClient creates a client for the given probe URL. An empty probeURL
// selects domain.DefaultProbeURL.
func NewClient(probeURL string, timeout time.Duration) *Client {
	if probeURL == "" {
		probeURL = domain.DefaultProbeURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// Fresh transports so a keep-alive connection opened on one network is
	// never reused after roaming to another network.
	return &Client{
		probeURL: probeURL,
		timeout:  timeout,
		probe: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		page: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(),
		},
	}
}

// ProbeURL returns the endpoint the client probes
func (c *Client) ProbeURL() string {
	return c.probeURL
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy:               nil,
		DisableKeepAlives:   true,
		TLSHandshakeTimeout: 5 * time.Second,
	}
}

// Origin returns scheme://host[:port] of rawURL
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse portal url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("portal url %q is not absolute", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// SubmitTarget returns the URL Submit would post fields to
func SubmitTarget(origin string, fields domain.Fields) (string, error) {
	action, _ := fields.Get(domain.FieldSubmit)
	return resolve(origin, action)
}

// resolve joins a form action onto the portal origin
func resolve(origin, action string) (string, error) {
	base, err := url.Parse(origin + "/")
	if err != nil {
		return "", fmt.Errorf("parse origin: %w", err)
	}
	ref, err := url.Parse(action)
	if err != nil {
		return "", fmt.Errorf("parse action %q: %w", action, err)
	}
	return base.ResolveReference(ref).String(), nil
}
