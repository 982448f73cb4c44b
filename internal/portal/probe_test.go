package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProbeServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/generate_204", 2*time.Second)
}

func TestProbeRedirectWithLocation(t *testing.T) {
	for _, code := range []int{http.StatusFound, http.StatusMovedPermanently, http.StatusSeeOther, http.StatusTemporaryRedirect} {
		c := newProbeServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Location", "http://10.1.0.1:1000/fgtauth?0102a3b4")
			w.WriteHeader(code)
		})

		res, err := c.Probe(context.Background())
		require.NoError(t, err)
		assert.True(t, res.Captive, "status %d", code)
		assert.Equal(t, "http://10.1.0.1:1000/fgtauth?0102a3b4", res.PortalURL)
	}
}

func TestProbeRelativeLocationResolved(t *testing.T) {
	var base string
	c := newProbeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/login?from=probe")
		w.WriteHeader(http.StatusFound)
	})
	base = c.ProbeURL()

	res, err := c.Probe(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Captive)
	origin, err := Origin(base)
	require.NoError(t, err)
	assert.Equal(t, origin+"/login?from=probe", res.PortalURL)
}

func TestProbeRedirectWithoutLocation(t *testing.T) {
	c := newProbeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	})

	res, err := c.Probe(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Captive)
	assert.Empty(t, res.PortalURL)
}

func TestProbeBodyRedirect(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "window.location assignment",
			body: `<html><script>window.location="http://portal.example/login"</script></html>`,
			want: "http://portal.example/login",
		},
		{
			name: "fortigate fgtauth",
			body: `<html><body><script language="JavaScript">window.location="http://10.0.0.1:1000/fgtauth?070c0d0b8a";</script></body></html>`,
			want: "http://10.0.0.1:1000/fgtauth?070c0d0b8a",
		},
		{
			name: "location.href with single quotes",
			body: `<script>location.href = 'https://login.campus.example/portal';</script>`,
			want: "https://login.campus.example/portal",
		},
		{
			name: "location.replace",
			body: `<script>top.location.replace("http://gw.example/auth")</script>`,
			want: "http://gw.example/auth",
		},
		{
			name: "embedded absolute url",
			body: `<meta http-equiv="refresh" content="0; url=http://192.168.1.1/login.html">`,
			want: "http://192.168.1.1/login.html",
		},
		{
			name: "hyphenated location attribute ignored",
			body: `<html><body><div data-location="Lobby">Welcome</div><a href="http://hotel.example/login">Sign in</a></body></html>`,
			want: "http://hotel.example/login",
		},
		{
			name: "xhtml meta refresh",
			body: `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml"><head>
<meta content="0; URL='http://10.2.0.1/portal/login'" http-equiv="Refresh" />
</head><body>Redirecting</body></html>`,
			want: "http://10.2.0.1/portal/login",
		},
		{
			name: "xhtml without refresh skips w3 urls",
			body: `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml"><body><a href="https://wifi.example/accept">Accept</a></body></html>`,
			want: "https://wifi.example/accept",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newProbeServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(tt.body))
			})

			res, err := c.Probe(context.Background())
			require.NoError(t, err)
			assert.True(t, res.Captive)
			assert.Equal(t, tt.want, res.PortalURL)
		})
	}
}

func TestProbeNoInterception(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"204 empty": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
		"200 plain body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		},
		"xhtml boilerplate only": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html xmlns="http://www.w3.org/1999/xhtml"><div data-location="Lobby">hi</div></html>`))
		},
		"500": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	}

	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			c := newProbeServer(t, h)
			res, err := c.Probe(context.Background())
			require.NoError(t, err)
			assert.False(t, res.Captive)
			assert.Empty(t, res.PortalURL)
		})
	}
}

func TestProbeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	_, err := c.Probe(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.False(t, IsParse(err))
}

func TestProbeTimeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(done)
		srv.Close()
	})

	c := NewClient(srv.URL, 100*time.Millisecond)
	start := time.Now()
	_, err := c.Probe(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Less(t, time.Since(start), 2*time.Second)
}
