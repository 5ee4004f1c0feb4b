// Package network provides the HTTP client used to fetch frame artwork.
package network

import (
	"net/http"
	"time"

	"github.com/framecast/framecast/constant"
)

// Client is shared by every artwork loader. A sequence is thousands of small images from
// one origin, so the pool keeps many idle connections to a single host.
var Client = &http.Client{
	Timeout:   30 * time.Second,
	Transport: &userAgent{base: newTransport()},
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 32
	t.MaxIdleConnsPerHost = 32
	t.MaxConnsPerHost = 32
	t.IdleConnTimeout = 90 * time.Second
	t.ResponseHeaderTimeout = 10 * time.Second
	return t
}

// userAgent stamps requests that do not carry a user agent of their own.
type userAgent struct {
	base http.RoundTripper
}

func (u *userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", constant.UserAgent)
	return u.base.RoundTrip(req)
}
