// Package httpclient configures the HTTP client used to call the portal
// services. One client is shared by every pipeline stage; the timeout applies
// per request, not to a whole run.
package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

type Options struct {
	Timeout time.Duration
	// InsecureTLS skips certificate verification, for portals behind
	// self-signed certificates.
	InsecureTLS bool
}

func NewOutbound(opts Options) *http.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if opts.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
