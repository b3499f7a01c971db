package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sadopc/apitester/internal/protocol"
	"golang.org/x/net/proxy"
)

// DefaultTimeout bounds a request from dispatch until the full body is read.
const DefaultTimeout = 30 * time.Second

// ErrorKind classifies a failed request.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindTimeout
	KindDNS
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindDNS:
		return "dns"
	case KindMalformed:
		return "malformed response"
	default:
		return "network"
	}
}

// RequestError is returned when a request could not be completed.
// HTTP error statuses are not RequestErrors; they are completed requests.
type RequestError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ProxyConfig holds proxy settings.
type ProxyConfig struct {
	URL     string // http://, https://, or socks5:// proxy URL
	NoProxy string // comma-separated list of hosts to bypass proxy
}

// Client sends HTTP requests.
type Client struct {
	timeout   time.Duration
	proxyConf *ProxyConfig
	tlsConf   *tls.Config
	transport http.RoundTripper
}

// New creates a new HTTP client with the default 30s timeout.
func New() *Client {
	return &Client{timeout: DefaultTimeout}
}

// SetTimeout sets the request timeout. Zero or negative restores the default.
func (c *Client) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	c.timeout = d
}

// Timeout returns the effective request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// SetProxy configures proxy settings for the client.
func (c *Client) SetProxy(proxyURL, noProxy string) {
	if proxyURL == "" {
		c.proxyConf = nil
		return
	}
	c.proxyConf = &ProxyConfig{URL: proxyURL, NoProxy: noProxy}
}

// SetTLS sets the TLS settings used for https requests. Nil keeps Go's defaults.
func (c *Client) SetTLS(cfg *tls.Config) {
	c.tlsConf = cfg
}

// SetTransport overrides the round tripper. Proxy settings are ignored when set.
func (c *Client) SetTransport(rt http.RoundTripper) {
	c.transport = rt
}

// Send performs the request. The URL is normalized before sending.
func (c *Client) Send(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	target := protocol.NormalizeURL(req.URL)
	if _, err := url.Parse(target); err != nil {
		return nil, &RequestError{Kind: KindNetwork, URL: target, Err: fmt.Errorf("parsing URL: %w", err)}
	}

	var body io.Reader
	if !req.Body.IsEmpty() {
		body = bytes.NewReader(req.Body.Bytes())
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, &RequestError{Kind: KindNetwork, URL: target, Err: fmt.Errorf("creating request: %w", err)}
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.Body.Kind == protocol.BodyStructured && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	transport := c.transport
	if transport == nil {
		transport, err = c.buildTransport()
		if err != nil {
			return nil, &RequestError{Kind: KindNetwork, URL: target, Err: fmt.Errorf("configuring transport: %w", err)}
		}
	}

	client := &http.Client{
		Timeout:   c.timeout,
		Transport: transport,
		CheckRedirect: func(r *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, &RequestError{Kind: classify(err), URL: target, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		kind := KindMalformed
		if classify(err) == KindTimeout {
			kind = KindTimeout
		}
		return nil, &RequestError{Kind: kind, URL: target, Err: fmt.Errorf("reading response: %w", err)}
	}

	return &protocol.Response{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		Headers:     resp.Header,
		Body:        respBody,
		ContentType: resp.Header.Get("Content-Type"),
		Elapsed:     elapsed,
		Size:        int64(len(respBody)),
		Proto:       resp.Proto,
	}, nil
}

// FlattenHeaders joins multi-valued headers with ", ".
func FlattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vals := range h {
		out[k] = strings.Join(vals, ", ")
	}
	return out
}

func classify(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return KindTimeout
		}
		return KindDNS
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}

// buildTransport creates an http.Transport configured with the proxy and TLS settings.
func (c *Client) buildTransport() (http.RoundTripper, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig:     c.tlsConf,
	}

	if c.proxyConf == nil {
		return transport, nil
	}

	parsed, err := url.Parse(c.proxyConf.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing proxy URL: %w", err)
	}

	switch parsed.Scheme {
	case "socks5", "socks5h":
		var auth *proxy.Auth
		if parsed.User != nil {
			password, _ := parsed.User.Password()
			auth = &proxy.Auth{
				User:     parsed.User.Username(),
				Password: password,
			}
		}
		dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("creating SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	case "http", "https":
		noProxyHosts := parseNoProxy(c.proxyConf.NoProxy)
		transport.Proxy = func(r *http.Request) (*url.URL, error) {
			if shouldBypassProxy(r.URL.Hostname(), noProxyHosts) {
				return nil, nil
			}
			return parsed, nil
		}
	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %s", parsed.Scheme)
	}

	return transport, nil
}

// parseNoProxy splits a comma-separated no-proxy string into trimmed host entries.
func parseNoProxy(noProxy string) []string {
	parts := strings.Split(noProxy, ",")
	hosts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			hosts = append(hosts, strings.ToLower(p))
		}
	}
	return hosts
}

// shouldBypassProxy checks whether a host should bypass the proxy.
func shouldBypassProxy(host string, noProxyHosts []string) bool {
	host = strings.ToLower(host)
	for _, h := range noProxyHosts {
		if h == host {
			return true
		}
		// .example.com matches any subdomain
		if strings.HasPrefix(h, ".") && strings.HasSuffix(host, h) {
			return true
		}
	}
	return false
}
