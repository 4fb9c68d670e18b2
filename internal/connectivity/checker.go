package connectivity

import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/samvad-hq/samvad-news-feed/internal/logger"
)

// Checker reports whether the content API is reachable at all.
type Checker interface {
	Connected(ctx context.Context) bool
}

// DialChecker opens and immediately closes a TCP connection to the API host.
type DialChecker struct {
	address string
	timeout time.Duration
	dial    func(ctx context.Context, network, address string) (net.Conn, error)
	log     logger.Logger
}

// NewDialChecker derives host:port from rawURL.
func NewDialChecker(rawURL string, timeout time.Duration, log logger.Logger) (*DialChecker, error) {
	addr, err := hostPort(rawURL)
	if err != nil {
		return nil, err
	}
	d := &net.Dialer{Timeout: timeout}
	return &DialChecker{
		address: addr,
		timeout: timeout,
		dial:    d.DialContext,
		log:     logger.Ensure(log),
	}, nil
}

// Connected is false when the dial fails or times out.
func (c *DialChecker) Connected(ctx context.Context) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn, err := c.dial(ctx, "tcp", c.address)
	if err != nil {
		c.log.WarnObj("connectivity probe failed", "connectivity", map[string]any{
			"address": c.address,
			"error":   err.Error(),
		})
		return false
	}
	_ = conn.Close()
	return true
}

func hostPort(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", &net.AddrError{Err: "missing host", Addr: rawURL}
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		default:
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

// Static is a fixed answer, used when probing is disabled.
type Static bool

func (s Static) Connected(context.Context) bool { return bool(s) }
