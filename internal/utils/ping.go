package utils

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

const inferenceProbeTimeout = 1500 * time.Millisecond

// PingInference probes TCP reachability of the inference endpoint's host.
// It deliberately does not issue a real completion request: the endpoint
// bills and rate-limits per call, so the health check only answers "is the
// host there at all".
func PingInference(inferenceURL string) error {
	addr, err := hostPort(inferenceURL)
	if err != nil {
		return err
	}
	conn, err := net.DialTimeout("tcp", addr, inferenceProbeTimeout)
	if err != nil {
		return fmt.Errorf("inference endpoint unreachable at %s: %w", addr, err)
	}
	return conn.Close()
}

// hostPort extracts a dialable host:port from a service URL, filling in the
// scheme's default port when the URL carries none.
func hostPort(serviceURL string) (string, error) {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return "", fmt.Errorf("invalid service URL %q: %w", serviceURL, err)
	}
	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
