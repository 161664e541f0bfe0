package transport

import (
	"fmt"
	"net/url"
	"strings"
)

// Path identifies one route to the provider.
type Path string

const (
	PathDirect Path = "direct"
	PathProxy  Path = "proxy"
)

// Order is the sequence in which paths are tried.
type Order int

const (
	// DirectThenProxy calls the origin, then the proxy on failure.
	DirectThenProxy Order = iota
	// ProxyThenDirect calls the proxy, then the origin on failure.
	ProxyThenDirect
)

// String returns the configuration name of the order.
func (o Order) String() string {
	switch o {
	case DirectThenProxy:
		return "direct-then-proxy"
	case ProxyThenDirect:
		return "proxy-then-direct"
	default:
		return "unknown"
	}
}

// ParseOrder parses a configuration name into an Order.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "direct-then-proxy":
		return DirectThenProxy, nil
	case "proxy-then-direct":
		return ProxyThenDirect, nil
	default:
		return 0, fmt.Errorf("transport: unknown path order %q", s)
	}
}

// paths returns the attempt sequence. Without a proxy only the direct
// path is available.
func (o Order) paths(hasProxy bool) []Path {
	switch {
	case !hasProxy:
		return []Path{PathDirect}
	case o == ProxyThenDirect:
		return []Path{PathProxy, PathDirect}
	default:
		return []Path{PathDirect, PathProxy}
	}
}

// ProxyWrapper turns an origin URL into the URL of the same request sent
// through a proxy.
type ProxyWrapper func(rawURL string) string

// PrefixProxy returns a wrapper that prepends base to the origin URL
// verbatim, e.g. "https://cors-anywhere.herokuapp.com/https://origin/...".
func PrefixProxy(base string) ProxyWrapper {
	return func(rawURL string) string {
		return base + rawURL
	}
}

// QueryProxy returns a wrapper that appends the query-escaped origin URL
// to base, e.g. "https://corsproxy.io/?https%3A%2F%2Forigin%2F...".
func QueryProxy(base string) ProxyWrapper {
	return func(rawURL string) string {
		return base + url.QueryEscape(rawURL)
	}
}

// ParseProxy builds a wrapper from a configured style and base URL.
// An empty base disables the proxy path.
func ParseProxy(style, base string) (ProxyWrapper, error) {
	if base == "" {
		return nil, nil
	}
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", "prefix":
		return PrefixProxy(base), nil
	case "query":
		return QueryProxy(base), nil
	default:
		return nil, fmt.Errorf("transport: unknown proxy style %q", style)
	}
}
