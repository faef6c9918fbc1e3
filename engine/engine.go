// Package engine describes the embedded storage endpoints the core
// consumes: a URL naming which local backend to open, plus a Config
// sidecar. Parsing only — no on-disk format or driver lives here.
package engine

import (
	"net/url"

	"github.com/driftdb/core/capabilities"
	"github.com/driftdb/core/dberr"
)

// Config is the sidecar carried alongside an Endpoint.
type Config struct {
	CacheSizeMB  int
	Strict       bool
	Capabilities capabilities.Capabilities
}

// DefaultConfig returns the Config used when an endpoint doesn't
// specify one explicitly.
func DefaultConfig() Config {
	return Config{CacheSizeMB: 128, Capabilities: capabilities.Default()}
}

// Endpoint names a local storage backend and its configuration.
type Endpoint struct {
	URL    *url.URL
	Config Config
}

var recognizedSchemes = map[string]bool{
	"rocksdb": true,
	"file":    true,
	"speedb":  true,
}

// ParseEndpoint parses raw into an Endpoint, recognizing the
// rocksdb://, file://, and speedb:// schemes. Any other scheme, or an
// unparsable URL, yields an InvalidURL error.
func ParseEndpoint(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil || !recognizedSchemes[u.Scheme] {
		return Endpoint{}, &dberr.InvalidURL{Raw: raw}
	}
	return Endpoint{URL: u, Config: DefaultConfig()}, nil
}

// WithConfig returns a copy of e with its Config replaced.
func (e Endpoint) WithConfig(cfg Config) Endpoint {
	e.Config = cfg
	return e
}
