package engine

import "testing"

func TestParseEndpointRecognizedSchemes(t *testing.T) {
	for _, raw := range []string{"rocksdb:///var/lib/coredb", "file:///tmp/coredb", "speedb:///var/lib/coredb"} {
		if _, err := ParseEndpoint(raw); err != nil {
			t.Errorf("ParseEndpoint(%q) error: %v", raw, err)
		}
	}
}

func TestParseEndpointRejectsUnknownScheme(t *testing.T) {
	if _, err := ParseEndpoint("postgres://localhost/db"); err == nil {
		t.Error("expected an unrecognized scheme to error")
	}
}

func TestParseEndpointRejectsUnparsable(t *testing.T) {
	if _, err := ParseEndpoint("://not a url"); err == nil {
		t.Error("expected an unparsable url to error")
	}
}
