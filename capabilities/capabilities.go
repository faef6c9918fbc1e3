// Package capabilities describes which language constructs a datastore
// permits: a feature-flag record shared (read-only) across every
// Options value derived for a session.
package capabilities

// Capabilities controls which optional language surfaces are enabled.
// The zero value turns every surface off; Default() turns all of them
// on.
type Capabilities struct {
	ScriptingAllowed bool
	NetworkAllowed   bool
	FuturesAllowed   bool
	GuestAccess      bool
}

// Default returns the permissive default capability set used when a
// session does not configure one explicitly.
func Default() Capabilities {
	return Capabilities{
		ScriptingAllowed: true,
		NetworkAllowed:   true,
		FuturesAllowed:   true,
		GuestAccess:      true,
	}
}

// AllowScripting reports whether embedded scripting functions may run.
func (c Capabilities) AllowScripting() bool { return c.ScriptingAllowed }

// AllowNetwork reports whether functions that perform outbound network
// calls may run.
func (c Capabilities) AllowNetwork() bool { return c.NetworkAllowed }

// AllowFutures reports whether future-value fields may be computed.
func (c Capabilities) AllowFutures() bool { return c.FuturesAllowed }

// AllowGuests reports whether anonymous, unauthenticated sessions are
// permitted at all.
func (c Capabilities) AllowGuests() bool { return c.GuestAccess }
