// Package iam models the external authorization collaborator consumed
// by the dbs package: actions, resource identifiers, roles and the Auth
// principal contract. The concrete backend (session resolution, role
// storage) lives outside this repository; TokenAuth is a JWT-decoded
// principal good enough for the CLI and tests.
package iam

import "fmt"

// Action is an operation an Auth principal may or may not be allowed to
// perform on a Resource.
type Action int

const (
	View Action = iota
	Edit
)

func (a Action) String() string {
	if a == Edit {
		return "Edit"
	}
	return "View"
}

// Level is the scoping level a principal or a resource is pinned to.
type Level int

const (
	LevelRoot Level = iota
	LevelNS
	LevelDB
	LevelScope
)

// Resource identifies the thing an Action is checked against, already
// resolved to a concrete scoping level.
type Resource struct {
	Level Level
	NS    string
	DB    string
	Scope string
}

func (r Resource) String() string {
	switch r.Level {
	case LevelRoot:
		return "ROOT"
	case LevelNS:
		return fmt.Sprintf("NS:%s", r.NS)
	case LevelDB:
		return fmt.Sprintf("NS:%s DB:%s", r.NS, r.DB)
	default:
		return fmt.Sprintf("NS:%s DB:%s SC:%s", r.NS, r.DB, r.Scope)
	}
}

// ResourceKind is the kind of thing being protected (a table, a scope
// definition, a function, …); it resolves to a concrete Resource once
// the targeting level is known.
type ResourceKind struct {
	Name string
}

func (k ResourceKind) OnRoot() Resource { return Resource{Level: LevelRoot} }

func (k ResourceKind) OnNS(ns string) Resource { return Resource{Level: LevelNS, NS: ns} }

func (k ResourceKind) OnDB(ns, db string) Resource {
	return Resource{Level: LevelDB, NS: ns, DB: db}
}

func (k ResourceKind) OnScope(ns, db, sc string) Resource {
	return Resource{Level: LevelScope, NS: ns, DB: db, Scope: sc}
}

// Role is a principal's authorization level within whatever Level it is
// bound to.
type Role int

const (
	Viewer Role = iota
	Editor
	Owner
)

// Auth is the principal contract consumed by Options.IsAllowed and
// Options.CheckPerms.
type Auth interface {
	IsAnon() bool
	IsRoot() bool
	IsNS() bool
	IsDB() bool
	Level() Resource
	HasRole(Role) bool
	IsAllowed(Action, Resource) error
}

// ErrNotAllowed is returned by an Auth.IsAllowed implementation when the
// principal's roles do not cover the requested Action at the requested
// Resource.
type ErrNotAllowed struct {
	Action   Action
	Resource Resource
}

func (e *ErrNotAllowed) Error() string {
	return fmt.Sprintf("not allowed to %s %s", e.Action, e.Resource)
}

// anonAuth is the zero-value principal: anonymous, no roles, bound to
// Root level (so Level() is always well-formed even before a real
// session is attached).
type anonAuth struct{}

// Anonymous is the default, unauthenticated principal.
var Anonymous Auth = anonAuth{}

func (anonAuth) IsAnon() bool                     { return true }
func (anonAuth) IsRoot() bool                     { return false }
func (anonAuth) IsNS() bool                       { return false }
func (anonAuth) IsDB() bool                       { return false }
func (anonAuth) Level() Resource                  { return Resource{Level: LevelRoot} }
func (anonAuth) HasRole(Role) bool                { return false }
func (anonAuth) IsAllowed(a Action, r Resource) error {
	return &ErrNotAllowed{Action: a, Resource: r}
}
