// Package dbs implements the execution options bag (C3) and the
// iterator runtime (C6) threaded through every statement: selected
// namespace/database, authorization, capability flags, the recursion
// budget, and the notification sink.
package dbs

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"

	"github.com/driftdb/core/capabilities"
	"github.com/driftdb/core/dberr"
	"github.com/driftdb/core/dbs/notify"
	"github.com/driftdb/core/iam"
)

// maxComputationDepth bounds Options.dive's saturating counter; a
// statement that recurses past this is rejected rather than risking a
// runaway stack.
const maxComputationDepth = 128

// BaseKind is the scoping level a resource is evaluated at.
type BaseKind int

const (
	BaseRoot BaseKind = iota
	BaseNS
	BaseDB
	BaseScope
)

// Base names the scoping level Options.SelectedBase resolves to, or
// the level an IsAllowed check targets (with Scope set only for
// BaseScope).
type Base struct {
	Kind  BaseKind
	Scope string
}

// Options is a cheap-to-clone settings value threaded through every
// statement. Mutation happens by deriving a new value via the With*
// family (builder-style chaining) or the NewWith* family (explicit
// derivation for sub-statement descent) — both simply return a
// modified copy, since Go's value-receiver semantics already give every
// derivation that property.
type Options struct {
	id uuid.UUID
	ns *string
	db *string

	dive uint8

	auth        iam.Auth
	authEnabled bool

	Live        bool
	Force       bool
	Perms       bool
	Strict      bool
	Fields      bool
	Events      bool
	Tables      bool
	Indexes     bool
	Futures     bool
	Projections bool

	sender notify.Sink
	caps   capabilities.Capabilities

	permsCache *lru.Cache[string, bool]
}

// New returns the default Options value: perms/fields/events/tables/
// indexes on, everything else off, auth enabled, anonymous principal.
func New() Options {
	cache, _ := lru.New[string, bool](256)
	return Options{
		auth:        iam.Anonymous,
		authEnabled: true,
		Perms:       true,
		Fields:      true,
		Events:      true,
		Tables:      true,
		Indexes:     true,
		caps:        capabilities.Default(),
		permsCache:  cache,
	}
}

// --------------------------------------------------------------------
// with_* builders
// --------------------------------------------------------------------

func (o Options) WithID(id uuid.UUID) Options { o.id = id; return o }

func (o Options) WithNS(ns *string) Options { o.ns = ns; return o }

func (o Options) WithDB(db *string) Options { o.db = db; return o }

// WithAuth derives Options bound to a different principal. The perms
// cache is reset rather than carried over: it is keyed only by
// action/ns/db, so a cached result for one principal must never be
// served to another.
func (o Options) WithAuth(auth iam.Auth) Options {
	o.auth = auth
	if o.permsCache != nil {
		cache, _ := lru.New[string, bool](256)
		o.permsCache = cache
	}
	return o
}

func (o Options) WithAuthEnabled(v bool) Options { o.authEnabled = v; return o }

func (o Options) WithLive(v bool) Options { o.Live = v; return o }

func (o Options) WithPerms(v bool) Options { o.Perms = v; return o }

func (o Options) WithForce(v bool) Options { o.Force = v; return o }

func (o Options) WithStrict(v bool) Options { o.Strict = v; return o }

func (o Options) WithFields(v bool) Options { o.Fields = v; return o }

func (o Options) WithEvents(v bool) Options { o.Events = v; return o }

func (o Options) WithTables(v bool) Options { o.Tables = v; return o }

func (o Options) WithIndexes(v bool) Options { o.Indexes = v; return o }

func (o Options) WithFutures(v bool) Options { o.Futures = v; return o }

func (o Options) WithProjections(v bool) Options { o.Projections = v; return o }

// WithImport turns fields/events/tables off together (or back on),
// mirroring an import run that must not re-trigger field/event/table
// side effects.
func (o Options) WithImport(v bool) Options {
	o.Fields = !v
	o.Events = !v
	o.Tables = !v
	return o
}

func (o Options) WithCapabilities(c capabilities.Capabilities) Options { o.caps = c; return o }

// WithRequired sets every field the rest of the engine expects to
// always be populated: node identity, namespace/database selection,
// and the auth principal. Used for one-shot CLI/test bootstrap.
func (o Options) WithRequired(nodeID uuid.UUID, ns, db *string, auth iam.Auth) Options {
	o.id = nodeID
	o.ns = ns
	o.db = db
	return o.WithAuth(auth)
}

// --------------------------------------------------------------------
// new_with_* derivations — named explicitly where a caller descending
// into a sub-statement needs the distinct name for clarity.
// --------------------------------------------------------------------

// NewWithSender derives Options with sender attached, for a statement
// that starts a live-query subscription mid-execution.
func (o Options) NewWithSender(sender notify.Sink) Options { o.sender = sender; return o }

// NewWithImport is WithImport's new_with_* counterpart, used by the
// bulk-import path.
func (o Options) NewWithImport(v bool) Options { return o.WithImport(v) }

// --------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------

func (o Options) ID() uuid.UUID { return o.id }

// NS returns the selected namespace and whether one is selected.
func (o Options) NS() (string, bool) {
	if o.ns == nil {
		return "", false
	}
	return *o.ns, true
}

// DB returns the selected database and whether one is selected.
func (o Options) DB() (string, bool) {
	if o.db == nil {
		return "", false
	}
	return *o.db, true
}

func (o Options) Auth() iam.Auth { return o.auth }

func (o Options) AuthEnabled() bool { return o.authEnabled }

func (o Options) Capabilities() capabilities.Capabilities { return o.caps }

func (o Options) Sender() notify.Sink { return o.sender }

// SelectedBase maps the (ns, db) selection to a scoping level:
// neither selected -> Root, ns only -> Namespace, both -> Database.
// db without ns is illegal and yields NsEmpty.
func (o Options) SelectedBase() (Base, error) {
	switch {
	case o.ns == nil && o.db == nil:
		return Base{Kind: BaseRoot}, nil
	case o.ns != nil && o.db == nil:
		return Base{Kind: BaseNS}, nil
	case o.ns != nil && o.db != nil:
		return Base{Kind: BaseDB}, nil
	default:
		return Base{}, &dberr.NsEmpty{}
	}
}

// Dive derives Options for a nested computation (a function call, a
// subquery, a future): cost is the approximate relative stack cost of
// the descent. The depth counter saturates at 255 rather than
// wrapping, and the derived value errors if it would exceed
// maxComputationDepth.
func (o Options) Dive(cost uint8) (Options, error) {
	dive := o.dive
	if uint16(dive)+uint16(cost) > 255 {
		dive = 255
	} else {
		dive += cost
	}
	if dive > maxComputationDepth {
		return Options{}, &dberr.ComputationDepthExceeded{}
	}
	derived := o
	derived.dive = dive
	return derived, nil
}

// Realtime reports whether this Options value supports realtime
// (live-query) processing.
func (o Options) Realtime() error {
	if !o.Live {
		return &dberr.RealtimeDisabled{}
	}
	return nil
}

// ValidForNS asserts a namespace is selected.
func (o Options) ValidForNS() error {
	if o.ns == nil {
		return &dberr.NsEmpty{}
	}
	return nil
}

// ValidForDB asserts a namespace and database are both selected.
func (o Options) ValidForDB() error {
	if err := o.ValidForNS(); err != nil {
		return err
	}
	if o.db == nil {
		return &dberr.DbEmpty{}
	}
	return nil
}

// IsAllowed checks whether the current auth principal may perform
// action on a resource of kind resolved at base. When auth is disabled
// and the principal is anonymous, every action is allowed.
func (o Options) IsAllowed(action iam.Action, kind iam.ResourceKind, base Base) error {
	if !o.authEnabled && o.auth.IsAnon() {
		return nil
	}

	var res iam.Resource
	switch base.Kind {
	case BaseRoot:
		res = kind.OnRoot()
	case BaseNS:
		if err := o.ValidForNS(); err != nil {
			return err
		}
		ns, _ := o.NS()
		res = kind.OnNS(ns)
	case BaseDB:
		if err := o.ValidForDB(); err != nil {
			return err
		}
		ns, _ := o.NS()
		db, _ := o.DB()
		res = kind.OnDB(ns, db)
	default:
		if err := o.ValidForDB(); err != nil {
			return err
		}
		ns, _ := o.NS()
		db, _ := o.DB()
		res = kind.OnScope(ns, db, base.Scope)
	}

	if err := o.auth.IsAllowed(action, res); err != nil {
		return &dberr.IamError{Cause: err}
	}
	return nil
}

// CheckPerms reports whether a permission check is still needed for
// action: it is a fast path that returns false when Perms is off, when
// auth is disabled and the principal is anonymous, or when the actor's
// static role set already proves the action is allowed, letting the
// caller skip a per-row authorization pass.
func (o Options) CheckPerms(action iam.Action) bool {
	if !o.Perms {
		return false
	}
	if !o.authEnabled && o.auth.IsAnon() {
		return false
	}

	ns, hasNS := o.NS()
	db, hasDB := o.DB()

	if o.permsCache != nil {
		key := cacheKey(action, ns, db)
		if cached, ok := o.permsCache.Get(key); ok {
			return cached
		}
		result := o.computeCheckPerms(action, ns, hasNS, db, hasDB)
		o.permsCache.Add(key, result)
		return result
	}
	return o.computeCheckPerms(action, ns, hasNS, db, hasDB)
}

func (o Options) computeCheckPerms(action iam.Action, ns string, hasNS bool, db string, hasDB bool) bool {
	canView := o.auth.HasRole(iam.Viewer) || o.auth.HasRole(iam.Editor) || o.auth.HasRole(iam.Owner)
	canEdit := o.auth.HasRole(iam.Editor) || o.auth.HasRole(iam.Owner)

	level := o.auth.Level()
	dbInActorLevel := o.auth.IsRoot() ||
		(o.auth.IsNS() && hasNS && level.NS == ns) ||
		(o.auth.IsDB() && hasNS && hasDB && level.NS == ns && level.DB == db)

	var isAllowed bool
	switch action {
	case iam.View:
		isAllowed = canView && dbInActorLevel
	case iam.Edit:
		isAllowed = canEdit && dbInActorLevel
	}
	return !isAllowed
}

func cacheKey(action iam.Action, ns, db string) string {
	return action.String() + "|" + ns + "|" + db
}
